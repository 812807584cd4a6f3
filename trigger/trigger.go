// Package trigger implements the desk's condition/action engine: persistent
// price triggers watching open positions, evaluated on a fixed interval by a
// background monitor, executed exactly once against the terminal.
//
// Two behaviors ship with the desk: auto-breakeven (move the stop loss to
// entry once price clears a level) and partial take-profit (close a
// percentage of the position at a level). Both share the same store,
// monitor, and engine; only validation, identity, and the fired action
// differ.
package trigger

import (
	"time"

	"github.com/rustyeddy/desk/broker"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusExecuted Status = "executed"
)

// Trigger is one stored condition/action pair watching a position. Symbol,
// side, and price are fixed at creation; the only legal mutation afterwards
// is the active → executed status flip.
type Trigger struct {
	ID     string      `json:"id"`
	Ticket int64       `json:"ticket"`
	Symbol string      `json:"symbol"`
	Side   broker.Side `json:"side"`
	Price  float64     `json:"trigger_price"`
	Status Status      `json:"status"`

	CreatedAt  time.Time  `json:"created_at"`
	ExecutedAt *time.Time `json:"executed_at,omitempty"`

	// Partial take-profit only.
	ClosePercent float64  `json:"close_percentage,omitempty"`
	VolumeClosed *float64 `json:"volume_closed,omitempty"`
}

func (t Trigger) Active() bool {
	return t.Status == StatusActive
}

// valid reports whether a loaded record carries every required field.
// Records failing this are dropped individually at load time.
func (t Trigger) valid() bool {
	if t.ID == "" || t.Ticket == 0 || t.Symbol == "" || t.Price <= 0 {
		return false
	}
	if t.Side != broker.Long && t.Side != broker.Short {
		return false
	}
	if t.Status != StatusActive && t.Status != StatusExecuted {
		return false
	}
	return true
}
