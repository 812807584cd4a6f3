// Package broker defines the gate interfaces between the desk and the
// trading terminal: quotes, position snapshots, and position-modifying
// actions. The trigger engine consumes these; broker/sim and broker/bridge
// provide them.
package broker

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNoQuote marks a transient quote gap. Callers skip and retry;
	// it is never a fault.
	ErrNoQuote = errors.New("no quote available")

	// ErrPositionNotFound means the position no longer exists at the
	// terminal (closed manually, stopped out, or never existed).
	ErrPositionNotFound = errors.New("position not found")
)

// Side is the direction of a position: long closes on bid, short on ask.
type Side int

const (
	Long  Side = 1
	Short Side = -1
)

func (s Side) String() string {
	if s == Short {
		return "short"
	}
	return "long"
}

// MarshalText persists sides as "long"/"short" so trigger files stay
// human-readable.
func (s Side) MarshalText() ([]byte, error) {
	switch s {
	case Long, Short:
		return []byte(s.String()), nil
	}
	return nil, fmt.Errorf("invalid side %d", int(s))
}

func (s *Side) UnmarshalText(b []byte) error {
	switch string(b) {
	case "long":
		*s = Long
	case "short":
		*s = Short
	default:
		return fmt.Errorf("invalid side %q", string(b))
	}
	return nil
}

// Position is a point-in-time snapshot of one open position.
type Position struct {
	Ticket       int64
	Symbol       string
	Side         Side
	Volume       float64 // lots
	OpenPrice    float64
	CurrentPrice float64
	StopLoss     float64 // 0 = none
	TakeProfit   float64 // 0 = none
}

// ActionResult reports the terminal's verdict on a requested action.
// A transport-level failure is returned as an error instead; a reachable
// terminal that rejects the request sets Success=false with a Reason.
type ActionResult struct {
	Success      bool
	Reason       string
	VolumeClosed float64 // lots actually closed, partial close only
}

// MarketData serves best bid/ask on demand. Absent quotes are reported as
// ErrNoQuote.
type MarketData interface {
	Bid(ctx context.Context, symbol string) (float64, error)
	Ask(ctx context.Context, symbol string) (float64, error)
}

// Positions resolves live position state by ticket. A position that no
// longer exists is reported as ErrPositionNotFound.
type Positions interface {
	Position(ctx context.Context, ticket int64) (Position, error)
}

// Actions executes position-modifying requests at the terminal.
type Actions interface {
	MoveStopToEntry(ctx context.Context, ticket int64) (ActionResult, error)
	ClosePercent(ctx context.Context, ticket int64, percent float64) (ActionResult, error)
}

// Desk bundles the three gates; both broker implementations satisfy it.
type Desk interface {
	MarketData
	Positions
	Actions
}
