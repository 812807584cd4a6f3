package trigger

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/desk/broker"
	"github.com/rustyeddy/desk/id"
	"github.com/rustyeddy/desk/market"
)

// Params carries the behavior-specific payload for Add. Breakeven ignores
// it; partial take-profit reads ClosePercent.
type Params struct {
	ClosePercent float64
}

// Behavior is the strategy object that makes the generic engine an
// auto-breakeven or partial take-profit engine: identity scheme, add-time
// validation rule, and the action fired at the terminal.
type Behavior interface {
	// Name labels journal rows, metrics, and log lines.
	Name() string

	// SingleForTicket reports whether the behavior allows at most one
	// trigger per position (breakeven) or many (partial close).
	SingleForTicket() bool

	// ID derives the trigger identity for a new trigger on pos.
	ID(pos broker.Position) string

	// Validate checks the threshold side rule and params against the live
	// position. An error means the add is rejected with no mutation.
	Validate(pos broker.Position, price float64, p Params) error

	// Execute fires the behavior's action at the terminal.
	Execute(ctx context.Context, act broker.Actions, t Trigger) (broker.ActionResult, error)
}

// Breakeven moves a position's stop loss to its entry price once the exit
// price clears the trigger level. One trigger per position, keyed by
// ticket.
type Breakeven struct{}

func (Breakeven) Name() string          { return "auto_be" }
func (Breakeven) SingleForTicket() bool { return true }

func (Breakeven) ID(pos broker.Position) string {
	return fmt.Sprintf("be-%d", pos.Ticket)
}

// Validate requires the level strictly beyond entry in the favorable
// direction, otherwise the stop would move to entry while the position is
// still under water.
func (Breakeven) Validate(pos broker.Position, price float64, _ Params) error {
	if pos.Side == broker.Long && price <= pos.OpenPrice {
		return fmt.Errorf("trigger price must be above entry (%v)",
			market.NormalizePrice(pos.Symbol, pos.OpenPrice))
	}
	if pos.Side == broker.Short && price >= pos.OpenPrice {
		return fmt.Errorf("trigger price must be below entry (%v)",
			market.NormalizePrice(pos.Symbol, pos.OpenPrice))
	}
	return nil
}

func (Breakeven) Execute(ctx context.Context, act broker.Actions, t Trigger) (broker.ActionResult, error) {
	return act.MoveStopToEntry(ctx, t.Ticket)
}

// PartialClose closes a percentage of the position's volume at the trigger
// level. Many triggers may watch one position; each gets a generated id.
type PartialClose struct{}

func (PartialClose) Name() string          { return "partial_tp" }
func (PartialClose) SingleForTicket() bool { return false }

func (PartialClose) ID(pos broker.Position) string {
	return id.New()
}

// Validate requires 0 < percent < 100 and the level strictly beyond the
// current price in the favorable direction.
func (PartialClose) Validate(pos broker.Position, price float64, p Params) error {
	if p.ClosePercent <= 0 || p.ClosePercent >= 100 {
		return fmt.Errorf("close percentage must be between 0 and 100")
	}
	if pos.Side == broker.Long && price <= pos.CurrentPrice {
		return fmt.Errorf("trigger price must be above current price (%v)",
			market.NormalizePrice(pos.Symbol, pos.CurrentPrice))
	}
	if pos.Side == broker.Short && price >= pos.CurrentPrice {
		return fmt.Errorf("trigger price must be below current price (%v)",
			market.NormalizePrice(pos.Symbol, pos.CurrentPrice))
	}
	return nil
}

func (PartialClose) Execute(ctx context.Context, act broker.Actions, t Trigger) (broker.ActionResult, error) {
	return act.ClosePercent(ctx, t.Ticket, t.ClosePercent)
}

// newTrigger builds an active trigger from a validated add request.
func newTrigger(b Behavior, pos broker.Position, price float64, p Params) Trigger {
	t := Trigger{
		ID:        b.ID(pos),
		Ticket:    pos.Ticket,
		Symbol:    pos.Symbol,
		Side:      pos.Side,
		Price:     market.NormalizePrice(pos.Symbol, price),
		Status:    StatusActive,
		CreatedAt: time.Now().UTC(),
	}
	if !b.SingleForTicket() {
		t.ClosePercent = p.ClosePercent
	}
	return t
}
