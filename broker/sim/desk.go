// Package sim provides an in-memory desk: quotes, positions, and actions
// with terminal-like semantics (exit-side fills, lot-step volume rounding).
// It backs the test suite and the demo command; nothing here talks to a
// real terminal.
package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/rustyeddy/desk/broker"
	"github.com/rustyeddy/desk/market"
)

type quote struct {
	bid, ask float64
}

type Desk struct {
	mu         sync.Mutex
	quotes     map[string]quote
	positions  map[int64]*broker.Position
	nextTicket int64
}

func NewDesk() *Desk {
	return &Desk{
		quotes:     make(map[string]quote),
		positions:  make(map[int64]*broker.Position),
		nextTicket: 1000,
	}
}

// SetQuote publishes a bid/ask pair for symbol and revalues every open
// position on it at the exit-side price.
func (d *Desk) SetQuote(symbol string, bid, ask float64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.quotes[symbol] = quote{bid: bid, ask: ask}
	for _, p := range d.positions {
		if p.Symbol != symbol {
			continue
		}
		if p.Side == broker.Long {
			p.CurrentPrice = bid
		} else {
			p.CurrentPrice = ask
		}
	}
}

// ClearQuote drops the quote for symbol, simulating a transient data gap.
func (d *Desk) ClearQuote(symbol string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.quotes, symbol)
}

// Open creates a position filled at the current entry-side quote (ask for
// long, bid for short) and returns its ticket.
func (d *Desk) Open(symbol string, side broker.Side, volume float64) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	q, ok := d.quotes[symbol]
	if !ok {
		return 0, fmt.Errorf("open %s: %w", symbol, broker.ErrNoQuote)
	}

	fill := q.ask
	current := q.bid
	if side == broker.Short {
		fill = q.bid
		current = q.ask
	}

	d.nextTicket++
	ticket := d.nextTicket
	d.positions[ticket] = &broker.Position{
		Ticket:       ticket,
		Symbol:       symbol,
		Side:         side,
		Volume:       market.NormalizeVolume(symbol, volume),
		OpenPrice:    fill,
		CurrentPrice: current,
	}
	return ticket, nil
}

// Close removes a position entirely, as a manual close or stop-out would.
func (d *Desk) Close(ticket int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.positions[ticket]; !ok {
		return broker.ErrPositionNotFound
	}
	delete(d.positions, ticket)
	return nil
}

func (d *Desk) Bid(ctx context.Context, symbol string) (float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	q, ok := d.quotes[symbol]
	if !ok {
		return 0, broker.ErrNoQuote
	}
	return q.bid, nil
}

func (d *Desk) Ask(ctx context.Context, symbol string) (float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	q, ok := d.quotes[symbol]
	if !ok {
		return 0, broker.ErrNoQuote
	}
	return q.ask, nil
}

func (d *Desk) Position(ctx context.Context, ticket int64) (broker.Position, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.positions[ticket]
	if !ok {
		return broker.Position{}, broker.ErrPositionNotFound
	}
	return *p, nil
}

func (d *Desk) MoveStopToEntry(ctx context.Context, ticket int64) (broker.ActionResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.positions[ticket]
	if !ok {
		return broker.ActionResult{Reason: "position not found"}, nil
	}
	if p.StopLoss == p.OpenPrice {
		return broker.ActionResult{Reason: "stop already at entry"}, nil
	}

	p.StopLoss = p.OpenPrice
	return broker.ActionResult{Success: true}, nil
}

func (d *Desk) ClosePercent(ctx context.Context, ticket int64, percent float64) (broker.ActionResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.positions[ticket]
	if !ok {
		return broker.ActionResult{Reason: "position not found"}, nil
	}
	if percent <= 0 || percent >= 100 {
		return broker.ActionResult{Reason: "invalid percentage"}, nil
	}

	closeVolume := market.NormalizeVolume(p.Symbol, p.Volume*percent/100)
	remaining := p.Volume - closeVolume

	// A remainder below the tradable minimum cannot stay open.
	if remaining < market.Meta(p.Symbol).VolumeMin {
		closeVolume = p.Volume
		delete(d.positions, ticket)
	} else {
		p.Volume = market.NormalizeVolume(p.Symbol, remaining)
	}

	return broker.ActionResult{Success: true, VolumeClosed: closeVolume}, nil
}
