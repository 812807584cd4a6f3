package trigger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rustyeddy/desk/broker"
	"github.com/rustyeddy/desk/journal"
	"github.com/rustyeddy/desk/market"
)

// ErrTriggerNotFound is returned by Remove for an unknown id.
var ErrTriggerNotFound = errors.New("trigger not found")

// Options wires one Engine. Behavior, Desk, and Store are required;
// everything else has a default.
type Options struct {
	Behavior Behavior
	Desk     broker.Desk
	Store    *Store
	Journal  journal.Journal // default: journal.Nop
	Interval time.Duration   // default: DefaultInterval
	Logger   *slog.Logger    // default: slog.Default()
}

// Engine is the public facade over one behavior's store and monitor.
// Construct one per behavior at process start and call Close on shutdown;
// facade calls run synchronously on the caller's goroutine.
type Engine struct {
	behavior Behavior
	desk     broker.Desk
	store    *Store
	monitor  *Monitor
	log      *slog.Logger
}

// NewEngine builds the engine and, when the store loaded with any active
// trigger, starts monitoring immediately so restarts resume watching
// without operator action.
func NewEngine(opt Options) (*Engine, error) {
	if opt.Behavior == nil || opt.Desk == nil || opt.Store == nil {
		return nil, fmt.Errorf("trigger engine: behavior, desk, and store are required")
	}

	log := opt.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("behavior", opt.Behavior.Name()))

	e := &Engine{
		behavior: opt.Behavior,
		desk:     opt.Desk,
		store:    opt.Store,
		monitor:  NewMonitor(opt.Behavior, opt.Desk, opt.Store, opt.Journal, opt.Interval, opt.Logger),
		log:      log,
	}

	if e.store.CountActive() > 0 {
		e.monitor.Start()
	}
	return e, nil
}

// Add validates and stores a new trigger for ticket at price. On success
// the trigger is persisted and the monitor is running; on failure nothing
// mutates. For single-per-ticket behaviors an existing trigger on the same
// ticket is replaced, matching how a desk re-arms a breakeven level.
func (e *Engine) Add(ctx context.Context, ticket int64, price float64, p Params) (Trigger, error) {
	pos, err := e.desk.Position(ctx, ticket)
	if err != nil {
		if errors.Is(err, broker.ErrPositionNotFound) {
			return Trigger{}, fmt.Errorf("position #%d not found", ticket)
		}
		return Trigger{}, fmt.Errorf("resolve position #%d: %w", ticket, err)
	}

	price = market.NormalizePrice(pos.Symbol, price)
	if err := e.behavior.Validate(pos, price, p); err != nil {
		return Trigger{}, err
	}

	t := newTrigger(e.behavior, pos, price, p)
	if err := e.store.Upsert(t); err != nil {
		return Trigger{}, fmt.Errorf("persist trigger: %w", err)
	}

	e.log.Info("trigger added",
		slog.String("id", t.ID),
		slog.Int64("ticket", t.Ticket),
		slog.Float64("trigger_price", t.Price))

	e.monitor.Start()
	return t, nil
}

// Remove deletes a trigger by id. Unknown ids return ErrTriggerNotFound
// with no mutation.
func (e *Engine) Remove(id string) (Trigger, error) {
	t, ok, err := e.store.Delete(id)
	if err != nil {
		return Trigger{}, fmt.Errorf("persist trigger removal: %w", err)
	}
	if !ok {
		return Trigger{}, fmt.Errorf("%w: %s", ErrTriggerNotFound, id)
	}

	e.log.Info("trigger removed", slog.String("id", id))
	return t, nil
}

// RemoveAllFor deletes every trigger watching ticket and returns how many
// were removed.
func (e *Engine) RemoveAllFor(ticket int64) (int, error) {
	removed, err := e.store.DeleteWhere(func(t Trigger) bool {
		return t.Ticket == ticket
	})
	if err != nil {
		return len(removed), fmt.Errorf("persist trigger removal: %w", err)
	}
	if len(removed) > 0 {
		e.log.Info("triggers removed for position",
			slog.Int64("ticket", ticket),
			slog.Int("count", len(removed)))
	}
	return len(removed), nil
}

// Get returns a trigger by id.
func (e *Engine) Get(id string) (Trigger, bool) {
	return e.store.Get(id)
}

// Active returns all active triggers, order unspecified.
func (e *Engine) Active() []Trigger {
	return e.store.Active()
}

// ActiveFor returns the active triggers watching one ticket.
func (e *Engine) ActiveFor(ticket int64) []Trigger {
	return e.store.ActiveFor(ticket)
}

// CountActive returns the number of active triggers.
func (e *Engine) CountActive() int {
	return e.store.CountActive()
}

// ClearExecuted drops executed records from the store and persists.
func (e *Engine) ClearExecuted() (int, error) {
	n, err := e.store.ClearExecuted()
	if err != nil {
		return n, fmt.Errorf("persist cleared triggers: %w", err)
	}
	if n > 0 {
		e.log.Info("cleared executed triggers", slog.Int("count", n))
	}
	return n, nil
}

// StartMonitoring starts the background loop; no-op when already running.
func (e *Engine) StartMonitoring() {
	e.monitor.Start()
}

// StopMonitoring stops the background loop and waits (bounded) for it to
// exit. Idempotent; removing the last trigger never auto-stops, this is the
// only way down.
func (e *Engine) StopMonitoring() {
	e.monitor.Stop()
}

// Monitoring reports whether the background loop is running.
func (e *Engine) Monitoring() bool {
	return e.monitor.Running()
}

// Close stops monitoring. The store holds no file handle between writes,
// so there is nothing else to release.
func (e *Engine) Close() {
	e.monitor.Stop()
}
