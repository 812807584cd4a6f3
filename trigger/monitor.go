package trigger

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/rustyeddy/desk/broker"
	"github.com/rustyeddy/desk/journal"
)

const (
	// DefaultInterval is the pause between evaluation passes.
	DefaultInterval = 500 * time.Millisecond

	// connectivityBackoff replaces the normal interval after a pass that
	// hit gate transport errors; the terminal is likely reconnecting.
	connectivityBackoff = 5 * time.Second

	// stopJoinTimeout bounds how long Stop waits for the loop to exit.
	stopJoinTimeout = 2 * time.Second
)

// Monitor runs one behavior's evaluation loop on a dedicated goroutine.
// The loop is single-threaded by construction: a trigger whose action call
// is still outstanding can never be re-evaluated by an overlapping pass,
// which together with the synchronous executed-status persist gives the
// at-most-one-success guarantee.
type Monitor struct {
	store    *Store
	desk     broker.Desk
	behavior Behavior
	journal  journal.Journal
	interval time.Duration
	log      *slog.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewMonitor(b Behavior, desk broker.Desk, store *Store, j journal.Journal, interval time.Duration, log *slog.Logger) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if j == nil {
		j = journal.Nop{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Monitor{
		store:    store,
		desk:     desk,
		behavior: b,
		journal:  j,
		interval: interval,
		log:      log.With(slog.String("behavior", b.Name())),
	}
}

// Start launches the monitoring goroutine. Calling Start on a running
// monitor is a no-op.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.done = make(chan struct{})
	m.running = true

	go m.run(ctx, m.done)
	m.log.Info("trigger monitoring started")
}

// Stop signals the loop to exit, cancels any in-flight gate call, and waits
// (bounded) for the goroutine to finish. Idempotent.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	cancel, done := m.cancel, m.done
	m.mu.Unlock()

	cancel()
	select {
	case <-done:
	case <-time.After(stopJoinTimeout):
		m.log.Warn("trigger monitor did not stop in time")
	}
	m.log.Info("trigger monitoring stopped")
}

func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Monitor) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	m.log.Debug("trigger monitor loop started")

	for {
		degraded := m.tick(ctx)

		pause := m.interval
		if degraded {
			pause = connectivityBackoff
		}

		select {
		case <-ctx.Done():
			m.log.Debug("trigger monitor loop exiting")
			return
		case <-time.After(pause):
		}
	}
}

// tick evaluates every active trigger once. It reports whether the pass hit
// gate transport errors, in which case the caller backs off before the next
// pass instead of hammering a reconnecting terminal.
func (m *Monitor) tick(ctx context.Context) (degraded bool) {
	active := m.store.Active()

	for _, t := range active {
		select {
		case <-ctx.Done():
			return false
		default:
		}
		if m.checkOne(ctx, t) {
			degraded = true
		}
	}

	mtxTicks.WithLabelValues(m.behavior.Name()).Inc()
	return degraded
}

// checkOne runs the full condition→action path for a single trigger.
// Errors are contained here: nothing a trigger does may abort the rest of
// the pass or kill the loop.
func (m *Monitor) checkOne(ctx context.Context, t Trigger) (degraded bool) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("panic checking trigger",
				slog.String("id", t.ID),
				slog.Any("panic", r))
		}
	}()

	pos, err := m.desk.Position(ctx, t.Ticket)
	if err != nil {
		if errors.Is(err, broker.ErrPositionNotFound) {
			m.reconcile(t)
			return false
		}
		// Transient: position gate unreachable, retry next pass.
		m.log.Debug("position lookup failed, skipping",
			slog.String("id", t.ID),
			slog.Any("error", err))
		return true
	}

	price, err := m.exitPrice(ctx, t)
	if err != nil {
		if errors.Is(err, broker.ErrNoQuote) {
			// Transient quote gap, not an error.
			return false
		}
		m.log.Debug("quote lookup failed, skipping",
			slog.String("id", t.ID),
			slog.Any("error", err))
		return true
	}

	if !Fired(t.Side, t.Price, price) {
		return false
	}

	m.log.Info("trigger hit",
		slog.String("id", t.ID),
		slog.Int64("ticket", t.Ticket),
		slog.Float64("price", price))
	m.execute(ctx, t, pos)
	return false
}

// exitPrice resolves the quote a close would fill on: bid for longs, ask
// for shorts.
func (m *Monitor) exitPrice(ctx context.Context, t Trigger) (float64, error) {
	if t.Side == broker.Long {
		return m.desk.Bid(ctx, t.Symbol)
	}
	return m.desk.Ask(ctx, t.Symbol)
}

// reconcile removes every trigger watching a ticket whose position no
// longer exists, active siblings and executed leftovers alike. No action
// fires; each removed active trigger is snapshotted to the journal first so
// the desk can later tell why it vanished (executed ones were already
// journaled when they fired).
func (m *Monitor) reconcile(t Trigger) {
	removed, err := m.store.DeleteWhere(func(o Trigger) bool {
		return o.Ticket == t.Ticket
	})
	if err != nil {
		m.log.Error("persisting trigger removal failed",
			slog.Int64("ticket", t.Ticket),
			slog.Any("error", err))
	}

	now := time.Now().UTC()
	for _, r := range removed {
		m.log.Info("position closed, trigger removed",
			slog.String("id", r.ID),
			slog.Int64("ticket", r.Ticket))
		if !r.Active() {
			continue
		}
		mtxReconciled.WithLabelValues(m.behavior.Name()).Inc()

		if err := m.journal.RecordReconciliation(journal.Reconciliation{
			TriggerID:    r.ID,
			Behavior:     m.behavior.Name(),
			Ticket:       r.Ticket,
			Symbol:       r.Symbol,
			Side:         r.Side.String(),
			TriggerPrice: r.Price,
			CreatedAt:    r.CreatedAt,
			RemovedAt:    now,
		}); err != nil {
			m.log.Error("journaling reconciliation failed",
				slog.String("id", r.ID),
				slog.Any("error", err))
		}
	}
}

// execute fires the behavior's action. On success the trigger flips to
// executed and persists before the loop moves on, so the action runs at
// most once; on rejection or transport failure it stays active and the
// next pass retries.
func (m *Monitor) execute(ctx context.Context, t Trigger, pos broker.Position) {
	res, err := m.behavior.Execute(ctx, m.desk, t)
	if err != nil {
		m.log.Error("trigger action failed",
			slog.String("id", t.ID),
			slog.Any("error", err))
		mtxExecFailures.WithLabelValues(m.behavior.Name()).Inc()
		return
	}
	if !res.Success {
		m.log.Error("trigger action rejected",
			slog.String("id", t.ID),
			slog.String("reason", res.Reason))
		mtxExecFailures.WithLabelValues(m.behavior.Name()).Inc()
		return
	}

	var volumeClosed *float64
	if res.VolumeClosed > 0 {
		v := res.VolumeClosed
		volumeClosed = &v
	}

	executed, ok, err := m.store.MarkExecuted(t.ID, time.Now().UTC(), volumeClosed)
	if err != nil {
		// In-memory state stays authoritative; only restart durability is
		// degraded.
		m.log.Error("persisting executed trigger failed",
			slog.String("id", t.ID),
			slog.Any("error", err))
	}
	if !ok {
		// Removed out from under us between evaluation and execution.
		m.log.Warn("executed trigger no longer in store",
			slog.String("id", t.ID))
		return
	}

	m.log.Info("trigger executed",
		slog.String("id", executed.ID),
		slog.Int64("ticket", executed.Ticket),
		slog.Float64("trigger_price", executed.Price))
	mtxExecutions.WithLabelValues(m.behavior.Name()).Inc()

	exec := journal.Execution{
		TriggerID:    executed.ID,
		Behavior:     m.behavior.Name(),
		Ticket:       executed.Ticket,
		Symbol:       executed.Symbol,
		Side:         executed.Side.String(),
		TriggerPrice: executed.Price,
		ClosePercent: executed.ClosePercent,
		ExecutedAt:   *executed.ExecutedAt,
	}
	if executed.VolumeClosed != nil {
		exec.VolumeClosed = *executed.VolumeClosed
	}
	if err := m.journal.RecordExecution(exec); err != nil {
		m.log.Error("journaling execution failed",
			slog.String("id", executed.ID),
			slog.Any("error", err))
	}
}
