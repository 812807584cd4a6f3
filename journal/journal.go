// journal/journal.go
package journal

import "time"

// Execution is the durable record of one trigger firing successfully.
type Execution struct {
	TriggerID    string
	Behavior     string // "auto_be" or "partial_tp"
	Ticket       int64
	Symbol       string
	Side         string
	TriggerPrice float64
	ClosePercent float64 // partial close only, 0 otherwise
	VolumeClosed float64 // lots, partial close only
	ExecutedAt   time.Time
}

// Reconciliation snapshots a trigger removed because its position vanished
// out-of-band (manual close, stop-out). Nothing was executed; the snapshot
// exists so the desk can later tell why a trigger disappeared.
type Reconciliation struct {
	TriggerID    string
	Behavior     string
	Ticket       int64
	Symbol       string
	Side         string
	TriggerPrice float64
	CreatedAt    time.Time
	RemovedAt    time.Time
}

type Journal interface {
	RecordExecution(Execution) error
	RecordReconciliation(Reconciliation) error
	Close() error
}

// Nop discards every record. Used when journaling is disabled.
type Nop struct{}

func (Nop) RecordExecution(Execution) error           { return nil }
func (Nop) RecordReconciliation(Reconciliation) error { return nil }
func (Nop) Close() error                              { return nil }
