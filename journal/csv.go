// journal/csv.go
package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSVJournal struct {
	executions *csv.Writer
	reconciled *csv.Writer
	xf, rf     *os.File
}

func NewCSV(executionsPath, reconciliationsPath string) (*CSVJournal, error) {
	xf, err := os.Create(executionsPath)
	if err != nil {
		return nil, err
	}
	rf, err := os.Create(reconciliationsPath)
	if err != nil {
		xf.Close()
		return nil, err
	}

	xw := csv.NewWriter(xf)
	rw := csv.NewWriter(rf)

	if err := xw.Write([]string{"trigger_id", "behavior", "ticket", "symbol", "side", "trigger_price", "close_percent", "volume_closed", "executed_at"}); err != nil {
		return nil, err
	}
	if err := rw.Write([]string{"trigger_id", "behavior", "ticket", "symbol", "side", "trigger_price", "created_at", "removed_at"}); err != nil {
		return nil, err
	}

	xw.Flush()
	if err := xw.Error(); err != nil {
		return nil, err
	}
	rw.Flush()
	if err := rw.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{xw, rw, xf, rf}, nil
}

func (j *CSVJournal) RecordExecution(e Execution) error {
	err := j.executions.Write([]string{
		e.TriggerID,
		e.Behavior,
		strconv.FormatInt(e.Ticket, 10),
		e.Symbol,
		e.Side,
		f(e.TriggerPrice),
		f(e.ClosePercent),
		f(e.VolumeClosed),
		e.ExecutedAt.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	j.executions.Flush()
	return j.executions.Error()
}

func (j *CSVJournal) RecordReconciliation(r Reconciliation) error {
	err := j.reconciled.Write([]string{
		r.TriggerID,
		r.Behavior,
		strconv.FormatInt(r.Ticket, 10),
		r.Symbol,
		r.Side,
		f(r.TriggerPrice),
		r.CreatedAt.Format(time.RFC3339),
		r.RemovedAt.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	j.reconciled.Flush()
	return j.reconciled.Error()
}

func (j *CSVJournal) Close() error {
	j.executions.Flush()
	j.reconciled.Flush()
	if err := j.xf.Close(); err != nil {
		j.rf.Close()
		return err
	}
	return j.rf.Close()
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
