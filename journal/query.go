package journal

import (
	"time"
)

// ListExecutionsByTicket returns executions for one position ticket,
// oldest first.
func (j *SQLite) ListExecutionsByTicket(ticket int64) ([]Execution, error) {
	rows, err := j.db.Query(`
		SELECT trigger_id, behavior, ticket, symbol, side, trigger_price, close_percent, volume_closed, executed_at
		FROM executions
		WHERE ticket = ?
		ORDER BY executed_at ASC`, ticket)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Execution
	for rows.Next() {
		var e Execution
		if err := rows.Scan(
			&e.TriggerID,
			&e.Behavior,
			&e.Ticket,
			&e.Symbol,
			&e.Side,
			&e.TriggerPrice,
			&e.ClosePercent,
			&e.VolumeClosed,
			&e.ExecutedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListExecutionsBetween returns executions whose executed_at is within
// [start, end), oldest first.
func (j *SQLite) ListExecutionsBetween(start, end time.Time) ([]Execution, error) {
	rows, err := j.db.Query(`
		SELECT trigger_id, behavior, ticket, symbol, side, trigger_price, close_percent, volume_closed, executed_at
		FROM executions
		WHERE executed_at >= ? AND executed_at < ?
		ORDER BY executed_at ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Execution
	for rows.Next() {
		var e Execution
		if err := rows.Scan(
			&e.TriggerID,
			&e.Behavior,
			&e.Ticket,
			&e.Symbol,
			&e.Side,
			&e.TriggerPrice,
			&e.ClosePercent,
			&e.VolumeClosed,
			&e.ExecutedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListReconciliationsByTicket returns the removal snapshots recorded for a
// ticket, oldest first.
func (j *SQLite) ListReconciliationsByTicket(ticket int64) ([]Reconciliation, error) {
	rows, err := j.db.Query(`
		SELECT trigger_id, behavior, ticket, symbol, side, trigger_price, created_at, removed_at
		FROM reconciliations
		WHERE ticket = ?
		ORDER BY removed_at ASC`, ticket)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Reconciliation
	for rows.Next() {
		var r Reconciliation
		if err := rows.Scan(
			&r.TriggerID,
			&r.Behavior,
			&r.Ticket,
			&r.Symbol,
			&r.Side,
			&r.TriggerPrice,
			&r.CreatedAt,
			&r.RemovedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
