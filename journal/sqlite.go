package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordExecution(e Execution) error {
	_, err := j.db.Exec(`
		INSERT OR REPLACE INTO executions
		(trigger_id, behavior, ticket, symbol, side, trigger_price, close_percent, volume_closed, executed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.TriggerID, e.Behavior, e.Ticket, e.Symbol, e.Side,
		e.TriggerPrice, e.ClosePercent, e.VolumeClosed, e.ExecutedAt,
	)
	return err
}

func (j *SQLite) RecordReconciliation(r Reconciliation) error {
	_, err := j.db.Exec(`
		INSERT INTO reconciliations
		(trigger_id, behavior, ticket, symbol, side, trigger_price, created_at, removed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.TriggerID, r.Behavior, r.Ticket, r.Symbol, r.Side,
		r.TriggerPrice, r.CreatedAt, r.RemovedAt,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
