// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS executions (
	trigger_id TEXT PRIMARY KEY,
	behavior TEXT NOT NULL,
	ticket INTEGER NOT NULL,
	symbol TEXT NOT NULL,
	side TEXT NOT NULL,
	trigger_price REAL NOT NULL,
	close_percent REAL NOT NULL,
	volume_closed REAL NOT NULL,
	executed_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS reconciliations (
	trigger_id TEXT NOT NULL,
	behavior TEXT NOT NULL,
	ticket INTEGER NOT NULL,
	symbol TEXT NOT NULL,
	side TEXT NOT NULL,
	trigger_price REAL NOT NULL,
	created_at DATETIME NOT NULL,
	removed_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_executions_ticket ON executions(ticket);
CREATE INDEX IF NOT EXISTS idx_reconciliations_ticket ON reconciliations(ticket);
`
