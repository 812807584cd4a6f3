package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCSVJournalHeaders(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	execPath := filepath.Join(dir, "executions.csv")
	reconPath := filepath.Join(dir, "reconciliations.csv")

	j, err := NewCSV(execPath, reconPath)
	assert.NoError(t, err)
	assert.NoError(t, j.Close())

	execData, err := os.ReadFile(execPath)
	assert.NoError(t, err)
	reconData, err := os.ReadFile(reconPath)
	assert.NoError(t, err)

	execHeader, err := csv.NewReader(strings.NewReader(string(execData))).Read()
	assert.NoError(t, err)
	reconHeader, err := csv.NewReader(strings.NewReader(string(reconData))).Read()
	assert.NoError(t, err)

	wantExec := []string{"trigger_id", "behavior", "ticket", "symbol", "side", "trigger_price", "close_percent", "volume_closed", "executed_at"}
	assert.Equal(t, wantExec, execHeader)

	wantRecon := []string{"trigger_id", "behavior", "ticket", "symbol", "side", "trigger_price", "created_at", "removed_at"}
	assert.Equal(t, wantRecon, reconHeader)
}

func TestCSVJournalRecordExecution(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	execPath := filepath.Join(dir, "executions.csv")
	reconPath := filepath.Join(dir, "reconciliations.csv")

	j, err := NewCSV(execPath, reconPath)
	assert.NoError(t, err)

	at := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	assert.NoError(t, j.RecordExecution(Execution{
		TriggerID:    "x1",
		Behavior:     "partial_tp",
		Ticket:       1001,
		Symbol:       "EURUSD",
		Side:         "long",
		TriggerPrice: 1.0965,
		ClosePercent: 50,
		VolumeClosed: 0.1,
		ExecutedAt:   at,
	}))
	assert.NoError(t, j.Close())

	data, err := os.ReadFile(execPath)
	assert.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, rows, 2) // header + record

	row := rows[1]
	assert.Equal(t, "x1", row[0])
	assert.Equal(t, "partial_tp", row[1])
	assert.Equal(t, "1001", row[2])
	assert.Equal(t, "50", row[6])
	assert.Equal(t, at.Format(time.RFC3339), row[8])
}
