package trigger

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Store is a durable id → Trigger mapping backed by one JSON file. Every
// mutating call rewrites the whole file (temp file + rename) before it
// returns, so acknowledged state survives a crash. Trigger counts are tens
// at most; the O(n) rewrite is irrelevant.
//
// The store owns all trigger records for one behavior. The engine and its
// monitor are the only callers; the store's mutex makes each call a
// critical section, and the compound check-then-write paths (MarkExecuted,
// DeleteWhere) run entirely under it.
type Store struct {
	mu       sync.Mutex
	path     string
	log      *slog.Logger
	triggers map[string]Trigger
}

// OpenStore loads the trigger file at path, creating the parent directory
// if needed. Malformed records are dropped with a warning; a malformed file
// never fails the open.
func OpenStore(path string, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create trigger dir: %w", err)
	}

	s := &Store{
		path:     path,
		log:      log,
		triggers: make(map[string]Trigger),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read trigger file: %w", err)
	}

	// Decode record-by-record so one bad entry only costs that entry.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		s.log.Error("trigger file unreadable, starting empty",
			slog.String("path", s.path),
			slog.Any("error", err))
		return nil
	}

	for key, msg := range raw {
		var t Trigger
		if err := json.Unmarshal(msg, &t); err != nil {
			s.log.Warn("dropping malformed trigger record",
				slog.String("id", key),
				slog.Any("error", err))
			continue
		}
		if !t.valid() {
			s.log.Warn("dropping trigger record with missing fields",
				slog.String("id", key))
			continue
		}
		s.triggers[t.ID] = t
	}

	s.log.Info("triggers loaded",
		slog.String("path", s.path),
		slog.Int("total", len(s.triggers)),
		slog.Int("active", s.countActiveLocked()))
	return nil
}

// persistLocked rewrites the backing file atomically. Caller holds s.mu.
func (s *Store) persistLocked() error {
	data, err := json.MarshalIndent(s.triggers, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal triggers: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write trigger file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace trigger file: %w", err)
	}
	return nil
}

// Upsert inserts or replaces a trigger and persists.
func (s *Store) Upsert(t Trigger) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.triggers[t.ID] = t
	return s.persistLocked()
}

// Delete removes a trigger by id and persists. The returned trigger is the
// removed record; found is false when no such id exists (nothing persists).
func (s *Store) Delete(id string) (Trigger, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.triggers[id]
	if !ok {
		return Trigger{}, false, nil
	}
	delete(s.triggers, id)
	return t, true, s.persistLocked()
}

// DeleteWhere removes every trigger matching pred, persists once, and
// returns the removed records. A no-match call does not touch the file.
func (s *Store) DeleteWhere(pred func(Trigger) bool) ([]Trigger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []Trigger
	for id, t := range s.triggers {
		if pred(t) {
			removed = append(removed, t)
			delete(s.triggers, id)
		}
	}
	if len(removed) == 0 {
		return nil, nil
	}
	return removed, s.persistLocked()
}

// MarkExecuted flips a trigger to executed, records the execution metadata,
// and persists, all under the store lock, so a trigger removed or already
// executed concurrently is left alone. This is the only status mutation the
// store permits.
func (s *Store) MarkExecuted(id string, at time.Time, volumeClosed *float64) (Trigger, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.triggers[id]
	if !ok || !t.Active() {
		return Trigger{}, false, nil
	}

	t.Status = StatusExecuted
	t.ExecutedAt = &at
	t.VolumeClosed = volumeClosed
	s.triggers[id] = t

	return t, true, s.persistLocked()
}

// ClearExecuted drops all terminal records and persists.
func (s *Store) ClearExecuted() (int, error) {
	removed, err := s.DeleteWhere(func(t Trigger) bool { return !t.Active() })
	return len(removed), err
}

func (s *Store) Get(id string) (Trigger, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.triggers[id]
	return t, ok
}

// Active returns all active triggers, order unspecified.
func (s *Store) Active() []Trigger {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Trigger
	for _, t := range s.triggers {
		if t.Active() {
			out = append(out, t)
		}
	}
	return out
}

// ActiveFor returns the active triggers watching one ticket.
func (s *Store) ActiveFor(ticket int64) []Trigger {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Trigger
	for _, t := range s.triggers {
		if t.Active() && t.Ticket == ticket {
			out = append(out, t)
		}
	}
	return out
}

func (s *Store) CountActive() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countActiveLocked()
}

func (s *Store) countActiveLocked() int {
	n := 0
	for _, t := range s.triggers {
		if t.Active() {
			n++
		}
	}
	return n
}
