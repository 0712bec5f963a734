package route

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Store is a durable append-only collection backed by one JSON array file.
// Appends are whole-file read-modify-write: read everything, append, write
// everything back atomically. A mutex serializes concurrent finalizers so
// parallel pipeline runs cannot lose updates.
type Store struct {
	path   string
	logger *slog.Logger
	mu     sync.Mutex
}

func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, logger: logger}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Append adds records to the collection. An unreadable or corrupt existing
// file is recovered by starting from an empty collection rather than failing
// the run.
func (s *Store) Append(records []any) error {
	if len(records) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.readAllLocked()
	for _, r := range records {
		b, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshal record: %w", err)
		}
		existing = append(existing, json.RawMessage(b))
	}
	if err := s.writeLocked(existing); err != nil {
		return err
	}

	s.logger.Info("store.append", "path", s.path, "added", len(records), "total", len(existing))
	return nil
}

// ReadAll returns every record currently in the collection. Missing or
// corrupt files read as empty.
func (s *Store) ReadAll() []json.RawMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readAllLocked()
}

func (s *Store) readAllLocked() []json.RawMessage {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("store.read_failed, starting empty", "path", s.path, "error", err)
		}
		return nil
	}
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("store.corrupt, starting empty", "path", s.path, "error", err)
		return nil
	}
	return records
}

// writeLocked replaces the collection file via temp-file-and-rename so a
// crash mid-write never leaves a truncated array behind.
func (s *Store) writeLocked(records []json.RawMessage) error {
	if records == nil {
		records = []json.RawMessage{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal collection: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write collection: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace collection: %w", err)
	}
	return nil
}
