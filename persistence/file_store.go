package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// FileHistoryStore keeps merge records in a single JSON file. It is the
// fallback for environments without cgo/SQLite.
type FileHistoryStore struct {
	path string
	mu   sync.RWMutex
}

// NewFileHistoryStore builds a store writing to the given file, creating
// parent directories as needed.
func NewFileHistoryStore(path string) (*FileHistoryStore, error) {
	if path == "" {
		return nil, errors.New("history file path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &FileHistoryStore{path: path}, nil
}

// Save appends a record.
func (s *FileHistoryStore) Save(ctx context.Context, rec *Record) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if rec == nil {
		return errors.New("nil record")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, err := s.read()
	if err != nil {
		return err
	}
	existing = append(existing, rec)
	data, err := json.MarshalIndent(existing, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

// List returns the most recent records, newest first.
func (s *FileHistoryStore) List(ctx context.Context, limit int) ([]*Record, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	records, err := s.read()
	if err != nil {
		return nil, err
	}
	// Stored oldest first; reverse for newest-first listing.
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// Close is a no-op for the file store.
func (s *FileHistoryStore) Close() error { return nil }

func (s *FileHistoryStore) read() ([]*Record, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var records []*Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}
