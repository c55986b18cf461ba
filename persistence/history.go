// Package persistence records merge outcomes so the warnings a merge
// surfaces (unanchored insertions, divergence fallbacks) outlive the
// invocation that produced them.
package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/lexcodex/treemend/merge"
)

// Record captures the outcome of one file merge.
type Record struct {
	ID       string          `json:"id"`
	Path     string          `json:"path"`
	Language string          `json:"language"`
	MergedAt time.Time       `json:"merged_at"`
	Success  bool            `json:"success"`
	Error    string          `json:"error,omitempty"`
	Stats    merge.Stats     `json:"stats"`
	Warnings []merge.Warning `json:"warnings,omitempty"`
}

// NewRecord builds a record for a completed merge result.
func NewRecord(path, language string, result *merge.Result) *Record {
	now := time.Now().UTC()
	rec := &Record{
		ID:       fmt.Sprintf("merge:%s:%d", path, now.UnixNano()),
		Path:     path,
		Language: language,
		MergedAt: now,
		Success:  result != nil,
	}
	if result != nil {
		rec.Stats = result.Stats
		rec.Warnings = result.Warnings
	}
	return rec
}

// FailedRecord builds a record for a merge that did not happen.
func FailedRecord(path, language string, err error) *Record {
	rec := NewRecord(path, language, nil)
	if err != nil {
		rec.Error = err.Error()
	}
	return rec
}

// HistoryStore persists merge records.
type HistoryStore interface {
	Save(ctx context.Context, rec *Record) error
	List(ctx context.Context, limit int) ([]*Record, error)
	Close() error
}
