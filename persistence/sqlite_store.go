package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteHistoryStore persists merge records in a SQLite database.
type SQLiteHistoryStore struct {
	db *sql.DB
}

// NewSQLiteHistoryStore opens/creates the database at dbPath.
func NewSQLiteHistoryStore(dbPath string) (*SQLiteHistoryStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	store := &SQLiteHistoryStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteHistoryStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS merges (
		id TEXT PRIMARY KEY,
		path TEXT NOT NULL,
		language TEXT,
		merged_at TIMESTAMP,
		success BOOLEAN,
		error TEXT,
		nodes_merged INTEGER,
		nodes_dropped INTEGER,
		nodes_inserted INTEGER,
		deduplicated INTEGER,
		baseline_defaults INTEGER,
		warnings TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_merges_path ON merges(path);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save inserts or replaces a record.
func (s *SQLiteHistoryStore) Save(ctx context.Context, rec *Record) error {
	if rec == nil {
		return errors.New("nil record")
	}
	warnings, err := json.Marshal(rec.Warnings)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO merges
		(id, path, language, merged_at, success, error, nodes_merged, nodes_dropped,
		 nodes_inserted, deduplicated, baseline_defaults, warnings)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Path, rec.Language, rec.MergedAt.Format(time.RFC3339Nano),
		rec.Success, rec.Error,
		rec.Stats.NodesMerged, rec.Stats.NodesDropped, rec.Stats.NodesInserted,
		rec.Stats.Deduplicated, rec.Stats.BaselineDefaults, string(warnings))
	return err
}

// List returns the most recent records, newest first.
func (s *SQLiteHistoryStore) List(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, path, language, merged_at, success, error, nodes_merged,
		       nodes_dropped, nodes_inserted, deduplicated, baseline_defaults, warnings
		FROM merges ORDER BY merged_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*Record, 0, limit)
	for rows.Next() {
		var rec Record
		var mergedAt, warnings string
		if err := rows.Scan(&rec.ID, &rec.Path, &rec.Language, &mergedAt, &rec.Success,
			&rec.Error, &rec.Stats.NodesMerged, &rec.Stats.NodesDropped,
			&rec.Stats.NodesInserted, &rec.Stats.Deduplicated,
			&rec.Stats.BaselineDefaults, &warnings); err != nil {
			return nil, err
		}
		if parsed, err := time.Parse(time.RFC3339Nano, mergedAt); err == nil {
			rec.MergedAt = parsed
		}
		if warnings != "" {
			if err := json.Unmarshal([]byte(warnings), &rec.Warnings); err != nil {
				return nil, err
			}
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// Close releases the database handle.
func (s *SQLiteHistoryStore) Close() error { return s.db.Close() }
