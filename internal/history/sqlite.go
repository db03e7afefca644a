package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/pin-logic-core/internal/component"
)

// storedTimeFormat is RFC3339 with a fixed-width fractional second, so the
// TEXT column sorts chronologically. RFC3339Nano trims trailing zeros, which
// breaks lexicographic ordering.
const storedTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteRecorder implements Recorder using SQLite.
//
// It stores state snapshots as JSON in the state_history table created by
// the embedded migrations.
type SQLiteRecorder struct {
	db *sql.DB
}

// NewSQLiteRecorder creates a recorder over an open SQLite connection.
func NewSQLiteRecorder(db *sql.DB) *SQLiteRecorder {
	return &SQLiteRecorder{db: db}
}

// Record inserts one state history row. The state is marshalled as JSON;
// concrete state kinds are plain value structs, so this never needs custom
// encoding.
func (r *SQLiteRecorder) Record(ctx context.Context, componentID string, state component.State, source string) error {
	if componentID == "" {
		return ErrComponentIDRequired
	}
	if source == "" {
		source = SourceCaller
	}

	stateJSON, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshalling state: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO state_history (id, component_id, state, source, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		uuid.New().String(),
		componentID,
		string(stateJSON),
		source,
		time.Now().UTC().Format(storedTimeFormat),
	)
	if err != nil {
		return fmt.Errorf("inserting state history: %w", err)
	}
	return nil
}

// History returns recent entries for a component, ordered newest first.
func (r *SQLiteRecorder) History(ctx context.Context, componentID string, limit int) ([]Entry, error) {
	if componentID == "" {
		return nil, ErrComponentIDRequired
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, component_id, state, source, created_at
		 FROM state_history
		 WHERE component_id = ?
		 ORDER BY created_at DESC, id
		 LIMIT ?`,
		componentID,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying state history: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var entry Entry
		var stateJSON string
		var createdAt string

		if err := rows.Scan(&entry.ID, &entry.ComponentID, &stateJSON, &entry.Source, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning state history: %w", err)
		}

		entry.State = json.RawMessage(stateJSON)
		if entry.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}

		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating state history: %w", err)
	}
	return entries, nil
}

// Prune deletes entries older than the retention window and returns how many
// rows were removed.
func (r *SQLiteRecorder) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM state_history WHERE created_at < ?",
		olderThan.UTC().Format(storedTimeFormat),
	)
	if err != nil {
		return 0, fmt.Errorf("pruning state history: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting pruned rows: %w", err)
	}
	return removed, nil
}
