// Package history records component state transitions for later inspection.
//
// The recorder is itself an observer: Attach registers a trigger-less event
// on a component, and every committed transition is serialised to JSON and
// appended to the state_history table. Nothing is ever read back into a
// component — history is an audit trail, not a persistence layer.
//
// # Key Types
//
//   - Recorder: the storage interface (Record, History)
//   - SQLiteRecorder: Recorder over database/sql + mattn/go-sqlite3
//   - Entry: one recorded transition
//
// # Thread Safety
//
// SQLiteRecorder is safe for concurrent use; SQLite serialises writers and
// the connection pool is configured for a single writer.
package history
