// Package storage defines the audit/reporting persistence contract for
// the engine: a pluggable store for TaskExecutionInfo rows, and the SQL
// dialect abstraction that lets the same repository code run against
// SQLite, PostgreSQL and MySQL.
//
// This is strictly an audit trail. The manager keeps the live
// TaskExecutionInfo in memory and drives scheduling off that; nothing
// here is read back on startup to resume a run (crash recovery is out
// of scope).
package storage

import (
	"context"
	"time"
)

// Record is one durable snapshot of a task's execution info, written
// by the manager at admission, completion, retry, replacement and
// resubmission.
type Record struct {
	NodeID         int       `db:"node_id"`
	TaskName       string    `db:"task_name"`
	Category       string    `db:"category"`
	Status         string    `db:"status"`
	AttemptIndex   int       `db:"attempt_index"`
	SubmissionDate time.Time `db:"submission_date"`
	StartDate      *time.Time `db:"start_date"`
	EndDate        *time.Time `db:"end_date"`
	Cores          float64   `db:"cores"`
	MemoryBytes    int64     `db:"memory_bytes"`
	DiskBytes      int64     `db:"disk_bytes"`
	LogPath        string    `db:"log_path"`
	Detail         string    `db:"detail"`
	RecordedAt     time.Time `db:"recorded_at"`
}

// ExecutionInfoStore is the audit/reporting persistence interface every
// dialect-specific repository implements.
type ExecutionInfoStore interface {
	// Save upserts the latest snapshot for rec.NodeID.
	Save(ctx context.Context, rec *Record) error
	// GetByNodeID returns the latest recorded snapshot for id, or nil if
	// none was ever saved.
	GetByNodeID(ctx context.Context, id int) (*Record, error)
	// ListByStatus returns every record currently at status, for
	// reporting queries ("show me everything that's FAILED_COMMAND").
	ListByStatus(ctx context.Context, status string) ([]*Record, error)
	// Close releases the underlying connection.
	Close() error
}

// Dialect isolates the SQL syntax differences between backends so one
// repository implementation can drive SQLite, PostgreSQL or MySQL.
type Dialect interface {
	// Name identifies the dialect ("sqlite", "postgres", "mysql").
	Name() string
	// Placeholder returns the bound-parameter placeholder for the
	// index-th (1-based) positional parameter; ignored by dialects that
	// use named parameters throughout (SQLite, MySQL use "?").
	Placeholder(index int) string
	// UpsertSQL returns the dialect's INSERT-or-UPDATE statement for
	// tableName, using named (":col") placeholders.
	UpsertSQL(tableName string, columns []string, conflictColumn string, updateColumns []string) string
	// CreateTableSQL returns the CREATE TABLE/INDEX statements for the
	// execution_info audit table.
	CreateTableSQL() string
	// ConfigureDB returns any connection-level setup statements
	// (pragmas, session variables) to run once after opening.
	ConfigureDB() []string
}
