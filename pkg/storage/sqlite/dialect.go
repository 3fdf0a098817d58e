// Package sqlite is the default Dialect for the execution-info audit
// store: a single local file, no server to stand up.
package sqlite

import (
	"fmt"
	"strings"

	"github.com/taskcore/engine/pkg/storage"
)

// Dialect is the SQLite implementation of storage.Dialect.
type Dialect struct{}

// New creates a SQLite dialect.
func New() *Dialect { return &Dialect{} }

func (d *Dialect) Name() string { return "sqlite" }

func (d *Dialect) Placeholder(index int) string { return "?" }

func (d *Dialect) UpsertSQL(tableName string, columns []string, conflictColumn string, updateColumns []string) string {
	named := make([]string, len(columns))
	for i, col := range columns {
		named[i] = ":" + col
	}
	sets := make([]string, len(updateColumns))
	for i, col := range updateColumns {
		sets[i] = fmt.Sprintf("%s = :%s", col, col)
	}
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(%s) DO UPDATE SET %s",
		tableName,
		strings.Join(columns, ", "),
		strings.Join(named, ", "),
		conflictColumn,
		strings.Join(sets, ", "),
	)
}

func (d *Dialect) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS execution_info (
		node_id INTEGER PRIMARY KEY,
		task_name TEXT NOT NULL,
		category TEXT NOT NULL,
		status TEXT NOT NULL,
		attempt_index INTEGER NOT NULL DEFAULT 1,
		submission_date DATETIME NOT NULL,
		start_date DATETIME,
		end_date DATETIME,
		cores REAL NOT NULL DEFAULT 0,
		memory_bytes INTEGER NOT NULL DEFAULT 0,
		disk_bytes INTEGER NOT NULL DEFAULT 0,
		log_path TEXT,
		detail TEXT,
		recorded_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_execution_info_status ON execution_info(status);
	`
}

func (d *Dialect) ConfigureDB() []string {
	return []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=30000;",
		"PRAGMA synchronous=NORMAL;",
	}
}

var _ storage.Dialect = (*Dialect)(nil)
