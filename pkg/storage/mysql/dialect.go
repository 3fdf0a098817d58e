// Package mysql adapts the execution-info audit store to MySQL.
package mysql

import (
	"fmt"
	"strings"

	"github.com/taskcore/engine/pkg/storage"
)

// Dialect is the MySQL implementation of storage.Dialect.
type Dialect struct{}

// New creates a MySQL dialect.
func New() *Dialect { return &Dialect{} }

func (d *Dialect) Name() string { return "mysql" }

func (d *Dialect) Placeholder(index int) string { return "?" }

func (d *Dialect) UpsertSQL(tableName string, columns []string, conflictColumn string, updateColumns []string) string {
	named := make([]string, len(columns))
	for i, col := range columns {
		named[i] = ":" + col
	}
	sets := make([]string, len(updateColumns))
	for i, col := range updateColumns {
		sets[i] = fmt.Sprintf("%s = VALUES(%s)", col, col)
	}
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON DUPLICATE KEY UPDATE %s",
		tableName,
		strings.Join(columns, ", "),
		strings.Join(named, ", "),
		strings.Join(sets, ", "),
	)
}

func (d *Dialect) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS execution_info (
		node_id INT PRIMARY KEY,
		task_name VARCHAR(255) NOT NULL,
		category VARCHAR(32) NOT NULL,
		status VARCHAR(32) NOT NULL,
		attempt_index INT NOT NULL DEFAULT 1,
		submission_date DATETIME NOT NULL,
		start_date DATETIME NULL,
		end_date DATETIME NULL,
		cores DOUBLE NOT NULL DEFAULT 0,
		memory_bytes BIGINT NOT NULL DEFAULT 0,
		disk_bytes BIGINT NOT NULL DEFAULT 0,
		log_path TEXT,
		detail TEXT,
		recorded_at DATETIME NOT NULL,
		INDEX idx_execution_info_status (status)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
	`
}

func (d *Dialect) ConfigureDB() []string {
	return []string{
		"SET SESSION sql_mode='STRICT_TRANS_TABLES,NO_ZERO_IN_DATE,NO_ZERO_DATE,ERROR_FOR_DIVISION_BY_ZERO,NO_ENGINE_SUBSTITUTION';",
	}
}

var _ storage.Dialect = (*Dialect)(nil)
