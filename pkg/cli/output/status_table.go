package output

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
)

// StatusTable renders a task-name/status/attempts report with the
// status column colorized per StatusColor, built on Table's
// fixed-width layout but bypassing its plain fmt.Printf for that one
// column.
type StatusTable struct {
	table    *Table
	statuses []string
}

// NewStatusTable creates an empty report.
func NewStatusTable() *StatusTable {
	return &StatusTable{table: NewTable([]string{"TASK", "STATUS", "ATTEMPTS"})}
}

// AddRow records one task's final name, status and attempt count.
func (s *StatusTable) AddRow(name, status string, attempts int) {
	s.table.AddRow([]string{name, status, strconv.Itoa(attempts)})
	s.statuses = append(s.statuses, status)
}

// Render prints the report; TASK and ATTEMPTS print plain, STATUS
// colors by StatusColor.
func (s *StatusTable) Render() {
	t := s.table
	headerColor := color.New(color.FgCyan, color.Bold)
	for i, h := range t.headers {
		headerColor.Printf("%-*s  ", t.widths[i], h)
	}
	fmt.Println()
	for i := range t.headers {
		fmt.Printf("%-*s  ", t.widths[i], dashes(t.widths[i]))
	}
	fmt.Println()

	for i, row := range t.rows {
		fmt.Printf("%-*s  ", t.widths[0], row[0])
		StatusColor(s.statuses[i]).Printf("%-*s", t.widths[1], row[1])
		fmt.Printf("  %-*s\n", t.widths[2], row[2])
	}
}

func dashes(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '-'
	}
	return string(b)
}
