package output

import "github.com/fatih/color"

// Success prints a green confirmation line.
func Success(format string, args ...interface{}) {
	color.New(color.FgGreen, color.Bold).Printf(format+"\n", args...)
}

// Error prints a red failure line.
func Error(format string, args ...interface{}) {
	color.New(color.FgRed, color.Bold).Printf(format+"\n", args...)
}

// Info prints a plain cyan line.
func Info(format string, args ...interface{}) {
	color.New(color.FgCyan).Printf(format+"\n", args...)
}

// Warning prints a yellow line.
func Warning(format string, args ...interface{}) {
	color.New(color.FgYellow).Printf(format+"\n", args...)
}

// StatusColor picks the color a task's execinfo.Status renders in:
// green for a success status, red for any FAILED_* status, yellow
// while an attempt is in flight, plain otherwise (UNKNOWN — the task
// hasn't started yet).
func StatusColor(status string) *color.Color {
	switch {
	case status == "SUCCEEDED" || status == "MANUALLY_SUCCEEDED":
		return color.New(color.FgGreen, color.Bold)
	case len(status) >= 6 && status[:6] == "FAILED":
		return color.New(color.FgRed, color.Bold)
	case status == "STARTED":
		return color.New(color.FgYellow)
	default:
		return color.New(color.Reset)
	}
}
