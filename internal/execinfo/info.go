// Package execinfo holds the per-task, attempt-oriented bookkeeping the
// manager accumulates across a task's lifetime: status, attempt count
// and the timestamps the spec's ordering invariants are phrased over.
package execinfo

import (
	"time"

	"github.com/taskcore/engine/internal/resource"
	"github.com/taskcore/engine/internal/task"
)

// Status enumerates the terminal and in-flight states a task attempt
// can be in.
type Status int

const (
	Unknown Status = iota
	Started
	Succeeded
	FailedCommand
	FailedOnComplete
	FailedGetTasks
	FailedUnknown
	ManuallySucceeded
)

func (s Status) String() string {
	switch s {
	case Unknown:
		return "UNKNOWN"
	case Started:
		return "STARTED"
	case Succeeded:
		return "SUCCEEDED"
	case FailedCommand:
		return "FAILED_COMMAND"
	case FailedOnComplete:
		return "FAILED_ON_COMPLETE"
	case FailedGetTasks:
		return "FAILED_GET_TASKS"
	case FailedUnknown:
		return "FAILED_UNKNOWN"
	case ManuallySucceeded:
		return "MANUALLY_SUCCEEDED"
	default:
		return "UNKNOWN"
	}
}

// IsDone reports whether a status represents the end of a task's
// lifecycle. SUCCEEDED/MANUALLY_SUCCEEDED are always done; the
// FAILED_* family is done only when failedIsDone is true, matching the
// retry policy's ability to keep a task alive across FAILED_* attempts.
func (s Status) IsDone(failedIsDone bool) bool {
	switch s {
	case Succeeded, ManuallySucceeded:
		return true
	case FailedCommand, FailedOnComplete, FailedGetTasks, FailedUnknown:
		return failedIsDone
	default:
		return false
	}
}

// Info is the per-task execution record. id matches the owning
// GraphNode's id.
type Info struct {
	ID             int
	Task           task.Task
	Status         Status
	AttemptIndex_  int
	SubmissionDate time.Time
	StartDate      *time.Time
	EndDate        *time.Time
	ScriptPath     string
	LogPath        string
	Resources      *resource.Set
}

// AttemptIndex implements task.ExecInfoView, letting retry hooks read
// the current attempt count without importing this package.
func (i *Info) AttemptIndex() int { return i.AttemptIndex_ }

// New creates a fresh Info at attempt 1, submitted now.
func New(id int, t task.Task, now time.Time) *Info {
	return &Info{
		ID:             id,
		Task:           t,
		Status:         Unknown,
		AttemptIndex_:  1,
		SubmissionDate: now,
	}
}

// ResetForReplaceOrResubmit restores an Info to its pre-attempt state,
// used by replaceTask/resubmitTask: status goes back to UNKNOWN and the
// attempt counter to 1, per the spec's replace/resubmit contract.
func (i *Info) ResetForReplaceOrResubmit(t task.Task) {
	i.Task = t
	i.Status = Unknown
	i.AttemptIndex_ = 1
	i.StartDate = nil
	i.EndDate = nil
	i.ScriptPath = ""
	i.LogPath = ""
	i.Resources = nil
}
