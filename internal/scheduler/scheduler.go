// Package scheduler implements the engine's admission policy: given the
// set of ready leaves (NO_PREDECESSORS graph nodes, already in
// insertion order) and what's left of the resource envelope after
// subtracting every currently running attempt, decide which ready
// leaves to admit this tick.
//
// The policy is deliberately simple and greedy — first-come,
// first-served over the insertion order, no reordering, no
// starvation avoidance beyond "earlier requests get first claim on
// what's available" (spec §4.4).
package scheduler

import (
	"github.com/taskcore/engine/internal/resource"
	"github.com/taskcore/engine/internal/task"
)

// Candidate is one ready leaf under consideration for admission this
// tick, carrying whatever the caller needs to identify it afterward.
type Candidate struct {
	NodeID    int
	Policy    task.ResourcePolicy
	Envelope  resource.Set // the full envelope, for the Exceeds check
}

// Admission is one candidate's outcome: either it was admitted with a
// concrete resource reservation, or it remains ready for a later tick.
type Admission struct {
	NodeID    int
	Resources resource.Set
}

// Run walks candidates in order, admitting as many as fit into
// available. Admitted resources are deducted from the running tally as
// soon as they're granted, so later candidates in the same tick see a
// smaller available envelope — matching the spec's "iterate in
// insertion order, decrementing available as you go".
//
// Candidates whose policy can never be satisfied against the full
// envelope are skipped without consuming any of available; they stay
// ready indefinitely rather than erroring (spec §4.4.2's "permanently
// unschedulable tasks are not treated as failures").
func Run(candidates []Candidate, available resource.Set) (admitted []Admission, stillReady []int) {
	remaining := available
	for _, c := range candidates {
		reserved, ok := c.Policy.Pick(remaining)
		if !ok {
			stillReady = append(stillReady, c.NodeID)
			continue
		}
		admitted = append(admitted, Admission{NodeID: c.NodeID, Resources: reserved})
		remaining, _ = remaining.Subset(reserved)
	}
	return admitted, stillReady
}

// Unschedulable reports whether c's policy could never be admitted
// even against the full envelope, independent of current load.
func Unschedulable(c Candidate) bool {
	return task.Exceeds(c.Policy, c.Envelope)
}
