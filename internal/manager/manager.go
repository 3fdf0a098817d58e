// Package manager implements the engine's top-level driver: it owns
// the task graph, runs the scheduling tick, and applies the
// retry/replace/resubmit protocol around whatever the runner reports.
// It is the component the spec's component table credits with the
// largest share of the core, and it is deliberately the least
// decomposed: everything here happens on one control thread per the
// concurrency model (§5), so the bookkeeping reads as a straight-line
// procedure rather than a pile of small actors.
package manager

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/taskcore/engine/internal/bimap"
	"github.com/taskcore/engine/internal/events"
	"github.com/taskcore/engine/internal/execinfo"
	"github.com/taskcore/engine/internal/graph"
	"github.com/taskcore/engine/internal/resource"
	"github.com/taskcore/engine/internal/runner"
	"github.com/taskcore/engine/internal/scheduler"
	"github.com/taskcore/engine/internal/task"
	pkgstorage "github.com/taskcore/engine/pkg/storage"
)

// ErrInvalidArgument covers duplicate inserts (ignoreExists=false) and
// cycle rejections surfaced by the graph.
var ErrInvalidArgument = errors.New("manager: invalid argument")

// TickResult reports what one RunSchedulerOnce call did, the Go
// rendering of the spec's (readyTasks, tasksToSchedule, runningTasks,
// completedTasks) tuple.
type TickResult struct {
	Ready     []int
	Scheduled []int
	Running   []int
	Completed []int
}

// Manager is the task manager: graph + per-task bookkeeping + runner,
// driven one tick at a time.
type Manager struct {
	mu sync.Mutex

	graph             *graph.Graph
	infos             map[int]*execinfo.Info
	ids               *bimap.BiMap[task.Task, int]
	order             []int
	orphanMissing     map[int][]task.Task
	compositeChildren map[int][]int

	runner    *runner.Runner
	envelope  resource.Set
	running   map[int]resource.Set
	bus       *events.Bus
	store     pkgstorage.ExecutionInfoStore
	logDir    string
	now       func() time.Time
	logger    *log.Logger
}

// New creates a Manager with the given resource envelope and log
// directory for runner output.
func New(envelope resource.Set, logDir string) *Manager {
	return &Manager{
		graph:             graph.New(),
		infos:             make(map[int]*execinfo.Info),
		ids:               bimap.New[task.Task, int](),
		orphanMissing:     make(map[int][]task.Task),
		compositeChildren: make(map[int][]int),
		runner:            runner.New(),
		envelope:          envelope,
		running:           make(map[int]resource.Set),
		logDir:            logDir,
		now:               time.Now,
		logger:            log.Default(),
	}
}

// AttachBus wires a lifecycle event bus; nil is a valid, fully
// functional state (no listeners, no publishing attempted).
func (m *Manager) AttachBus(b *events.Bus) { m.bus = b }

// AttachStore wires an audit store; the node's info is upserted into it
// on admission, completion, retry, replacement, resubmission and
// composite discharge or build failure. A composite's STARTED status at
// expansion and a retried attempt's failure status are not written.
// Like AttachBus, nil is a valid, fully functional state.
func (m *Manager) AttachStore(s pkgstorage.ExecutionInfoStore) { m.store = s }

func (m *Manager) publish(topic events.Topic, id int, t task.Task, detail string) {
	m.publishExit(topic, id, t, detail, 0)
}

// publishExit is publish with the attempt's exit code filled in, for
// completions harvested from the runner.
func (m *Manager) publishExit(topic events.Topic, id int, t task.Task, detail string, exitCode int) {
	if m.bus == nil {
		return
	}
	lc := events.Lifecycle{NodeID: id, TaskName: t.Name(), ExitCode: exitCode, Detail: detail, Timestamp: m.now()}
	if info, ok := m.infos[id]; ok {
		lc.Attempt = info.AttemptIndex_
	}
	if err := m.bus.Publish(topic, lc); err != nil {
		m.logger.Printf("manager: publishing %s for node %d: %v", topic, id, err)
	}
}

// persist upserts id's current info/node state into the audit store.
// Best-effort: a write failure is logged, never propagated, since the
// store is reporting-only and must never stall the tick loop.
func (m *Manager) persist(id int) {
	if m.store == nil {
		return
	}
	node, ok := m.graph.NodeByID(id)
	if !ok {
		return
	}
	info := m.infos[id]
	rec := &pkgstorage.Record{
		NodeID:         id,
		TaskName:       node.Task.Name(),
		Category:       node.Task.Category().String(),
		Status:         info.Status.String(),
		AttemptIndex:   info.AttemptIndex_,
		SubmissionDate: info.SubmissionDate,
		StartDate:      info.StartDate,
		EndDate:        info.EndDate,
		LogPath:        info.LogPath,
		RecordedAt:     m.now(),
	}
	if info.Resources != nil {
		rec.Cores = info.Resources.Cores()
		rec.MemoryBytes = info.Resources.Memory()
		rec.DiskBytes = info.Resources.DiskMemory()
	}
	if err := m.store.Save(context.Background(), rec); err != nil {
		m.logger.Printf("manager: persisting node %d: %v", id, err)
	}
}

// AddTask inserts t, resolving each declared predecessor against
// already-tracked tasks (wiring the edge immediately) or leaving it as
// a pending reference that the next tick's orphan-reclassification
// step resolves once that predecessor is itself inserted. Declared
// successors are not wired from this side: one that is already tracked
// is only checked for a cycle (it was parked as orphaned on t and gets
// the edge in orphan reclassification), and one not yet tracked picks
// up the edge on its own insertion, since by then t is tracked.
func (m *Manager) AddTask(t task.Task, parent int, ignoreExists bool) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addTaskLocked(t, parent, ignoreExists, nil)
}

// AddTasks inserts seq in order, stopping at the first error.
func (m *Manager) AddTasks(seq []task.Task, parent int, ignoreExists bool) ([]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int, 0, len(seq))
	for _, t := range seq {
		id, err := m.addTaskLocked(t, parent, ignoreExists, nil)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// addTaskLocked does the real work; root, when non-nil, names the
// owning composite's pseudo-anchor so predecessor edges pointing at it
// are treated as already satisfied rather than orphaned.
func (m *Manager) addTaskLocked(t task.Task, parent int, ignoreExists bool, root task.Task) (int, error) {
	if id, tracked := m.ids.Forward(t); tracked {
		if ignoreExists {
			return id, nil
		}
		return 0, fmt.Errorf("%w: task %q already inserted", ErrInvalidArgument, t.Name())
	}

	var predIDs []int
	var missing []task.Task
	for _, p := range t.Predecessors() {
		if root != nil && p == root {
			continue
		}
		if pid, ok := m.ids.Forward(p); ok {
			predIDs = append(predIDs, pid)
		} else {
			missing = append(missing, p)
		}
	}
	// Declared successors that are already tracked are checked for a
	// cycle but deliberately not pre-wired: that edge is this task
	// acting as the predecessor, which the successor's own insertion
	// (predecessor already tracked) or its orphan-reclassification
	// (predecessor tracked later) will wire exactly once. Wiring it
	// again from this side would double-count the live-predecessor
	// multiset, so Insert itself is still called with successorIDs nil;
	// WouldCreateCycle runs the same check without any wiring.
	var succIDs []int
	for _, s := range t.Successors() {
		if sid, ok := m.ids.Forward(s); ok {
			succIDs = append(succIDs, sid)
		}
	}
	if m.graph.WouldCreateCycle(predIDs, succIDs) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidArgument, graph.ErrCycle)
	}

	id, err := m.graph.Insert(t, predIDs, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	task.Freeze(t)
	m.ids.Put(t, id)
	m.order = append(m.order, id)
	m.infos[id] = execinfo.New(id, t, m.now())
	if parent >= 0 {
		m.graph.SetParentComposite(id, parent)
	}

	node, _ := m.graph.NodeByID(id)
	switch {
	case len(missing) > 0:
		node.State = graph.Orphan
		m.orphanMissing[id] = missing
	case node.LivePredecessorCount() == 0:
		m.settle(node)
	default:
		node.State = graph.PredecessorsAndUnexpanded
	}
	return id, nil
}

// settle assigns the state a node with zero live predecessors should
// have: leaves become immediately schedulable, composites wait for the
// next tick's Expand step.
func (m *Manager) settle(node *graph.Node) {
	if node.Task.Category() == task.CompositeTask {
		node.State = graph.PredecessorsAndUnexpanded
		return
	}
	node.State = graph.NoPredecessors
}

// ReplaceTask transplants replacement's task object into original's
// node and info, preserving id and graph edges. Fails if original
// isn't tracked or its node is RUNNING.
func (m *Manager) ReplaceTask(original, replacement task.Task) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.ids.Forward(original)
	if !ok {
		return false
	}
	node, _ := m.graph.NodeByID(id)
	if node.State == graph.Running {
		return false
	}
	m.ids.DeleteForward(original)
	node.Task = replacement
	m.ids.Put(replacement, id)
	task.Freeze(replacement)
	info := m.infos[id]
	info.ResetForReplaceOrResubmit(replacement)
	node.State = graph.NoPredecessors
	m.publish(events.TopicReplaced, id, replacement, "")
	m.persist(id)
	return true
}

// ResubmitTask resets attempt tracking on t's existing node without
// swapping the task object.
func (m *Manager) ResubmitTask(t task.Task) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.ids.Forward(t)
	if !ok {
		return false
	}
	node, _ := m.graph.NodeByID(id)
	if node.State == graph.Running {
		return false
	}
	info := m.infos[id]
	info.ResetForReplaceOrResubmit(t)
	node.State = graph.NoPredecessors
	m.publish(events.TopicResubmitted, id, t, "")
	m.persist(id)
	return true
}

// GetTaskID returns the id assigned to t, if tracked.
func (m *Manager) GetTaskID(t task.Task) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ids.Forward(t)
}

// GetTaskStatus returns the current status recorded for id.
func (m *Manager) GetTaskStatus(id int) (execinfo.Status, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	info, ok := m.infos[id]
	if !ok {
		return execinfo.Unknown, false
	}
	return info.Status, true
}

// GetGraphNodeState returns the current scheduling state of id's node.
func (m *Manager) GetGraphNodeState(id int) (graph.State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	node, ok := m.graph.NodeByID(id)
	if !ok {
		return graph.Orphan, false
	}
	return node.State, true
}

// GetTaskExecutionInfo returns the execution record for id.
func (m *Manager) GetTaskExecutionInfo(id int) (*execinfo.Info, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	info, ok := m.infos[id]
	return info, ok
}

// GetGraphNode returns t's underlying graph node.
func (m *Manager) GetGraphNode(t task.Task) (*graph.Node, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.ids.Forward(t)
	if !ok {
		return nil, false
	}
	return m.graph.NodeByID(id)
}

func resourcePolicyOf(t task.Task) (task.ResourcePolicy, bool) {
	switch v := t.(type) {
	case *task.Process:
		return v.Resources, true
	case *task.InProcess:
		return v.Resources, true
	default:
		return nil, false
	}
}

func retryHookOf(t task.Task) func(task.ExecInfoView, bool) (task.Task, bool) {
	switch v := t.(type) {
	case *task.Process:
		return v.Hooks.Retry
	case *task.InProcess:
		return v.Hooks.Retry
	default:
		return nil
	}
}

func classifyStatus(c runner.Completion) execinfo.Status {
	if c.Err != nil {
		return execinfo.FailedUnknown
	}
	if c.ExitCode != 0 {
		return execinfo.FailedCommand
	}
	if !c.OnCompleteOK {
		return execinfo.FailedOnComplete
	}
	return execinfo.Succeeded
}

func (m *Manager) availableResources() resource.Set {
	used := resource.Zero
	for _, rs := range m.running {
		used = used.Add(rs)
	}
	avail, ok := m.envelope.Subset(used)
	if !ok {
		return resource.Zero
	}
	return avail
}

// releaseSuccessors decrements the live-predecessor multiset of every
// successor of id and settles any that just hit zero. Per the error
// table (§7), this must only be called for an accepted-terminal
// outcome that counts as forward progress (success, or a composite
// discharging its produced sub-DAG) — never for a terminally failed
// leaf, whose successors are meant to stall.
func (m *Manager) releaseSuccessors(id int) {
	for _, succID := range m.graph.Successors(id) {
		succNode, ok := m.graph.NodeByID(succID)
		if !ok {
			continue
		}
		succNode.RemovePredecessor(id)
		if succNode.State == graph.PredecessorsAndUnexpanded && succNode.LivePredecessorCount() == 0 {
			m.settle(succNode)
		}
	}
}

// bumpAncestorStart propagates a leaf's start time up through nested
// parentComposite links so every enclosing composite's startDate is
// set no later than its first child's.
func (m *Manager) bumpAncestorStart(childID int, start time.Time) {
	for parent := m.graph.ParentComposite(childID); parent >= 0; parent = m.graph.ParentComposite(parent) {
		info, ok := m.infos[parent]
		if !ok {
			return
		}
		if info.StartDate == nil || start.Before(*info.StartDate) {
			info.StartDate = &start
		}
	}
}

// RunSchedulerOnce runs exactly one tick, in the normative order from
// §4.5: harvest, update composites, expand, reclassify orphans,
// compute ready, admit.
func (m *Manager) RunSchedulerOnce() TickResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	var completed []int
	completed = append(completed, m.harvest()...)
	completed = append(completed, m.updateComposites()...)
	m.expand()
	m.reclassifyOrphans()
	ready := m.computeReady()
	scheduled := m.admit(ready)

	var running []int
	for _, id := range m.order {
		if node, ok := m.graph.NodeByID(id); ok && node.State == graph.Running {
			running = append(running, id)
		}
	}

	return TickResult{Ready: ready, Scheduled: scheduled, Running: running, Completed: completed}
}

func (m *Manager) harvest() []int {
	var completedIDs []int
	for _, c := range m.runner.Drain() {
		node, ok := m.graph.NodeByID(c.NodeID)
		if !ok {
			continue
		}
		info := m.infos[c.NodeID]
		delete(m.running, c.NodeID)

		status := classifyStatus(c)
		now := m.now()
		info.Status = status
		info.EndDate = &now
		info.LogPath = c.LogPath

		failedOnComplete := status == execinfo.FailedOnComplete
		var retryTask task.Task
		var wantRetry bool
		if hook := retryHookOf(node.Task); hook != nil {
			retryTask, wantRetry = hook(info, failedOnComplete)
		}

		switch {
		case wantRetry && retryTask == node.Task:
			info.AttemptIndex_++
			info.Status = execinfo.Unknown
			info.StartDate = nil
			info.EndDate = nil
			node.State = graph.NoPredecessors
			m.publish(events.TopicRetried, c.NodeID, node.Task, "resubmit")
			m.persist(c.NodeID)
		case wantRetry:
			old := node.Task
			m.ids.DeleteForward(old)
			node.Task = retryTask
			m.ids.Put(retryTask, c.NodeID)
			task.Freeze(retryTask)
			info.Task = retryTask
			info.AttemptIndex_++
			info.Status = execinfo.Unknown
			info.StartDate = nil
			info.EndDate = nil
			node.State = graph.NoPredecessors
			m.publish(events.TopicReplaced, c.NodeID, retryTask, "retry-driven replace")
			m.persist(c.NodeID)
		default:
			node.State = graph.Completed
			completedIDs = append(completedIDs, c.NodeID)
			if status == execinfo.Succeeded || status == execinfo.ManuallySucceeded {
				m.releaseSuccessors(c.NodeID)
			}
			m.publishExit(events.TopicCompleted, c.NodeID, node.Task, status.String(), c.ExitCode)
			m.persist(c.NodeID)
		}
	}
	return completedIDs
}

// updateComposites discharges a composite once every descendant it
// produced has itself reached a terminal status. The composite's own
// node always moves to Completed at that point (it has no more work
// either way), but its successors are only released when every
// descendant's status is an accepted success (§7's "tasks that fail
// terminally block their successors forever" contract applies to a
// composite's produced leaves exactly as it does to a top-level leaf).
// A descendant that failed makes the composite itself failed, carrying
// the first such descendant's status rather than a hardcoded success.
func (m *Manager) updateComposites() []int {
	var completedIDs []int
	for _, id := range m.order {
		node, ok := m.graph.NodeByID(id)
		if !ok || node.State != graph.OnlyPredecessors || node.Task.Category() != task.CompositeTask {
			continue
		}
		children := m.compositeChildren[id]
		allDone := true
		succeeded := true
		var failedStatus execinfo.Status
		var maxEnd time.Time
		for _, childID := range children {
			childInfo := m.infos[childID]
			childNode, _ := m.graph.NodeByID(childID)
			if childNode == nil || childNode.State != graph.Completed {
				allDone = false
				break
			}
			if childInfo.Status != execinfo.Succeeded && childInfo.Status != execinfo.ManuallySucceeded {
				if succeeded {
					succeeded = false
					failedStatus = childInfo.Status
				}
			}
			if childInfo.EndDate != nil && childInfo.EndDate.After(maxEnd) {
				maxEnd = *childInfo.EndDate
			}
		}
		if !allDone {
			continue
		}
		node.State = graph.Completed
		info := m.infos[id]
		if succeeded {
			info.Status = execinfo.Succeeded
		} else {
			info.Status = failedStatus
		}
		if !maxEnd.IsZero() {
			info.EndDate = &maxEnd
		}
		completedIDs = append(completedIDs, id)
		if succeeded {
			m.releaseSuccessors(id)
		}
		m.publish(events.TopicCompleted, id, node.Task, "composite discharged")
		m.persist(id)
	}
	return completedIDs
}

// expand builds each ready composite's produced sub-DAG. A composite's
// status becomes STARTED the moment expansion begins (§3), before
// GetTasks is even called, so a composite mid-build reports the same
// in-flight status a running leaf does rather than UNKNOWN.
func (m *Manager) expand() {
	for _, id := range m.order {
		node, ok := m.graph.NodeByID(id)
		if !ok || node.State != graph.PredecessorsAndUnexpanded || node.Task.Category() != task.CompositeTask {
			continue
		}
		if node.LivePredecessorCount() != 0 {
			continue
		}
		comp, ok := node.Task.(*task.Composite)
		if !ok {
			continue
		}

		info := m.infos[id]
		info.Status = execinfo.Started

		produced, err := comp.GetTasks()
		if err != nil {
			node.State = graph.Completed
			info.Status = execinfo.FailedGetTasks
			now := m.now()
			info.EndDate = &now
			m.publish(events.TopicCompleted, id, node.Task, "build failed")
			m.persist(id)
			continue
		}

		var childIDs []int
		expansionFailed := false
		for _, pt := range produced {
			cid, ierr := m.addTaskLocked(pt, id, true, comp.Root())
			if ierr != nil {
				expansionFailed = true
				break
			}
			childIDs = append(childIDs, cid)
		}
		if expansionFailed {
			node.State = graph.Completed
			info.Status = execinfo.FailedGetTasks
			now := m.now()
			info.EndDate = &now
			m.publish(events.TopicCompleted, id, node.Task, "expansion failed")
			m.persist(id)
			continue
		}

		m.compositeChildren[id] = childIDs
		node.State = graph.OnlyPredecessors
	}
}

func (m *Manager) reclassifyOrphans() {
	for _, id := range m.order {
		node, ok := m.graph.NodeByID(id)
		if !ok || node.State != graph.Orphan {
			continue
		}
		missing := m.orphanMissing[id]
		var stillMissing []task.Task
		for _, p := range missing {
			predID, tracked := m.ids.Forward(p)
			if !tracked {
				stillMissing = append(stillMissing, p)
				continue
			}
			// addTaskLocked's cycle check already rejects any edge that
			// would close a loop at insertion time, since Link records
			// both sides symmetrically; AddEdge returning ErrCycle here
			// would mean a predecessor tracked outside that path, which
			// the current task kinds never do. Kept as a fallback rather
			// than assumed away.
			if err := m.graph.AddEdge(predID, id); err != nil {
				stillMissing = append(stillMissing, p)
				continue
			}
			if predNode, ok := m.graph.NodeByID(predID); ok && predNode.State == graph.Completed {
				node.RemovePredecessor(predID)
			}
		}
		if len(stillMissing) > 0 {
			m.orphanMissing[id] = stillMissing
			continue
		}
		delete(m.orphanMissing, id)
		node.State = graph.PredecessorsAndUnexpanded
		if node.LivePredecessorCount() == 0 {
			m.settle(node)
		}
	}
}

func (m *Manager) computeReady() []int {
	var ready []int
	for _, id := range m.order {
		if node, ok := m.graph.NodeByID(id); ok && node.State == graph.NoPredecessors {
			ready = append(ready, id)
		}
	}
	return ready
}

func (m *Manager) admit(ready []int) []int {
	candidates := make([]scheduler.Candidate, 0, len(ready))
	for _, id := range ready {
		node, _ := m.graph.NodeByID(id)
		policy, ok := resourcePolicyOf(node.Task)
		if !ok {
			continue
		}
		candidates = append(candidates, scheduler.Candidate{NodeID: id, Policy: policy, Envelope: m.envelope})
	}

	available := m.availableResources()
	admissions, _ := scheduler.Run(candidates, available)

	var scheduled []int
	for _, a := range admissions {
		node, _ := m.graph.NodeByID(a.NodeID)
		info := m.infos[a.NodeID]
		now := m.now()
		if info.StartDate == nil {
			info.StartDate = &now
		}
		info.Resources = &a.Resources
		info.Status = execinfo.Started
		node.State = graph.Running
		m.running[a.NodeID] = a.Resources

		m.runner.Launch(runner.Attempt{
			NodeID:       a.NodeID,
			Task:         node.Task,
			Resources:    a.Resources,
			AttemptIndex: info.AttemptIndex_,
			LogDir:       m.logDir,
		})
		m.bumpAncestorStart(a.NodeID, *info.StartDate)
		scheduled = append(scheduled, a.NodeID)
		m.publish(events.TopicAdmitted, a.NodeID, node.Task, "")
		m.publish(events.TopicStarted, a.NodeID, node.Task, "")
		m.persist(a.NodeID)
	}
	return scheduled
}

// allTerminal reports whether every tracked node has reached the
// Completed state.
func (m *Manager) allTerminal() bool {
	for _, id := range m.order {
		if node, ok := m.graph.NodeByID(id); ok && node.State != graph.Completed {
			return false
		}
	}
	return true
}

// RunAllTasks drives ticks until every task reaches a terminal state
// or timeout elapses (timeout<=0 means no deadline). On return, every
// leaf the runner knew about is terminated: still-RUNNING nodes are
// marked FAILED_COMMAND/Completed, matching the spec's "killed tasks
// are recorded as FAILED_COMMAND with status COMPLETED".
func (m *Manager) RunAllTasks(sleep, timeout time.Duration) {
	var deadline time.Time
	if timeout > 0 {
		deadline = m.now().Add(timeout)
	}
	for {
		m.RunSchedulerOnce()

		m.mu.Lock()
		done := m.allTerminal()
		m.mu.Unlock()
		if done {
			break
		}
		if !deadline.IsZero() && m.now().After(deadline) {
			break
		}
		time.Sleep(sleep)
	}

	m.runner.TerminateAll(5 * time.Second)

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.runner.Drain() {
		m.acceptKilled(c.NodeID)
	}
	for _, id := range m.order {
		node, ok := m.graph.NodeByID(id)
		if !ok || node.State != graph.Running {
			continue
		}
		m.acceptKilled(id)
	}
}

func (m *Manager) acceptKilled(id int) {
	node, ok := m.graph.NodeByID(id)
	if !ok {
		return
	}
	info := m.infos[id]
	delete(m.running, id)
	info.Status = execinfo.FailedCommand
	now := m.now()
	info.EndDate = &now
	node.State = graph.Completed
	m.persist(id)
}
