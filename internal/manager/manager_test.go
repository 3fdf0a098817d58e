package manager

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/taskcore/engine/internal/execinfo"
	"github.com/taskcore/engine/internal/graph"
	"github.com/taskcore/engine/internal/resource"
	"github.com/taskcore/engine/internal/storage"
	"github.com/taskcore/engine/internal/task"
)

func tick(t *testing.T, m *Manager, n int, pause time.Duration) {
	for i := 0; i < n; i++ {
		m.RunSchedulerOnce()
		time.Sleep(pause)
	}
}

func tickUntil(t *testing.T, m *Manager, timeout time.Duration, done func() bool) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		m.RunSchedulerOnce()
		if done() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for condition")
}

func shellExit(code int) *task.Process {
	return task.NewProcess("exit", func(int) []string { return []string{"/bin/sh", "-c", "exit " + itoa(code)} }, task.Fixed{Requires: resource.Zero})
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func TestScenarioSimpleExitZero(t *testing.T) {
	m := New(resource.NewSet(1000, 0, 0), "")
	p := shellExit(0)
	id, err := m.AddTask(p, -1, false)
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	tickUntil(t, m, 2*time.Second, func() bool {
		st, _ := m.GetGraphNodeState(id)
		return st == graph.Completed
	})

	info, _ := m.GetTaskExecutionInfo(id)
	if info.Status != execinfo.Succeeded {
		t.Fatalf("expected SUCCEEDED, got %v", info.Status)
	}
	if info.AttemptIndex_ != 1 {
		t.Fatalf("expected attemptIndex 1, got %d", info.AttemptIndex_)
	}
}

func TestScenarioRetryThreeTimesThenSucceed(t *testing.T) {
	attempt := 0
	p := task.NewProcess("flaky", func(a int) []string {
		attempt = a
		if a < 3 {
			return []string{"/bin/sh", "-c", "exit 1"}
		}
		return []string{"/bin/sh", "-c", "exit 0"}
	}, task.Fixed{Requires: resource.Zero})
	p.Hooks.Retry = func(info task.ExecInfoView, failedOnComplete bool) (task.Task, bool) {
		if info.AttemptIndex() < 3 {
			return p, true
		}
		return nil, false
	}

	m := New(resource.NewSet(1000, 0, 0), "")
	id, err := m.AddTask(p, -1, false)
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	tickUntil(t, m, 3*time.Second, func() bool {
		st, _ := m.GetGraphNodeState(id)
		return st == graph.Completed
	})

	info, _ := m.GetTaskExecutionInfo(id)
	if info.Status != execinfo.Succeeded {
		t.Fatalf("expected eventual SUCCEEDED, got %v", info.Status)
	}
	if info.AttemptIndex_ != 3 {
		t.Fatalf("expected attemptIndex 3, got %d", info.AttemptIndex_)
	}
	_ = attempt
}

func TestScenarioOnCompleteFlip(t *testing.T) {
	var statuses []execinfo.Status
	var onCompleteCalls atomic.Int32
	p := task.NewProcess("flip", func(int) []string { return []string{"/bin/sh", "-c", "exit 0"} }, task.Fixed{Requires: resource.Zero})
	p.Hooks.OnComplete = func(exitCode int) bool {
		// First attempt's exit-0 is still rejected by onComplete; the
		// second attempt's is accepted. Counted with an atomic since the
		// runner invokes this on its own worker goroutine, not the tick
		// loop's.
		return onCompleteCalls.Add(1) >= 2
	}
	p.Hooks.Retry = func(info task.ExecInfoView, failedOnComplete bool) (task.Task, bool) {
		// The hook runs on the tick loop right after each attempt is
		// classified, the only point where a retried attempt's status is
		// visible: the same tick resets it and re-admits the task.
		statuses = append(statuses, info.(*execinfo.Info).Status)
		if info.AttemptIndex() < 2 {
			return p, true
		}
		return nil, false
	}

	m := New(resource.NewSet(1000, 0, 0), "")
	id, err := m.AddTask(p, -1, false)
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	tickUntil(t, m, 3*time.Second, func() bool {
		st, _ := m.GetGraphNodeState(id)
		return st == graph.Completed
	})

	if len(statuses) < 2 {
		t.Fatalf("expected to observe FAILED_ON_COMPLETE then SUCCEEDED, got %v", statuses)
	}
	if statuses[0] != execinfo.FailedOnComplete {
		t.Fatalf("expected first observed status FAILED_ON_COMPLETE, got %v", statuses[0])
	}
	if statuses[len(statuses)-1] != execinfo.Succeeded {
		t.Fatalf("expected final status SUCCEEDED, got %v", statuses[len(statuses)-1])
	}
}

func TestScenarioResourceReplacement(t *testing.T) {
	envelope := resource.NewSet(1, 1<<30, 0)
	original := task.NewProcess("too-big", func(int) []string { return []string{"/bin/sh", "-c", "exit 0"} }, task.Fixed{Requires: resource.NewSet(0, 2<<30, 0)})

	m := New(envelope, "")
	id, err := m.AddTask(original, -1, false)
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	tick(t, m, 3, 10*time.Millisecond)
	st, _ := m.GetGraphNodeState(id)
	if st != graph.NoPredecessors {
		t.Fatalf("expected the oversized task to remain READY, got %v", st)
	}

	replacement := task.NewProcess("fits", func(int) []string { return []string{"/bin/sh", "-c", "exit 0"} }, task.Fixed{Requires: resource.NewSet(0, 1<<30, 0)})
	if ok := m.ReplaceTask(original, replacement); !ok {
		t.Fatalf("expected ReplaceTask to succeed")
	}

	newID, _ := m.GetTaskID(replacement)
	if newID != id {
		t.Fatalf("expected replacement to preserve id %d, got %d", id, newID)
	}

	tickUntil(t, m, 2*time.Second, func() bool {
		st, _ := m.GetGraphNodeState(id)
		return st == graph.Completed
	})
	info, _ := m.GetTaskExecutionInfo(id)
	if info.Status != execinfo.Succeeded {
		t.Fatalf("expected replacement to SUCCEED, got %v", info.Status)
	}
}

func TestScenarioHungryFlexibleTasksRespectEnvelope(t *testing.T) {
	envelope := resource.NewSet(4, 0, 0)
	m := New(envelope, "")

	var maxObserved int64
	observe := func(cores float64) {
		m.mu.Lock()
		used := resource.Zero
		for _, rs := range m.running {
			used = used.Add(rs)
		}
		m.mu.Unlock()
		if int64(used.Cores()) > maxObserved {
			maxObserved = int64(used.Cores())
		}
	}

	menu := []float64{8, 6, 1}
	ids := make([]int, 0, 3)
	for _, want := range menu {
		want := want
		flex := task.Flexible{Pick_: func(available resource.Set) (resource.Set, bool) {
			for _, candidate := range []float64{want, 4, 2, 1} {
				rs := resource.NewSet(candidate, 0, 0)
				if available.Fits(rs) {
					return rs, true
				}
			}
			return resource.Zero, false
		}}
		ip := task.NewInProcess("hungry", func(ctx context.Context, attempt int) (int, error) {
			time.Sleep(30 * time.Millisecond)
			return 0, nil
		}, flex)
		id, err := m.AddTask(ip, -1, false)
		if err != nil {
			t.Fatalf("AddTask: %v", err)
		}
		ids = append(ids, id)
	}

	tickUntil(t, m, 3*time.Second, func() bool {
		observe(0)
		for _, id := range ids {
			st, _ := m.GetGraphNodeState(id)
			if st != graph.Completed {
				return false
			}
		}
		return true
	})

	if maxObserved > 4 {
		t.Fatalf("expected concurrent allocation to stay <= 4 cores, observed %d", maxObserved)
	}
	for _, id := range ids {
		info, _ := m.GetTaskExecutionInfo(id)
		if info.Status != execinfo.Succeeded {
			t.Fatalf("expected task %d to succeed, got %v", id, info.Status)
		}
	}
}

func TestScenarioOrphanResolution(t *testing.T) {
	pred := shellExit(0)
	succ := shellExit(0)
	task.Link(task.Group(pred), task.Group(succ))

	m := New(resource.NewSet(1000, 0, 0), "")
	succID, err := m.AddTask(succ, -1, false)
	if err != nil {
		t.Fatalf("AddTask(succ): %v", err)
	}

	st, _ := m.GetGraphNodeState(succID)
	if st != graph.Orphan {
		t.Fatalf("expected successor to be ORPHAN before predecessor is inserted, got %v", st)
	}
	m.RunSchedulerOnce()
	st, _ = m.GetGraphNodeState(succID)
	if st != graph.Orphan {
		t.Fatalf("expected successor to remain ORPHAN across a tick with no predecessor, got %v", st)
	}

	predID, err := m.AddTask(pred, -1, false)
	if err != nil {
		t.Fatalf("AddTask(pred): %v", err)
	}

	m.RunSchedulerOnce()
	st, _ = m.GetGraphNodeState(succID)
	if st != graph.PredecessorsAndUnexpanded {
		t.Fatalf("expected successor to become PREDECESSORS_AND_UNEXPANDED once predecessor exists, got %v", st)
	}

	tickUntil(t, m, 2*time.Second, func() bool {
		st, _ := m.GetGraphNodeState(succID)
		return st == graph.Completed
	})
	predSt, _ := m.GetGraphNodeState(predID)
	if predSt != graph.Completed {
		t.Fatalf("expected predecessor to have completed, got %v", predSt)
	}
}

func TestScenarioCompositeInCompositeTimestamps(t *testing.T) {
	m := New(resource.NewSet(1000, 0, 0), "")

	var outer *task.Composite
	var inner *task.Composite
	var firstTask, secondTask *task.Process

	inner = task.NewComposite("inner", func() ([]task.Task, error) {
		secondTask = shellExit(0)
		task.Link(task.Group(inner.Root()), task.Group(secondTask))
		return []task.Task{secondTask}, nil
	})
	outer = task.NewComposite("outer", func() ([]task.Task, error) {
		firstTask = shellExit(0)
		task.Link(task.Group(outer.Root()), task.Group(firstTask))
		task.Link(task.Group(firstTask), task.Group(inner))
		return []task.Task{firstTask, inner}, nil
	})

	id, err := m.AddTask(outer, -1, false)
	if err != nil {
		t.Fatalf("AddTask(outer): %v", err)
	}

	tickUntil(t, m, 3*time.Second, func() bool {
		st, _ := m.GetGraphNodeState(id)
		return st == graph.Completed
	})

	outerInfo, _ := m.GetTaskExecutionInfo(id)
	innerID, _ := m.GetTaskID(inner)
	innerInfo, _ := m.GetTaskExecutionInfo(innerID)
	secondID, _ := m.GetTaskID(secondTask)
	secondInfo, _ := m.GetTaskExecutionInfo(secondID)
	firstID, _ := m.GetTaskID(firstTask)
	firstInfo, _ := m.GetTaskExecutionInfo(firstID)

	if outerInfo.EndDate == nil || innerInfo.EndDate == nil || secondInfo.EndDate == nil {
		t.Fatalf("expected all three endDates to be set")
	}
	if !outerInfo.EndDate.Equal(*innerInfo.EndDate) || !innerInfo.EndDate.Equal(*secondInfo.EndDate) {
		t.Fatalf("expected endDate(outer) == endDate(inner) == endDate(secondTask); got %v %v %v",
			outerInfo.EndDate, innerInfo.EndDate, secondInfo.EndDate)
	}
	if outerInfo.StartDate == nil || firstInfo.StartDate == nil || outerInfo.StartDate.After(*firstInfo.StartDate) {
		t.Fatalf("expected startDate(outer) <= startDate(firstTask)")
	}
	if innerInfo.StartDate == nil || secondInfo.StartDate == nil || innerInfo.StartDate.After(*secondInfo.StartDate) {
		t.Fatalf("expected startDate(inner) <= startDate(secondTask)")
	}
}

func TestAttachStorePersistsTerminalStatus(t *testing.T) {
	dbFile := "test_manager_audit.db"
	os.Remove(dbFile)
	t.Cleanup(func() { os.Remove(dbFile) })

	store, err := storage.Open("sqlite3", dbFile)
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	defer store.Close()

	p := shellExit(0)
	m := New(resource.NewSet(1000, 0, 0), "")
	m.AttachStore(store)
	id, err := m.AddTask(p, -1, false)
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	tickUntil(t, m, 3*time.Second, func() bool {
		st, _ := m.GetGraphNodeState(id)
		return st == graph.Completed
	})

	rec, err := store.GetByNodeID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetByNodeID: %v", err)
	}
	if rec == nil {
		t.Fatalf("expected a persisted record for node %d", id)
	}
	if rec.Status != execinfo.Succeeded.String() {
		t.Fatalf("expected persisted status SUCCEEDED, got %s", rec.Status)
	}
}

func TestScenarioCompositeFailureBlocksSuccessors(t *testing.T) {
	m := New(resource.NewSet(1000, 0, 0), "")

	var comp *task.Composite
	var failing *task.Process
	comp = task.NewComposite("builder", func() ([]task.Task, error) {
		failing = shellExit(1)
		task.Link(task.Group(comp.Root()), task.Group(failing))
		return []task.Task{failing}, nil
	})
	after := shellExit(0)
	task.Link(task.Group(comp), task.Group(after))

	compID, err := m.AddTask(comp, -1, false)
	if err != nil {
		t.Fatalf("AddTask(comp): %v", err)
	}
	afterID, err := m.AddTask(after, -1, false)
	if err != nil {
		t.Fatalf("AddTask(after): %v", err)
	}

	tickUntil(t, m, 3*time.Second, func() bool {
		st, _ := m.GetGraphNodeState(compID)
		return st == graph.Completed
	})

	compInfo, _ := m.GetTaskExecutionInfo(compID)
	if compInfo.Status == execinfo.Succeeded {
		t.Fatalf("expected composite status to reflect its failing descendant, got SUCCEEDED")
	}
	if compInfo.Status != execinfo.FailedCommand {
		t.Fatalf("expected composite status FAILED_COMMAND, got %v", compInfo.Status)
	}

	// Give the scheduler a few more ticks; after must never be released.
	tick(t, m, 20, 10*time.Millisecond)
	afterSt, _ := m.GetGraphNodeState(afterID)
	if afterSt == graph.Completed || afterSt == graph.Running {
		t.Fatalf("expected the composite's successor to stall forever after a descendant failed, got %v", afterSt)
	}
}

func TestAddTasksRejectsCycleDeclaredBeforeInsertion(t *testing.T) {
	a := shellExit(0)
	b := shellExit(0)
	c := shellExit(0)
	task.Link(task.Group(a), task.Group(b))
	task.Link(task.Group(b), task.Group(c))
	task.Link(task.Group(c), task.Group(a))

	m := New(resource.NewSet(1000, 0, 0), "")
	ids, err := m.AddTasks([]task.Task{a, b, c}, -1, false)
	if err == nil {
		t.Fatalf("expected AddTasks to reject the a->b->c->a cycle")
	}
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected a and b to have been inserted before c failed, got %d ids", len(ids))
	}
	if _, tracked := m.GetTaskID(c); tracked {
		t.Fatalf("expected c to remain untracked after its insertion was rejected")
	}
}
