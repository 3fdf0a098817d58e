// Package runner launches admitted leaf tasks — as a subprocess or an
// in-process callback — and reports their outcome back to the manager
// through a single completion queue, the "multi-producer, single
// consumer mailbox" the spec's concurrency model calls for (§5).
package runner

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/taskcore/engine/internal/resource"
	"github.com/taskcore/engine/internal/task"
)

// Attempt is everything the runner needs to launch one admitted leaf.
type Attempt struct {
	NodeID       int
	Task         task.Task
	Resources    resource.Set
	AttemptIndex int
	LogDir       string
}

// Completion reports one finished (or killed) attempt. Err is set when
// an in-process callback returned/panicked with an error, or when the
// attempt could not be launched at all (empty argument vector,
// unsupported task kind); it takes precedence over ExitCode/OnCompleteOK when the manager maps
// it to a status.
type Completion struct {
	NodeID       int
	ExitCode     int
	OnCompleteOK bool
	Err          error
	LogPath      string
	Killed       bool
}

type inflight struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Runner supervises admitted attempts. The control thread (the
// manager's tick loop) only ever calls Launch, Drain and TerminateAll;
// everything else happens on worker goroutines.
type Runner struct {
	mu          sync.Mutex
	running     map[int]*inflight
	completions chan Completion
	wg          sync.WaitGroup
}

// New creates a Runner with a generously buffered completion queue —
// a tick never blocks waiting for the runner.
func New() *Runner {
	return &Runner{
		running:     make(map[int]*inflight),
		completions: make(chan Completion, 4096),
	}
}

// Launch starts a.Task on its own goroutine and returns immediately;
// no operation within a tick blocks on task work (spec §5).
func (r *Runner) Launch(a Attempt) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	r.mu.Lock()
	r.running[a.NodeID] = &inflight{cancel: cancel, done: done}
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer close(done)
		defer func() {
			r.mu.Lock()
			delete(r.running, a.NodeID)
			r.mu.Unlock()
		}()

		var completion Completion
		switch t := a.Task.(type) {
		case *task.Process:
			completion = r.runProcess(ctx, a, t)
		case *task.InProcess:
			completion = r.runInProcess(ctx, a, t)
		default:
			completion = Completion{NodeID: a.NodeID, ExitCode: -1, Err: fmt.Errorf("runner: unsupported task category %v", a.Task.Category())}
		}
		completion.Killed = ctx.Err() != nil
		r.completions <- completion
	}()
}

// Drain returns every completion currently buffered, without blocking.
func (r *Runner) Drain() []Completion {
	var out []Completion
	for {
		select {
		case c := <-r.completions:
			out = append(out, c)
		default:
			return out
		}
	}
}

// TerminateAll cancels every running attempt and waits up to grace for
// their goroutines to exit. Subprocesses receive SIGTERM on
// cancellation; in-process callbacks see their context canceled and
// are expected to check it. On return every leaf the runner knows about
// is either finished or has been asked to stop — matching the spec's
// "best-effort: send signal; join with small grace period".
func (r *Runner) TerminateAll(grace time.Duration) {
	r.mu.Lock()
	targets := make([]*inflight, 0, len(r.running))
	for _, in := range r.running {
		targets = append(targets, in)
	}
	r.mu.Unlock()

	for _, in := range targets {
		in.cancel()
	}

	deadline := time.After(grace)
	for _, in := range targets {
		select {
		case <-in.done:
		case <-deadline:
			return
		}
	}
}

func (r *Runner) runProcess(ctx context.Context, a Attempt, p *task.Process) Completion {
	argv := p.Args(a.AttemptIndex)
	if len(argv) == 0 {
		return Completion{NodeID: a.NodeID, ExitCode: -1, Err: fmt.Errorf("runner: process task %q produced an empty argument vector", p.Name())}
	}

	if p.ApplyResources != nil {
		p.ApplyResources(a.Resources)
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = p.Dir
	cmd.Env = p.Env
	// exec's default cancellation behavior is an immediate Kill; the
	// spec calls for SIGTERM on cancellation instead.
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = 5 * time.Second

	logPath, logFile, err := openLog(a.LogDir, a.NodeID, a.AttemptIndex)
	if err == nil {
		defer logFile.Close()
		cmd.Stdout = logFile
		cmd.Stderr = logFile
	}

	runErr := cmd.Run()
	exitCode := exitCodeOf(cmd, runErr)

	onCompleteOK := p.RunOnComplete(exitCode)
	return Completion{NodeID: a.NodeID, ExitCode: exitCode, OnCompleteOK: onCompleteOK, LogPath: logPath}
}

func (r *Runner) runInProcess(ctx context.Context, a Attempt, ip *task.InProcess) Completion {
	type result struct {
		exitCode int
		err      error
	}
	resultCh := make(chan result, 1)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				resultCh <- result{exitCode: -1, err: fmt.Errorf("runner: in-process task %q panicked: %v", ip.Name(), rec)}
			}
		}()
		exitCode, err := ip.Callback(ctx, a.AttemptIndex)
		resultCh <- result{exitCode: exitCode, err: err}
	}()

	res := <-resultCh
	if res.err != nil {
		return Completion{NodeID: a.NodeID, ExitCode: nonZero(res.exitCode), Err: res.err}
	}

	onCompleteOK := ip.RunOnComplete(res.exitCode)
	return Completion{NodeID: a.NodeID, ExitCode: res.exitCode, OnCompleteOK: onCompleteOK}
}

func nonZero(code int) int {
	if code == 0 {
		return -1
	}
	return code
}

func exitCodeOf(cmd *exec.Cmd, runErr error) int {
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	if runErr != nil {
		return -1
	}
	return 0
}

// openLog names each attempt's log file with a uuid suffix rather than
// just node id + attempt index, so a log directory shared across
// separate manager runs (ids restart at 0 on every process start) never
// collides with a prior run's artifacts.
func openLog(dir string, nodeID, attempt int) (string, *os.File, error) {
	if dir == "" {
		return "", nil, fmt.Errorf("runner: no log directory configured")
	}
	path := fmt.Sprintf("%s/task-%d-attempt-%d-%s.log", dir, nodeID, attempt, uuid.NewString())
	f, err := os.Create(path)
	if err != nil {
		return "", nil, err
	}
	return path, f, nil
}
