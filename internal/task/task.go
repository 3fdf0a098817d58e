// Package task defines the abstract task contract the engine drives:
// leaf tasks that run to an exit code (as a subprocess or an in-process
// callback) and composite tasks that expand into a sub-DAG via Build.
//
// Dependency edges are declared through the Link/Group combinators
// (the spec's "==>" and "::" operators, which Go has no syntax for) and
// are mutable until the task is inserted into a graph, at which point
// the owning graph freezes them.
package task

import (
	"context"

	"github.com/taskcore/engine/internal/resource"
)

// Category discriminates the three task shapes the engine understands.
type Category int

const (
	LeafProcess Category = iota
	LeafInProcess
	CompositeTask
)

func (c Category) String() string {
	switch c {
	case LeafProcess:
		return "LeafProcess"
	case LeafInProcess:
		return "LeafInProcess"
	case CompositeTask:
		return "Composite"
	default:
		return "Unknown"
	}
}

// ExecInfoView is the slice of a TaskExecutionInfo a Retry hook needs to
// decide policy. It lives here (rather than importing execinfo, which
// would cycle back to task) so hooks stay decoupled from the manager's
// bookkeeping representation.
type ExecInfoView interface {
	AttemptIndex() int
}

// Declarable is anything that can appear on either side of a dependency
// declaration: a single Task, or a Group of them for fan-in/fan-out.
type Declarable interface {
	members() []Task
}

// Task is the contract implemented by user code and consumed by the
// engine core.
type Task interface {
	Declarable
	Name() string
	Category() Category
	Predecessors() []Task
	Successors() []Task

	// freeze is invoked exactly once, when the owning graph inserts this
	// task; further edge mutation via Link is rejected afterward.
	freeze()
	isFrozen() bool
	addPredecessor(t Task)
	addSuccessor(t Task)
}

// group is the concrete Declarable produced by Group(...), the "::"
// combinator.
type group []Task

func (g group) members() []Task { return g }

// Group builds a Declarable standing for all of ts at once, so that
// Link(Group(a, b), c) wires both a->c and b->c (fan-in), and
// Link(a, Group(b, c)) wires a->b and a->c (fan-out).
func Group(ts ...Task) Declarable { return group(ts) }

// Freeze is called by the graph exactly once, at insertion time; it
// stops any further edge mutation via Link against t.
func Freeze(t Task) { t.freeze() }

// Link declares that every task in succ depends on every task in pred:
// the spec's "pred ==> succ". It must be called before either side is
// inserted into a graph; edges recorded here are read back by the graph
// at insertion time.
func Link(pred, succ Declarable) {
	for _, p := range pred.members() {
		for _, s := range succ.members() {
			if p.isFrozen() || s.isFrozen() {
				continue
			}
			p.addSuccessor(s)
			s.addPredecessor(p)
		}
	}
}

// base is embedded by every concrete task kind; it carries the shared
// edge-declaration bookkeeping so LeafProcess/LeafInProcess/Composite
// avoid an inheritance chain (spec design note §9).
type base struct {
	self         Task
	name         string
	predecessors []Task
	successors   []Task
	frozen       bool
}

func newBase(self Task, name string) base {
	return base{self: self, name: name}
}

func (b *base) Name() string            { return b.name }
func (b *base) members() []Task         { return []Task{b.self} }
func (b *base) Predecessors() []Task    { return append([]Task(nil), b.predecessors...) }
func (b *base) Successors() []Task      { return append([]Task(nil), b.successors...) }
func (b *base) isFrozen() bool          { return b.frozen }
func (b *base) freeze()                 { b.frozen = true }
func (b *base) addPredecessor(t Task)   { b.predecessors = append(b.predecessors, t) }
func (b *base) addSuccessor(t Task)     { b.successors = append(b.successors, t) }

// ResourcePolicy chooses how much of the available envelope a leaf task
// consumes when admitted.
type ResourcePolicy interface {
	// Pick returns the resource set to reserve for this attempt given
	// what's currently available, or ok=false if it cannot be admitted
	// right now.
	Pick(available resource.Set) (resource.Set, bool)
}

// Fixed requests an exact ResourceSet; admission succeeds only when the
// full amount fits in what's available.
type Fixed struct{ Requires resource.Set }

func (f Fixed) Pick(available resource.Set) (resource.Set, bool) {
	if available.Fits(f.Requires) {
		return f.Requires, true
	}
	return resource.Zero, false
}

// Flexible selects a size from a menu of its own choosing, e.g. the
// largest that fits. Returning ok=false defers the task to a later tick.
type Flexible struct {
	Pick_ func(available resource.Set) (resource.Set, bool)
}

func (f Flexible) Pick(available resource.Set) (resource.Set, bool) { return f.Pick_(available) }

// Exceeds reports whether the policy could never be admitted even
// against the full envelope (not merely what's currently available) —
// the scheduler's "permanently unschedulable" check (spec §4.4.2).
func Exceeds(p ResourcePolicy, envelope resource.Set) bool {
	_, ok := p.Pick(envelope)
	return !ok
}

// Hooks bundle the optional onComplete/retry feedback loop a leaf task
// may use to mutate its own fate between attempts.
type Hooks struct {
	// OnComplete runs after every attempt that produced an exit code,
	// zero or not (for InProcess, only when the callback returned no
	// error); nil means "always true".
	OnComplete func(exitCode int) bool
	// Retry is consulted after every attempt (successful or not) to
	// decide done-vs-retry-vs-replace. Returning (task, true) with the
	// same object requests resubmission in place; a different object
	// requests replacement; (nil, false) accepts the terminal status.
	Retry func(info ExecInfoView, failedOnComplete bool) (Task, bool)
}

func (h Hooks) runOnComplete(exitCode int) bool {
	if h.OnComplete == nil {
		return true
	}
	return h.OnComplete(exitCode)
}

// Process is a leaf task that runs an external command.
type Process struct {
	base
	Resources ResourcePolicy
	Hooks     Hooks

	// Args returns the argument vector for the given attempt (1-based);
	// it may differ across attempts since retry hooks can mutate task
	// state between calls.
	Args func(attempt int) []string
	Dir  string
	Env  []string

	// ApplyResources is invoked with the admitted ResourceSet just
	// before launch so the task can adjust its own behavior (e.g.
	// thread count flags). Allocation itself stays advisory.
	ApplyResources func(resource.Set)
}

// NewProcess constructs a Process task and wires up its self-reference.
func NewProcess(name string, args func(attempt int) []string, resources ResourcePolicy) *Process {
	p := &Process{Args: args, Resources: resources}
	p.base = newBase(p, name)
	return p
}

func (p *Process) Category() Category { return LeafProcess }

func (p *Process) RunOnComplete(exitCode int) bool { return p.Hooks.runOnComplete(exitCode) }

// InProcess is a leaf task that runs a callback on a worker goroutine;
// the callback's return value is treated as the exit code.
type InProcess struct {
	base
	Resources ResourcePolicy
	Hooks     Hooks

	// Callback is invoked on a worker goroutine per attempt. A non-nil
	// error maps to a non-zero exit and status FAILED_UNKNOWN.
	Callback func(ctx context.Context, attempt int) (exitCode int, err error)
}

// NewInProcess constructs an InProcess task.
func NewInProcess(name string, callback func(ctx context.Context, attempt int) (int, error), resources ResourcePolicy) *InProcess {
	ip := &InProcess{Callback: callback, Resources: resources}
	ip.base = newBase(ip, name)
	return ip
}

func (ip *InProcess) Category() Category { return LeafInProcess }

func (ip *InProcess) RunOnComplete(exitCode int) bool { return ip.Hooks.runOnComplete(exitCode) }

// Composite is a task that produces more tasks via Build instead of
// executing directly (the spec's "Pipeline").
type Composite struct {
	base

	// Build is invoked exactly once by the engine, after every declared
	// predecessor completes. It may inspect predecessor outputs and
	// declare new tasks anchored to Root(); it must not be called
	// concurrently with itself.
	Build func() ([]Task, error)

	built    bool
	produced []Task
	buildErr error
	root     *rootAnchor
}

// NewComposite constructs a Composite task.
func NewComposite(name string, build func() ([]Task, error)) *Composite {
	c := &Composite{Build: build}
	c.base = newBase(c, name)
	c.root = &rootAnchor{}
	c.root.base = newBase(c.root, name+"#root")
	return c
}

func (c *Composite) Category() Category { return CompositeTask }

// Root is the composite's special pseudo-node: tasks produced by Build
// that depend on Root run after the composite's own declared
// predecessors and before its declared successors.
func (c *Composite) Root() Task { return c.root }

// GetTasks returns the set of tasks directly declared in Build. It is
// idempotent: calling it again before expansion re-returns the same
// set without invoking Build a second time, matching the spec's
// "invoked repeatedly before expansion; exactly once at expansion".
func (c *Composite) GetTasks() ([]Task, error) {
	if c.built {
		return c.produced, c.buildErr
	}
	c.built = true
	produced, err := c.Build()
	c.produced = produced
	c.buildErr = err
	return produced, err
}

// rootAnchor is the composite's internal pseudo-task; it never executes
// and is never itself inserted into the manager's id space, it exists
// only as a predecessor edge target for produced tasks.
type rootAnchor struct{ base }

func (r *rootAnchor) Category() Category { return CompositeTask }
