package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/taskcore/engine/internal/resource"
	"github.com/taskcore/engine/internal/task"
)

// GraphFixture is a declarative task graph loaded from YAML, the shape
// taskenginectl reads before driving a run: a flat list of process
// tasks naming their own resource request and the IDs they depend on.
// It plays the role the teacher's WorkflowConfig plays for job
// registries, but leaves/edges instead of func-key job lookups, since
// this engine's tasks run arbitrary commands rather than registered
// Go functions.
type GraphFixture struct {
	Tasks []TaskFixture `yaml:"tasks"`
}

// TaskFixture describes one process leaf and its dependency edges.
type TaskFixture struct {
	ID           string   `yaml:"id"`
	Command      []string `yaml:"command"`
	Dir          string   `yaml:"dir"`
	Dependencies []string `yaml:"dependencies"`

	Cores  float64 `yaml:"cores"`
	Memory string  `yaml:"memory"`
	Disk   string  `yaml:"disk"`
}

// LoadFixture reads path and parses it as a GraphFixture.
func LoadFixture(path string) (*GraphFixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading fixture %s: %w", path, err)
	}
	var fx GraphFixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("config: parsing fixture %s: %w", path, err)
	}
	return &fx, nil
}

// Build realizes the fixture as task.Process values wired with
// task.Link per Dependencies, ready for manager.AddTasks. It rejects a
// fixture whose Dependencies reference an unknown ID before any task
// is constructed, so partial graphs never reach the manager.
func (fx *GraphFixture) Build() ([]task.Task, error) {
	for _, tf := range fx.Tasks {
		for _, dep := range tf.Dependencies {
			if !fx.hasID(dep) {
				return nil, fmt.Errorf("config: fixture task %q depends on unknown id %q", tf.ID, dep)
			}
		}
	}

	byID := make(map[string]*task.Process, len(fx.Tasks))
	order := make([]task.Task, 0, len(fx.Tasks))
	for _, tf := range fx.Tasks {
		tf := tf
		if len(tf.Command) == 0 {
			return nil, fmt.Errorf("config: fixture task %q has no command", tf.ID)
		}
		memBytes, err := parseMemoryField(tf.Memory)
		if err != nil {
			return nil, fmt.Errorf("config: fixture task %q memory: %w", tf.ID, err)
		}
		diskBytes, err := parseMemoryField(tf.Disk)
		if err != nil {
			return nil, fmt.Errorf("config: fixture task %q disk: %w", tf.ID, err)
		}
		policy := task.Fixed{Requires: resource.NewSet(tf.Cores, memBytes, diskBytes)}
		p := task.NewProcess(tf.ID, func(attempt int) []string { return tf.Command }, policy)
		p.Dir = tf.Dir
		byID[tf.ID] = p
		order = append(order, p)
	}

	for _, tf := range fx.Tasks {
		succ := byID[tf.ID]
		for _, dep := range tf.Dependencies {
			task.Link(byID[dep], succ)
		}
	}

	return order, nil
}

// parseMemoryField resolves a fixture's memory/disk field, treating an
// omitted field as zero rather than deferring to ParseMemory's -1
// sentinel for an empty string.
func parseMemoryField(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	bytes := resource.ParseMemory(s)
	if bytes < 0 {
		return 0, fmt.Errorf("unparseable memory quantity %q", s)
	}
	return bytes, nil
}

func (fx *GraphFixture) hasID(id string) bool {
	for _, tf := range fx.Tasks {
		if tf.ID == id {
			return true
		}
	}
	return false
}

// DefaultTimeout is the same 30s fallback ApplyDefaults and
// GetDefaultTaskTimeout use for execution.default_task_timeout, which
// taskenginectl passes to RunAllTasks as the deadline for the whole
// run. Fixture tasks have no timeout field of their own.
const DefaultTimeout = 30 * time.Second
