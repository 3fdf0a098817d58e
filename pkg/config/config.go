// Package config loads the engine's YAML configuration: resource
// envelope sizing, execution defaults and the audit storage backend.
package config

import "time"

// EngineConfig is the root configuration document, rooted under a
// top-level "task-engine" key so it can sit alongside other services'
// config in a shared file.
type EngineConfig struct {
	TaskEngine struct {
		General struct {
			InstanceName string `yaml:"instance_name"`
			LogLevel     string `yaml:"log_level"`
			Env          string `yaml:"env"`
		} `yaml:"general"`

		// Resources sizes the admission scheduler's envelope: the
		// ceiling internal/resource.Set the manager packs leaf tasks
		// into. Memory/Disk accept resource.ParseMemory strings
		// ("512m", "2g") as well as bare byte counts.
		Resources struct {
			Cores  float64 `yaml:"cores"`
			Memory string  `yaml:"memory"`
			Disk   string  `yaml:"disk"`
		} `yaml:"resources"`

		Execution struct {
			DefaultTaskTimeout time.Duration `yaml:"default_task_timeout"`
			TickInterval       time.Duration `yaml:"tick_interval"`
			LogDir             string        `yaml:"log_dir"`
		} `yaml:"execution"`

		// Storage wires the optional audit trail. Driver == "" leaves
		// it disabled; the manager runs with no store attached.
		Storage struct {
			Driver string `yaml:"driver"`
			DSN    string `yaml:"dsn"`
		} `yaml:"storage"`
	} `yaml:"task-engine"`
}

// Default returns a config with every field set to its fallback
// value, equivalent to ApplyDefaults on a zero EngineConfig.
func Default() *EngineConfig {
	cfg := &EngineConfig{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills in every unset field in place.
func (c *EngineConfig) ApplyDefaults() {
	if c.TaskEngine.General.InstanceName == "" {
		c.TaskEngine.General.InstanceName = "task-engine"
	}
	if c.TaskEngine.General.LogLevel == "" {
		c.TaskEngine.General.LogLevel = "info"
	}
	if c.TaskEngine.General.Env == "" {
		c.TaskEngine.General.Env = "dev"
	}

	if c.TaskEngine.Resources.Cores <= 0 {
		c.TaskEngine.Resources.Cores = 4
	}
	if c.TaskEngine.Resources.Memory == "" {
		c.TaskEngine.Resources.Memory = "4g"
	}
	if c.TaskEngine.Resources.Disk == "" {
		c.TaskEngine.Resources.Disk = "20g"
	}

	if c.TaskEngine.Execution.DefaultTaskTimeout <= 0 {
		c.TaskEngine.Execution.DefaultTaskTimeout = 30 * time.Second
	}
	if c.TaskEngine.Execution.TickInterval <= 0 {
		c.TaskEngine.Execution.TickInterval = 200 * time.Millisecond
	}
	if c.TaskEngine.Execution.LogDir == "" {
		c.TaskEngine.Execution.LogDir = ""
	}
}

// GetDefaultTaskTimeout returns the configured timeout, defaulting
// like ApplyDefaults would if called on a zero value.
func (c *EngineConfig) GetDefaultTaskTimeout() time.Duration {
	if c.TaskEngine.Execution.DefaultTaskTimeout <= 0 {
		return 30 * time.Second
	}
	return c.TaskEngine.Execution.DefaultTaskTimeout
}

// StorageEnabled reports whether a storage driver was configured.
func (c *EngineConfig) StorageEnabled() bool {
	return c.TaskEngine.Storage.Driver != ""
}
