package config

import (
	"errors"
	"fmt"

	"github.com/taskcore/engine/internal/resource"
)

var validDrivers = map[string]bool{
	"":         true, // storage disabled
	"sqlite3":  true,
	"postgres": true,
	"mysql":    true,
}

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

// Validate checks cfg for internally-inconsistent values that
// ApplyDefaults cannot fix on its own: unknown storage drivers, a
// zero resource envelope, a storage driver configured without a DSN.
func Validate(cfg *EngineConfig) error {
	if cfg == nil {
		return errors.New("config: nil EngineConfig")
	}

	if cfg.TaskEngine.General.LogLevel != "" && !validLogLevels[cfg.TaskEngine.General.LogLevel] {
		return fmt.Errorf("config: unknown log level %q", cfg.TaskEngine.General.LogLevel)
	}

	if cfg.TaskEngine.Resources.Cores <= 0 {
		return fmt.Errorf("config: resources.cores must be positive, got %v", cfg.TaskEngine.Resources.Cores)
	}
	if resource.ParseMemory(cfg.TaskEngine.Resources.Memory) <= 0 {
		return fmt.Errorf("config: resources.memory %q must parse to a positive byte count", cfg.TaskEngine.Resources.Memory)
	}
	if resource.ParseMemory(cfg.TaskEngine.Resources.Disk) <= 0 {
		return fmt.Errorf("config: resources.disk %q must parse to a positive byte count", cfg.TaskEngine.Resources.Disk)
	}

	driver := cfg.TaskEngine.Storage.Driver
	if !validDrivers[driver] {
		return fmt.Errorf("config: unsupported storage driver %q", driver)
	}
	if driver != "" && cfg.TaskEngine.Storage.DSN == "" {
		return fmt.Errorf("config: storage.driver %q set without storage.dsn", driver)
	}

	return nil
}

// ResourceEnvelope builds the resource.Set the manager's admission
// scheduler is sized to, from cfg's Resources section.
func (c *EngineConfig) ResourceEnvelope() resource.Set {
	return resource.NewSet(
		c.TaskEngine.Resources.Cores,
		resource.ParseMemory(c.TaskEngine.Resources.Memory),
		resource.ParseMemory(c.TaskEngine.Resources.Disk),
	)
}
