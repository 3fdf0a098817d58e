package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, body string) string {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}

func TestLoadMissingFileFallsBackToDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TaskEngine.General.InstanceName != "task-engine" {
		t.Errorf("InstanceName = %q, want the default", cfg.TaskEngine.General.InstanceName)
	}
}

func TestLoadParsesNestedSections(t *testing.T) {
	path := writeTempConfig(t, `
task-engine:
  general:
    instance_name: batch-01
    log_level: debug
  resources:
    cores: 8
    memory: 8g
    disk: 50g
  execution:
    default_task_timeout: 45s
    tick_interval: 100ms
  storage:
    driver: sqlite3
    dsn: audit.db
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TaskEngine.General.InstanceName != "batch-01" {
		t.Errorf("InstanceName = %q", cfg.TaskEngine.General.InstanceName)
	}
	if cfg.TaskEngine.Resources.Cores != 8 {
		t.Errorf("Cores = %v", cfg.TaskEngine.Resources.Cores)
	}
	if cfg.TaskEngine.Storage.Driver != "sqlite3" || cfg.TaskEngine.Storage.DSN != "audit.db" {
		t.Errorf("Storage = %+v", cfg.TaskEngine.Storage)
	}
	if cfg.GetDefaultTaskTimeout().Seconds() != 45 {
		t.Errorf("DefaultTaskTimeout = %v", cfg.GetDefaultTaskTimeout())
	}
}

func TestLoadExpandsEnvVars(t *testing.T) {
	t.Setenv("TASKENGINE_INSTANCE", "from-env")
	path := writeTempConfig(t, `
task-engine:
  general:
    instance_name: "${TASKENGINE_INSTANCE}"
  resources:
    cores: 2
    memory: 1g
    disk: 1g
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TaskEngine.General.InstanceName != "from-env" {
		t.Errorf("InstanceName = %q, want from-env", cfg.TaskEngine.General.InstanceName)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	path := writeTempConfig(t, `
task-engine:
  storage:
    driver: oracle
    dsn: whatever
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for an unsupported storage driver")
	}
}
