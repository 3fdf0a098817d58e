// Command taskenginectl is the thin CLI front end: load a YAML task
// graph fixture, run it to completion against an in-process engine
// manager, and print a color-coded final status per task.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskcore/engine/internal/events"
	"github.com/taskcore/engine/internal/manager"
	"github.com/taskcore/engine/internal/storage"
	"github.com/taskcore/engine/internal/task"
	"github.com/taskcore/engine/pkg/cli/output"
	"github.com/taskcore/engine/pkg/config"
)

var (
	configPath  string
	fixturePath string
	watch       bool
	jsonOutput  bool
)

var rootCmd = &cobra.Command{
	Use:   "taskenginectl",
	Short: "Drive a task graph fixture against the task engine",
	Long: `taskenginectl loads a YAML configuration and task graph fixture,
admits every task into an in-process engine manager, runs the
scheduler to completion and reports the final status of every task.`,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a task graph fixture to completion",
	RunE:  runGraph,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/engine.yaml", "engine config file")
	runCmd.Flags().StringVarP(&fixturePath, "fixture", "f", "", "YAML task graph fixture (required)")
	runCmd.Flags().BoolVarP(&watch, "watch", "w", false, "print each task transition as it happens")
	runCmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "print the final report as JSON instead of a table")
	runCmd.MarkFlagRequired("fixture")
	rootCmd.AddCommand(runCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runGraph(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	fx, err := config.LoadFixture(fixturePath)
	if err != nil {
		return fmt.Errorf("loading fixture: %w", err)
	}
	tasks, err := fx.Build()
	if err != nil {
		return fmt.Errorf("building task graph: %w", err)
	}
	if len(tasks) == 0 {
		output.Warning("fixture %s declares no tasks", fixturePath)
		return nil
	}

	m := manager.New(cfg.ResourceEnvelope(), cfg.TaskEngine.Execution.LogDir)

	bus, err := events.New(false)
	if err != nil {
		return fmt.Errorf("starting event bus: %w", err)
	}
	defer bus.Close()
	if watch {
		bus.Handle("watch", events.TopicStarted, func(lc events.Lifecycle) error {
			output.Info("started  %-20s attempt=%d", lc.TaskName, lc.Attempt)
			return nil
		})
		bus.Handle("watch", events.TopicCompleted, func(lc events.Lifecycle) error {
			output.Info("completed %-20s exit=%d %s", lc.TaskName, lc.ExitCode, lc.Detail)
			return nil
		})
	}
	m.AttachBus(bus)

	busCtx, cancelBus := context.WithCancel(context.Background())
	defer cancelBus()
	go bus.Run(busCtx)

	if cfg.StorageEnabled() {
		store, err := storage.Open(cfg.TaskEngine.Storage.Driver, cfg.TaskEngine.Storage.DSN)
		if err != nil {
			return fmt.Errorf("opening audit store: %w", err)
		}
		defer store.Close()
		m.AttachStore(store)
	}

	ids, err := m.AddTasks(tasks, -1, false)
	if err != nil {
		return fmt.Errorf("admitting fixture tasks: %w", err)
	}

	m.RunAllTasks(cfg.TaskEngine.Execution.TickInterval, cfg.GetDefaultTaskTimeout())

	return report(m, tasks, ids)
}

type taskReport struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Attempt int    `json:"attempt"`
}

func report(m *manager.Manager, tasks []task.Task, ids []int) error {
	failures := 0
	rows := make([]taskReport, 0, len(ids))
	for i, id := range ids {
		status, _ := m.GetTaskStatus(id)
		info, _ := m.GetTaskExecutionInfo(id)
		attempt := 0
		if info != nil {
			attempt = info.AttemptIndex()
		}
		rows = append(rows, taskReport{Name: tasks[i].Name(), Status: status.String(), Attempt: attempt})
		if status.String()[:6] == "FAILED" {
			failures++
		}
	}

	if jsonOutput {
		if err := output.PrintJSON(rows); err != nil {
			return fmt.Errorf("printing report: %w", err)
		}
	} else {
		table := output.NewStatusTable()
		for _, r := range rows {
			table.AddRow(r.Name, r.Status, r.Attempt)
		}
		table.Render()
	}

	if failures > 0 {
		return fmt.Errorf("%d task(s) failed", failures)
	}
	if !jsonOutput {
		output.Success("all tasks completed successfully")
	}
	return nil
}
