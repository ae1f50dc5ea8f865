package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"
)

// Task is a named unit of work in a workflow. DependsOn lists the
// names of tasks that must succeed before this one runs.
type Task struct {
	Name      string
	DependsOn []string
	Run       func(ctx context.Context) error
}

// TaskStatus describes the outcome of a workflow task.
type TaskStatus string

// Task outcomes.
const (
	StatusSucceeded TaskStatus = "succeeded"
	StatusFailed    TaskStatus = "failed"
	StatusSkipped   TaskStatus = "skipped"
)

// TaskResult records the outcome of one task.
type TaskResult struct {
	Name     string
	Status   TaskStatus
	Duration time.Duration
	Err      error
}

// Workflow runs tasks in dependency order. A task failure fails the
// workflow and skips every task that has not run yet.
type Workflow struct {
	tasks  map[string]Task
	order  []string
	logger *slog.Logger
}

// NewWorkflow creates an empty workflow.
func NewWorkflow(logger *slog.Logger) *Workflow {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workflow{tasks: make(map[string]Task), logger: logger}
}

// Add registers a task. Task names must be unique.
func (w *Workflow) Add(t Task) error {
	if t.Name == "" {
		return fmt.Errorf("task has no name")
	}
	if _, exists := w.tasks[t.Name]; exists {
		return fmt.Errorf("task %q already registered", t.Name)
	}
	w.tasks[t.Name] = t
	w.order = append(w.order, t.Name)
	return nil
}

// Run executes all tasks in dependency order and returns one result
// per task. The returned error is the first task error, or a planning
// error for unknown dependencies and cycles.
func (w *Workflow) Run(ctx context.Context) ([]TaskResult, error) {
	plan, err := w.plan()
	if err != nil {
		return nil, err
	}

	results := make([]TaskResult, 0, len(plan))
	var failed error

	for _, name := range plan {
		if failed != nil {
			results = append(results, TaskResult{Name: name, Status: StatusSkipped})
			continue
		}

		task := w.tasks[name]
		w.logger.Info("running task", "task", name)
		start := time.Now()
		err := task.Run(ctx)
		elapsed := time.Since(start)

		if err != nil {
			w.logger.Error("task failed", "task", name, "error", err)
			results = append(results, TaskResult{Name: name, Status: StatusFailed, Duration: elapsed, Err: err})
			failed = fmt.Errorf("task %q: %w", name, err)
			continue
		}
		w.logger.Info("task finished", "task", name, "duration", elapsed)
		results = append(results, TaskResult{Name: name, Status: StatusSucceeded, Duration: elapsed})
	}
	return results, failed
}

// plan returns the task names in execution order: dependencies before
// dependents, registration order used to break ties.
func (w *Workflow) plan() ([]string, error) {
	for _, name := range w.order {
		for _, dep := range w.tasks[name].DependsOn {
			if _, ok := w.tasks[dep]; !ok {
				return nil, fmt.Errorf("task %q depends on unknown task %q", name, dep)
			}
		}
	}

	position := make(map[string]int, len(w.order))
	for i, name := range w.order {
		position[name] = i
	}

	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int, len(w.order))
	var plan []string

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("dependency cycle involving task %q", name)
		}
		state[name] = visiting

		deps := append([]string(nil), w.tasks[name].DependsOn...)
		sort.Slice(deps, func(i, j int) bool { return position[deps[i]] < position[deps[j]] })
		for _, dep := range deps {
			if err := visit(dep); err != nil {
				return err
			}
		}

		state[name] = done
		plan = append(plan, name)
		return nil
	}

	for _, name := range w.order {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return plan, nil
}

// RunAll runs the full zone workflow: ingest, process, access.
func (p *Pipeline) RunAll(ctx context.Context) ([]TaskResult, error) {
	w := NewWorkflow(p.logger)
	steps := []Task{
		{Name: "ingest", Run: p.Ingest},
		{Name: "process", DependsOn: []string{"ingest"}, Run: p.Process},
		{Name: "access", DependsOn: []string{"process"}, Run: p.Access},
	}
	for _, t := range steps {
		if err := w.Add(t); err != nil {
			return nil, err
		}
	}
	return w.Run(ctx)
}
