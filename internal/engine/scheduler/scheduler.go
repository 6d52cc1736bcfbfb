// Package scheduler runs the tasks of a dependency graph, starting each task as
// soon as all of its prerequisites completed.
package scheduler

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"
	"time"

	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/press/internal/core/ports"
	"go.trai.ch/zerr"
)

// RunOption configures a single Run.
type RunOption func(*runConfig)

type runConfig struct {
	isolated    bool
	parallelism int
}

// Isolated runs only the targets themselves. Dependencies between targets are
// still respected; prerequisites outside the target set are not run.
func Isolated() RunOption {
	return func(c *runConfig) {
		c.isolated = true
	}
}

// WithParallelism limits the number of tasks running at once. The default runs
// every ready task immediately.
func WithParallelism(n int) RunOption {
	return func(c *runConfig) {
		c.parallelism = n
	}
}

// Scheduler manages the execution of tasks in the dependency graph.
type Scheduler struct {
	tracer  ports.Tracer
	metrics ports.Metrics

	mu         sync.RWMutex
	taskStatus map[string]domain.TaskStatus
}

// NewScheduler creates a new Scheduler.
func NewScheduler(tracer ports.Tracer, metrics ports.Metrics) *Scheduler {
	return &Scheduler{
		tracer:     tracer,
		metrics:    metrics,
		taskStatus: make(map[string]domain.TaskStatus),
	}
}

// Statuses returns a copy of the task statuses of the last run.
func (s *Scheduler) Statuses() map[string]domain.TaskStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.taskStatus)
}

func (s *Scheduler) resetStatuses(tasks []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.taskStatus = make(map[string]domain.TaskStatus, len(tasks))
	for _, name := range tasks {
		s.taskStatus[name] = domain.StatusPending
	}
}

func (s *Scheduler) updateStatus(name string, status domain.TaskStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taskStatus[name] = status
}

// Run executes targets together with their prerequisites. A task starts once
// every prerequisite in the run is Done; when one fails, the tasks depending on
// it are marked Failed without running. The returned error joins the error of
// every failed task.
func (s *Scheduler) Run(ctx context.Context, graph *domain.Graph, targets []string, opts ...RunOption) error {
	cfg := runConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	if !graph.Validated() {
		if err := graph.Validate(); err != nil {
			return err
		}
	}

	selected, err := selectTasks(graph, targets, cfg.isolated)
	if err != nil {
		return err
	}

	planned := make([]string, 0, len(selected))
	deps := make(map[string][]string, len(selected))
	for task := range graph.Walk() {
		if selected[task.Name] {
			planned = append(planned, task.Name)
			deps[task.Name] = slices.Clone(task.Dependencies)
		}
	}

	s.tracer.EmitPlan(ctx, planned, deps, targets)
	s.resetStatuses(planned)

	parallelism := cfg.parallelism
	if parallelism <= 0 {
		parallelism = len(planned)
	}

	state := s.newRunState(ctx, graph, selected, planned, parallelism)
	return state.loop()
}

// selectTasks returns the names taking part in a run.
func selectTasks(graph *domain.Graph, targets []string, isolated bool) (map[string]bool, error) {
	selected := make(map[string]bool)
	queue := make([]string, 0, len(targets))

	for _, name := range targets {
		if _, ok := graph.GetTask(name); !ok {
			return nil, zerr.With(domain.ErrTaskNotFound, "task", name)
		}
		if !selected[name] {
			selected[name] = true
			queue = append(queue, name)
		}
	}

	if isolated {
		return selected, nil
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		task, _ := graph.GetTask(current)
		for _, dep := range task.Dependencies {
			if !selected[dep] {
				selected[dep] = true
				queue = append(queue, dep)
			}
		}
	}

	return selected, nil
}

type result struct {
	task     string
	err      error
	duration time.Duration
}

type runState struct {
	s           *Scheduler
	ctx         context.Context
	graph       *domain.Graph
	planned     []string
	tasks       map[string]domain.Task
	inDegree    map[string]int
	ready       []string
	active      int
	parallelism int
	resultsCh   chan result
	errs        error
	skipped     map[string]bool
}

func (s *Scheduler) newRunState(
	ctx context.Context,
	graph *domain.Graph,
	selected map[string]bool,
	planned []string,
	parallelism int,
) *runState {
	tasks := make(map[string]domain.Task, len(planned))
	inDegree := make(map[string]int, len(planned))
	var ready []string

	// planned is in topological order, so the initial ready queue is deterministic.
	for _, name := range planned {
		task, _ := graph.GetTask(name)
		tasks[name] = task

		degree := 0
		for _, dep := range task.Dependencies {
			if selected[dep] {
				degree++
			}
		}
		inDegree[name] = degree
		if degree == 0 {
			ready = append(ready, name)
		}
	}

	return &runState{
		s:           s,
		ctx:         ctx,
		graph:       graph,
		planned:     planned,
		tasks:       tasks,
		inDegree:    inDegree,
		ready:       ready,
		parallelism: parallelism,
		resultsCh:   make(chan result, len(planned)),
		skipped:     make(map[string]bool),
	}
}

func (state *runState) loop() error {
	for !state.isDone() {
		state.schedule()

		if state.isDone() {
			break
		}

		if state.ctx.Err() != nil && state.active == 0 {
			state.abandonPending()
			return errors.Join(state.errs, state.ctx.Err())
		}

		if state.ctx.Err() != nil {
			state.handleResult(<-state.resultsCh)
			continue
		}

		select {
		case res := <-state.resultsCh:
			state.handleResult(res)
		case <-state.ctx.Done():
		}
	}

	if state.ctx.Err() != nil {
		state.abandonPending()
		state.errs = errors.Join(state.errs, state.ctx.Err())
	}
	return state.errs
}

func (state *runState) isDone() bool {
	return state.active == 0 && len(state.ready) == 0
}

func (state *runState) schedule() {
	for len(state.ready) > 0 && state.active < state.parallelism && state.ctx.Err() == nil {
		name := state.ready[0]
		state.ready = state.ready[1:]

		state.active++
		state.s.updateStatus(name, domain.StatusRunning)

		t := state.tasks[name]
		go state.execute(&t)
	}
}

func (state *runState) execute(t *domain.Task) {
	// The span ends before the result is sent so the renderer has printed the
	// task when the run returns.
	res := func() result {
		ctx, span := state.s.tracer.Start(state.ctx, t.Name)
		defer span.End()

		start := time.Now()
		var err error
		if t.Run != nil {
			err = t.Run(ctx)
		}
		if err != nil {
			span.RecordError(err)
		}
		return result{task: t.Name, err: err, duration: time.Since(start)}
	}()

	state.resultsCh <- res
}

func (state *runState) handleResult(res result) {
	state.active--

	if res.err != nil {
		state.s.updateStatus(res.task, domain.StatusFailed)
		state.s.metrics.ObserveTask(res.task, res.duration, domain.StatusFailed)
		wrapped := zerr.With(zerr.Wrap(res.err, domain.ErrTaskExecutionFailed.Error()), "task", res.task)
		state.errs = errors.Join(state.errs, wrapped)
		state.failDependents(res.task)
		return
	}

	state.s.updateStatus(res.task, domain.StatusDone)
	state.s.metrics.ObserveTask(res.task, res.duration, domain.StatusDone)

	for _, dep := range state.graph.Dependents(res.task) {
		if _, ok := state.tasks[dep]; !ok {
			continue
		}
		state.inDegree[dep]--
		if state.inDegree[dep] == 0 {
			state.ready = append(state.ready, dep)
		}
	}
}

// failDependents marks every task in the run that transitively depends on
// failed as Failed. Those tasks never become ready.
func (state *runState) failDependents(failed string) {
	queue := []string{failed}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, dep := range state.graph.Dependents(current) {
			if _, ok := state.tasks[dep]; !ok || state.skipped[dep] {
				continue
			}
			state.skipped[dep] = true
			queue = append(queue, dep)

			state.s.updateStatus(dep, domain.StatusFailed)
			err := zerr.With(zerr.With(domain.ErrDependencyFailed, "task", dep), "dependency", current)
			state.errs = errors.Join(state.errs, err)
		}
	}
}

// abandonPending marks the tasks a cancelled run never started as Failed, so no
// status stays Pending once Run returns. The context error already explains them.
func (state *runState) abandonPending() {
	state.ready = nil

	state.s.mu.Lock()
	defer state.s.mu.Unlock()
	for _, name := range state.planned {
		if state.s.taskStatus[name] == domain.StatusPending {
			state.s.taskStatus[name] = domain.StatusFailed
		}
	}
}
