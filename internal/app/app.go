// Package app wires the pipeline tasks together and runs them once or under the
// development server.
package app

import (
	"context"
	"errors"
	"time"

	"go.trai.ch/press/internal/adapters/detector"
	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/press/internal/core/ports"
	"go.trai.ch/press/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// CleanComponent tags log lines of the clean task.
const CleanComponent = "Clean"

// jsonSetter is implemented by outputs that can switch to JSON.
type jsonSetter interface {
	SetJSON(enable bool)
}

// App represents the main application logic.
type App struct {
	configs      ports.ConfigResolver
	logger       ports.Logger
	scheduler    *scheduler.Scheduler
	renderer     ports.Renderer
	cleaner      ports.Cleaner
	transformers []ports.Transformer
	generator    ports.Generator
	server       ports.DevServer
	watcher      ports.Watcher

	mode           detector.Mode
	debounceWindow time.Duration
}

// New creates a new App instance.
func New(
	configs ports.ConfigResolver,
	log ports.Logger,
	sched *scheduler.Scheduler,
	renderer ports.Renderer,
	cleaner ports.Cleaner,
	transformers []ports.Transformer,
	generator ports.Generator,
	server ports.DevServer,
	watcher ports.Watcher,
) *App {
	return &App{
		configs:        configs,
		logger:         log,
		scheduler:      sched,
		renderer:       renderer,
		cleaner:        cleaner,
		transformers:   transformers,
		generator:      generator,
		server:         server,
		watcher:        watcher,
		mode:           detector.Detect(),
		debounceWindow: defaultDebounceWindow,
	}
}

// WithMode overrides the detected session mode.
func (a *App) WithMode(mode detector.Mode) *App {
	a.mode = mode
	return a
}

// WithDebounceWindow sets how long the development server waits for file
// changes to settle before rebuilding.
func (a *App) WithDebounceWindow(d time.Duration) *App {
	a.debounceWindow = d
	return a
}

// SetJSON switches the logger and the task renderer to JSON output.
func (a *App) SetJSON(enable bool) {
	for _, out := range []any{a.logger, a.renderer} {
		if s, ok := out.(jsonSetter); ok {
			s.SetJSON(enable)
		}
	}
}

// Config resolves the build configuration for req.
func (a *App) Config(req ports.ConfigRequest) (*domain.BuildConfig, error) {
	return a.configs.Resolve(req)
}

// NewTaskGraph builds the pipeline: clean, then every transform, then generate.
func (a *App) NewTaskGraph(cfg *domain.BuildConfig) (*domain.Graph, error) {
	g := domain.NewGraph()

	tasks := []*domain.Task{{
		Name: domain.TaskClean,
		Run: a.logged(CleanComponent, func(ctx context.Context) error {
			return a.cleaner.Clean(ctx, cfg)
		}),
	}}

	generateDeps := make([]string, 0, len(a.transformers))
	for _, t := range a.transformers {
		name := string(t.Class())
		generateDeps = append(generateDeps, name)
		tasks = append(tasks, &domain.Task{
			Name:         name,
			Dependencies: []string{domain.TaskClean},
			Run: a.logged(t.Name(), func(ctx context.Context) error {
				return t.Transform(ctx, cfg)
			}),
		})
	}

	// The generator logs and notifies its own failures.
	tasks = append(tasks, &domain.Task{
		Name:         domain.TaskGenerate,
		Dependencies: generateDeps,
		Run: func(ctx context.Context) error {
			_, err := a.generator.Generate(ctx, cfg)
			return err
		},
	})

	for _, t := range tasks {
		if err := g.AddTask(t); err != nil {
			return nil, err
		}
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// logged reports a task error through the logger, tagged with component,
// before handing it back to the scheduler.
func (a *App) logged(component string, fn domain.TaskFunc) domain.TaskFunc {
	return func(ctx context.Context) error {
		err := fn(ctx)
		if err != nil {
			a.logger.Log(err, err.Error(), component)
		}
		return err
	}
}

// Run executes target once. "build" runs the whole pipeline; any other task
// runs alone, without its prerequisites.
func (a *App) Run(ctx context.Context, cfg *domain.BuildConfig, target string) error {
	graph, err := a.NewTaskGraph(cfg)
	if err != nil {
		return err
	}

	targets, opts := plan(target)
	if _, ok := graph.GetTask(targets[0]); !ok {
		return zerr.With(domain.ErrTaskNotFound, "task", target)
	}

	if targets[0] == domain.TaskGenerate {
		if err := a.configs.Preflight(cfg); err != nil {
			return err
		}
	}

	return a.execute(ctx, graph, targets, opts...)
}

func plan(target string) ([]string, []scheduler.RunOption) {
	if target == domain.TaskBuild {
		return []string{domain.TaskGenerate}, nil
	}
	return []string{target}, []scheduler.RunOption{scheduler.Isolated()}
}

// execute runs targets with the renderer active for the duration of the run.
func (a *App) execute(ctx context.Context, graph *domain.Graph, targets []string, opts ...scheduler.RunOption) error {
	if err := a.renderer.Start(ctx); err != nil {
		return err
	}

	runErr := a.scheduler.Run(ctx, graph, targets, opts...)

	stopErr := a.renderer.Stop()
	if err := a.renderer.Wait(); err != nil {
		stopErr = errors.Join(stopErr, err)
	}

	if runErr != nil {
		return errors.Join(domain.ErrBuildFailed, runErr)
	}
	return stopErr
}
