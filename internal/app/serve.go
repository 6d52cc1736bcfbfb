package app

import (
	"context"
	"slices"
	"sync"
	"time"

	"go.trai.ch/press/internal/adapters/detector"
	"go.trai.ch/press/internal/adapters/watcher"
	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/press/internal/engine/scheduler"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const (
	defaultDebounceWindow = watcher.DefaultDebounceWindow
	shutdownTimeout       = 5 * time.Second
)

// Serve builds the site, starts the live-reload server and rebuilds whatever a
// file change affects until ctx is cancelled. A failing initial build is
// reported but does not stop the server.
func (a *App) Serve(ctx context.Context, cfg *domain.BuildConfig) error {
	if err := a.configs.Preflight(cfg); err != nil {
		return err
	}

	graph, err := a.NewTaskGraph(cfg)
	if err != nil {
		return err
	}

	if err := a.execute(ctx, graph, []string{domain.TaskGenerate}); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		a.logger.Warn("initial build failed, watching for changes")
	}

	serveCfg := *cfg
	if a.mode == detector.ModeCI {
		serveCfg.Server.Open = false
	}

	url, err := a.server.Start(ctx, &serveCfg)
	if err != nil {
		return err
	}
	a.logger.Info("serving " + url)

	if err := a.watcher.Start(ctx, cfg.Src, cfg.Dest); err != nil {
		a.shutdown()
		return err
	}

	router := watcher.NewRouter(cfg)
	queue := newRebuildQueue(func(tasks []string) {
		_ = a.execute(ctx, graph, tasks, scheduler.Isolated())
	})
	debouncer := watcher.NewDebouncer(a.debounceWindow, func(paths []string) {
		if tasks := router.Route(paths...); len(tasks) > 0 {
			queue.submit(tasks)
		}
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for ev := range a.watcher.Events() {
			debouncer.Add(ev.Path)
		}
		if ctx.Err() == nil {
			return domain.ErrWatcherStopped
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		debouncer.Stop()
		_ = a.watcher.Stop()
		return a.shutdown()
	})

	return g.Wait()
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return zerr.Wrap(err, "failed to stop development server")
	}
	return nil
}

// rebuildQueue serializes rebuilds. Tasks submitted while a rebuild runs are
// merged and run together once it finishes.
type rebuildQueue struct {
	run func(tasks []string)

	mu      sync.Mutex
	running bool
	pending map[string]struct{}
}

func newRebuildQueue(run func(tasks []string)) *rebuildQueue {
	return &rebuildQueue{run: run, pending: make(map[string]struct{})}
}

// submit queues tasks. The caller that finds the queue idle runs rebuilds until
// nothing is pending; every other caller returns immediately.
func (q *rebuildQueue) submit(tasks []string) {
	q.mu.Lock()
	for _, t := range tasks {
		q.pending[t] = struct{}{}
	}
	if q.running {
		q.mu.Unlock()
		return
	}
	q.running = true
	q.mu.Unlock()

	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.running = false
			q.mu.Unlock()
			return
		}
		batch := make([]string, 0, len(q.pending))
		for t := range q.pending {
			batch = append(batch, t)
		}
		clear(q.pending)
		q.mu.Unlock()

		slices.Sort(batch)
		q.run(batch)
	}
}
