package app_test

import (
	"context"
	"io"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/press/internal/adapters/detector"
	"go.trai.ch/press/internal/adapters/linear"
	"go.trai.ch/press/internal/adapters/metrics"
	"go.trai.ch/press/internal/adapters/telemetry"
	"go.trai.ch/press/internal/app"
	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/press/internal/core/ports"
	"go.trai.ch/press/internal/core/ports/mocks"
	"go.trai.ch/press/internal/engine/scheduler"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

// recorder tracks when each task started and finished.
type recorder struct {
	mu       sync.Mutex
	started  map[string][]time.Time
	finished map[string][]time.Time
}

func newRecorder() *recorder {
	return &recorder{started: map[string][]time.Time{}, finished: map[string][]time.Time{}}
}

func (r *recorder) do(name string, d time.Duration, err error) error {
	r.mu.Lock()
	r.started[name] = append(r.started[name], time.Now())
	r.mu.Unlock()

	time.Sleep(d)

	r.mu.Lock()
	r.finished[name] = append(r.finished[name], time.Now())
	r.mu.Unlock()
	return err
}

func (r *recorder) startedAt(name string, run int) time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.started[name][run]
}

func (r *recorder) finishedAt(name string, run int) time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finished[name][run]
}

func (r *recorder) count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.started[name])
}

type fixture struct {
	cfg       *domain.BuildConfig
	configs   *mocks.MockConfigResolver
	logger    *mocks.MockLogger
	cleaner   *mocks.MockCleaner
	generator *mocks.MockGenerator
	server    *mocks.MockDevServer
	watcher   *mocks.MockWatcher
	rec       *recorder
	failing   map[string]error
	app       *app.App
}

var transformNames = map[domain.AssetClass]string{
	domain.ClassStyles:  "Styles",
	domain.ClassScripts: "Scripts",
	domain.ClassImages:  "Images",
	domain.ClassSVG:     "SVG Sprite",
}

var transformDurations = map[domain.AssetClass]time.Duration{
	domain.ClassStyles:  30 * time.Millisecond,
	domain.ClassScripts: 50 * time.Millisecond,
	domain.ClassImages:  20 * time.Millisecond,
	domain.ClassSVG:     40 * time.Millisecond,
}

func siteConfig() *domain.BuildConfig {
	return &domain.BuildConfig{
		Root:    "/site",
		Src:     "/site/src",
		Dest:    "/site/hugo",
		Styles:  domain.AssetPaths{Src: []string{"src/css/*.css"}, Dest: "/site/hugo/static/css"},
		Scripts: domain.AssetPaths{Src: []string{"src/js/*.js"}, Dest: "/site/hugo/static/js"},
		Images:  domain.AssetPaths{Src: []string{"src/img/**/*"}, Dest: "/site/hugo/static/img"},
		SVG:     domain.AssetPaths{Src: []string{"src/img/**/*.svg"}, Dest: "/site/hugo/layouts/partials/svg"},
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		cfg:       siteConfig(),
		configs:   mocks.NewMockConfigResolver(ctrl),
		logger:    mocks.NewMockLogger(ctrl),
		cleaner:   mocks.NewMockCleaner(ctrl),
		generator: mocks.NewMockGenerator(ctrl),
		server:    mocks.NewMockDevServer(ctrl),
		watcher:   mocks.NewMockWatcher(ctrl),
		rec:       newRecorder(),
		failing:   map[string]error{},
	}
	f.cfg.Server.Open = true

	f.cleaner.EXPECT().Clean(gomock.Any(), f.cfg).DoAndReturn(
		func(context.Context, *domain.BuildConfig) error {
			return f.rec.do(domain.TaskClean, 10*time.Millisecond, f.failing[domain.TaskClean])
		}).AnyTimes()

	f.generator.EXPECT().Generate(gomock.Any(), f.cfg).DoAndReturn(
		func(context.Context, *domain.BuildConfig) (domain.BuildResult, error) {
			err := f.rec.do(domain.TaskGenerate, 10*time.Millisecond, f.failing[domain.TaskGenerate])
			return domain.BuildResult{Err: err}, err
		}).AnyTimes()

	transformers := make([]ports.Transformer, 0, len(domain.AssetClasses()))
	for _, class := range domain.AssetClasses() {
		m := mocks.NewMockTransformer(ctrl)
		m.EXPECT().Name().Return(transformNames[class]).AnyTimes()
		m.EXPECT().Class().Return(class).AnyTimes()
		m.EXPECT().Transform(gomock.Any(), f.cfg).DoAndReturn(
			func(context.Context, *domain.BuildConfig) error {
				return f.rec.do(string(class), transformDurations[class], f.failing[string(class)])
			}).AnyTimes()
		transformers = append(transformers, m)
	}

	sched := scheduler.NewScheduler(telemetry.NewNoOpTracer(), metrics.NewNoopRecorder())
	renderer := linear.NewRenderer(io.Discard, io.Discard)

	f.app = app.New(f.configs, f.logger, sched, renderer, f.cleaner, transformers,
		f.generator, f.server, f.watcher).
		WithMode(detector.ModeInteractive).
		WithDebounceWindow(50 * time.Millisecond)
	return f
}

func TestApp_NewTaskGraph(t *testing.T) {
	f := newFixture(t)

	g, err := f.app.NewTaskGraph(f.cfg)
	require.NoError(t, err)
	assert.Equal(t, 6, g.TaskCount())

	generate, ok := g.GetTask(domain.TaskGenerate)
	require.True(t, ok)
	assert.Equal(t, []string{"styles", "scripts", "images", "svg"}, generate.Dependencies)

	for _, class := range domain.AssetClasses() {
		task, ok := g.GetTask(string(class))
		require.True(t, ok)
		assert.Equal(t, []string{domain.TaskClean}, task.Dependencies)
	}
}

func TestApp_BuildRunsPipelineInOrder(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		f.configs.EXPECT().Preflight(f.cfg).Return(nil)

		require.NoError(t, f.app.Run(context.Background(), f.cfg, domain.TaskBuild))

		cleanDone := f.rec.finishedAt(domain.TaskClean, 0)
		var transformsDone time.Time
		for _, class := range domain.AssetClasses() {
			name := string(class)
			assert.Equal(t, cleanDone, f.rec.startedAt(name, 0), "%s starts right after clean", name)
			if end := f.rec.finishedAt(name, 0); end.After(transformsDone) {
				transformsDone = end
			}
		}
		assert.Equal(t, transformsDone, f.rec.startedAt(domain.TaskGenerate, 0))
	})
}

func TestApp_FailingTransformDoesNotStopSiblings(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		f.configs.EXPECT().Preflight(f.cfg).Return(nil)

		scssErr := zerr.New("src/css/app.css:3:1: Expected \"}\"")
		f.failing[domain.TaskStyles] = scssErr
		f.logger.EXPECT().Log(scssErr, scssErr.Error(), "Styles")

		err := f.app.Run(context.Background(), f.cfg, domain.TaskBuild)
		require.ErrorIs(t, err, domain.ErrBuildFailed)
		require.ErrorIs(t, err, scssErr)

		assert.Equal(t, 1, f.rec.count(domain.TaskScripts))
		assert.Equal(t, 1, f.rec.count(domain.TaskImages))
		assert.Equal(t, 1, f.rec.count(domain.TaskSVG))
		assert.Equal(t, 0, f.rec.count(domain.TaskGenerate))
	})
}

func TestApp_GeneratorErrorIsNotLoggedTwice(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		f.configs.EXPECT().Preflight(f.cfg).Return(nil)
		f.failing[domain.TaskGenerate] = zerr.New("generator exited with non-zero status")

		// The logger mock has no Log expectation: a call would fail the test.
		err := f.app.Run(context.Background(), f.cfg, domain.TaskGenerate)
		require.ErrorIs(t, err, domain.ErrBuildFailed)
		assert.Equal(t, 1, f.rec.count(domain.TaskGenerate))
	})
}

func TestApp_SingleTaskRunsAlone(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)

		require.NoError(t, f.app.Run(context.Background(), f.cfg, domain.TaskStyles))

		assert.Equal(t, 1, f.rec.count(domain.TaskStyles))
		assert.Equal(t, 0, f.rec.count(domain.TaskClean))
		assert.Equal(t, 0, f.rec.count(domain.TaskScripts))
		assert.Equal(t, 0, f.rec.count(domain.TaskGenerate))
	})
}

func TestApp_CleanErrorIsLogged(t *testing.T) {
	f := newFixture(t)
	cleanErr := zerr.New("refusing to remove project root")
	f.failing[domain.TaskClean] = cleanErr
	f.logger.EXPECT().Log(cleanErr, cleanErr.Error(), app.CleanComponent)

	err := f.app.Run(context.Background(), f.cfg, domain.TaskClean)
	require.ErrorIs(t, err, cleanErr)
}

func TestApp_PreflightFailureIsFatal(t *testing.T) {
	f := newFixture(t)
	f.configs.EXPECT().Preflight(f.cfg).Return(zerr.New("generator binary not found"))

	err := f.app.Run(context.Background(), f.cfg, domain.TaskBuild)
	require.ErrorContains(t, err, "generator binary not found")
	assert.Equal(t, 0, f.rec.count(domain.TaskClean))
}

func TestApp_UnknownTarget(t *testing.T) {
	f := newFixture(t)

	err := f.app.Run(context.Background(), f.cfg, "deploy")
	require.ErrorContains(t, err, "task not found")
}

func TestApp_Config(t *testing.T) {
	f := newFixture(t)
	req := ports.ConfigRequest{Root: "/site", Env: "production"}
	f.configs.EXPECT().Resolve(req).Return(f.cfg, nil)

	cfg, err := f.app.Config(req)
	require.NoError(t, err)
	assert.Same(t, f.cfg, cfg)
}

type jsonLogger struct {
	*mocks.MockLogger
	json bool
}

func (l *jsonLogger) SetJSON(enable bool) { l.json = enable }

func TestApp_SetJSON(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := &jsonLogger{MockLogger: mocks.NewMockLogger(ctrl)}

	a := app.New(nil, log, nil, linear.NewRenderer(io.Discard, io.Discard), nil, nil, nil, nil, nil)
	a.SetJSON(true)
	assert.True(t, log.json)
}
