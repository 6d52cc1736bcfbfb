// Package generator runs the external static-site generator.
package generator

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"slices"
	"strings"
	"time"

	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/press/internal/core/ports"
	"go.trai.ch/zerr"
)

// Component tags every generator log line.
const Component = "Hugo"

// FailedNotice is the banner shown in browsers when a build fails.
const FailedNotice = "Build Failed"

// waitDelay bounds how long a cancelled generator may keep its output pipes open
// through child processes it spawned.
const waitDelay = 2 * time.Second

var _ ports.Generator = (*Invoker)(nil)

// Invoker implements ports.Generator using os/exec.
type Invoker struct {
	logger   ports.Logger
	reloader ports.Reloader
}

// NewInvoker creates a new Invoker.
func NewInvoker(logger ports.Logger, reloader ports.Reloader) *Invoker {
	return &Invoker{
		logger:   logger,
		reloader: reloader,
	}
}

// Generate runs the generator with cfg.Args(). Output is streamed line by line to the
// logger as it arrives. Once the process has exited, whatever its status, a single
// reload is requested. A process that cannot be started never reloads.
func (i *Invoker) Generate(ctx context.Context, cfg *domain.BuildConfig) (domain.BuildResult, error) {
	name := cfg.Generator.Binary
	if name == "" {
		name = domain.DefaultGenerator
	}

	cmd := exec.CommandContext(ctx, name, cfg.Args()...) //nolint:gosec // configured generator
	cmd.Env = mergeEnvironment(os.Environ(), cfg.Generator.Env)
	cmd.WaitDelay = waitDelay

	sink := &lineSink{}
	stdout := newLogWriter(i.logger, sink)
	stderr := newLogWriter(i.logger, sink)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		spawnErr := zerr.With(zerr.Wrap(err, domain.ErrGeneratorSpawnFailed.Error()), "binary", name)
		i.logger.Log(spawnErr, spawnErr.Error(), Component)
		i.reloader.Notify(FailedNotice)
		return domain.BuildResult{ExitCode: -1, Err: spawnErr}, spawnErr
	}

	waitErr := cmd.Wait()
	stdout.Flush()
	stderr.Flush()

	result := domain.BuildResult{Lines: sink.Lines()}
	i.reloader.Reload()

	if waitErr == nil {
		return result, nil
	}

	result.ExitCode = -1
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
	}

	result.Err = zerr.With(zerr.Wrap(waitErr, domain.ErrGeneratorExitStatus.Error()), "exit_code", result.ExitCode)
	i.logger.Log(result.Err, result.Err.Error(), Component)
	i.reloader.Notify(FailedNotice)
	return result, result.Err
}

// mergeEnvironment overlays extra on the system environment. The result is sorted.
func mergeEnvironment(sysEnv, extra []string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(extra))
	for _, entry := range slices.Concat(sysEnv, extra) {
		if k, v, ok := strings.Cut(entry, "="); ok {
			envMap[k] = v
		}
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	slices.Sort(result)
	return result
}
