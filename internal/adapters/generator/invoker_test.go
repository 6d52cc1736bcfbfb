package generator_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/press/internal/adapters/generator"
	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/press/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func shellConfig(script string, env ...string) *domain.BuildConfig {
	return &domain.BuildConfig{
		Env:           domain.Development,
		GeneratorArgs: domain.GeneratorArgs{Default: []string{"-c", script}},
		Generator:     domain.GeneratorConfig{Binary: "sh", Env: env},
	}
}

func TestInvoker_Generate_StreamsLines(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockReloader := mocks.NewMockReloader(ctrl)

	gomock.InOrder(
		mockLogger.EXPECT().Log(nil, "Building sites …", generator.Component),
		mockLogger.EXPECT().Log(nil, "Total in 42 ms", generator.Component),
		mockReloader.EXPECT().Reload().Times(1),
	)

	inv := generator.NewInvoker(mockLogger, mockReloader)
	result, err := inv.Generate(context.Background(), shellConfig("echo 'Building sites …'; echo 'Total in 42 ms'"))
	require.NoError(t, err)

	assert.True(t, result.Succeeded())
	assert.Equal(t, []string{"Building sites …", "Total in 42 ms"}, result.Lines)
}

func TestInvoker_Generate_FragmentedOutput(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockReloader := mocks.NewMockReloader(ctrl)

	mockLogger.EXPECT().Log(nil, "part1part2", generator.Component).Times(1)
	mockLogger.EXPECT().Log(nil, "tail", generator.Component).Times(1)
	mockReloader.EXPECT().Reload().Times(1)

	inv := generator.NewInvoker(mockLogger, mockReloader)
	_, err := inv.Generate(context.Background(), shellConfig("printf part1; sleep 0.1; echo part2; printf tail"))
	require.NoError(t, err)
}

func TestInvoker_Generate_Stderr(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockReloader := mocks.NewMockReloader(ctrl)

	mockLogger.EXPECT().Log(nil, "WARN deprecated option", generator.Component).Times(1)
	mockReloader.EXPECT().Reload().Times(1)

	inv := generator.NewInvoker(mockLogger, mockReloader)
	_, err := inv.Generate(context.Background(), shellConfig("echo 'WARN deprecated option' >&2"))
	require.NoError(t, err)
}

func TestInvoker_Generate_ForwardsEnvironment(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockReloader := mocks.NewMockReloader(ctrl)

	mockLogger.EXPECT().Log(nil, "production", generator.Component).Times(1)
	mockReloader.EXPECT().Reload().Times(1)

	inv := generator.NewInvoker(mockLogger, mockReloader)
	_, err := inv.Generate(context.Background(), shellConfig(`echo "$HUGO_ENV"`, "HUGO_ENV=production"))
	require.NoError(t, err)

	_, set := os.LookupEnv("HUGO_ENV")
	assert.False(t, set, "process environment must not be modified")
}

func TestInvoker_Generate_FailingExitReloadsOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockReloader := mocks.NewMockReloader(ctrl)

	mockLogger.EXPECT().Log(nil, "Error: unable to locate config file", generator.Component).Times(1)
	mockLogger.EXPECT().Log(gomock.Not(nil), gomock.Any(), generator.Component).
		Do(func(err error, msg string, _ string) {
			assert.ErrorContains(t, err, domain.ErrGeneratorExitStatus.Error())
			assert.Contains(t, msg, "exit status 255")
		}).Times(1)
	mockReloader.EXPECT().Reload().Times(1)
	mockReloader.EXPECT().Notify(generator.FailedNotice).Times(1)

	inv := generator.NewInvoker(mockLogger, mockReloader)
	result, err := inv.Generate(context.Background(),
		shellConfig("echo 'Error: unable to locate config file' >&2; exit 255"))
	require.Error(t, err)
	require.ErrorContains(t, err, domain.ErrGeneratorExitStatus.Error())

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, 255, zErr.Metadata()["exit_code"])

	assert.Equal(t, 255, result.ExitCode)
	assert.False(t, result.Succeeded())
}

func TestInvoker_Generate_SpawnFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockReloader := mocks.NewMockReloader(ctrl)

	gomock.InOrder(
		mockLogger.EXPECT().Log(gomock.Any(), gomock.Any(), generator.Component).
			Do(func(err error, _ string, _ string) {
				assert.ErrorContains(t, err, domain.ErrGeneratorSpawnFailed.Error())
			}),
		mockReloader.EXPECT().Notify(generator.FailedNotice),
	)
	mockReloader.EXPECT().Reload().Times(0)

	inv := generator.NewInvoker(mockLogger, mockReloader)
	cfg := shellConfig("")
	cfg.Generator.Binary = "press-missing-generator-xyz"

	result, err := inv.Generate(context.Background(), cfg)
	require.ErrorContains(t, err, domain.ErrGeneratorSpawnFailed.Error())
	assert.Equal(t, -1, result.ExitCode)
}

func TestInvoker_Generate_AbsoluteBinary(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockReloader := mocks.NewMockReloader(ctrl)

	binDir := t.TempDir()
	script := filepath.Join(binDir, "fake-hugo")
	//nolint:gosec // Test requires executable file
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho \"args: $*\"\n"), 0o700))

	mockLogger.EXPECT().Log(nil, "args: -v --source /site/hugo", generator.Component).Times(1)
	mockReloader.EXPECT().Reload().Times(1)

	cfg := &domain.BuildConfig{
		Env: domain.Production,
		GeneratorArgs: domain.GeneratorArgs{
			Default:     []string{"-v", "--source", "/site/hugo"},
			Development: []string{"--buildDrafts"},
		},
		Generator: domain.GeneratorConfig{Binary: script},
	}

	inv := generator.NewInvoker(mockLogger, mockReloader)
	_, err := inv.Generate(context.Background(), cfg)
	require.NoError(t, err)
}

func TestInvoker_Generate_Canceled(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockReloader := mocks.NewMockReloader(ctrl)

	mockLogger.EXPECT().Log(gomock.Not(nil), gomock.Any(), generator.Component).Times(1)
	mockReloader.EXPECT().Reload().Times(1)
	mockReloader.EXPECT().Notify(generator.FailedNotice).Times(1)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	// The background sleep outlives the killed shell and keeps the output pipes open.
	start := time.Now()
	inv := generator.NewInvoker(mockLogger, mockReloader)
	_, err := inv.Generate(ctx, shellConfig("sleep 10 & wait"))
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}
