package logger_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/press/internal/adapters/logger"
	"go.trai.ch/press/internal/core/ports"
	"go.trai.ch/press/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

// newTestLogger creates a logger with an injected bytes.Buffer for isolated testing.
// It also sets NO_COLOR=1 to ensure deterministic output without ANSI escape codes.
func newTestLogger(t *testing.T, notifier ports.Notifier) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New(notifier)
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Log(t *testing.T) {
	tests := []struct {
		name       string
		message    string
		component  string
		goldenName string
	}{
		{
			name:       "two lines",
			message:    "a\nb",
			component:  "X",
			goldenName: "log_two_lines",
		},
		{
			name:       "single line",
			message:    "Start building sites …",
			component:  "Hugo",
			goldenName: "log_single_line",
		},
		{
			name:       "comma artifacts",
			message:    ",Total in 42 ms,",
			component:  "Hugo",
			goldenName: "log_comma_artifacts",
		},
		{
			name:       "multi word component",
			message:    "3 symbols\nsprite.symbol.svg",
			component:  "SVG Sprite",
			goldenName: "log_multi_word_component",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t, nil)
			lg.Log(nil, tt.message, tt.component)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_LogTwoLinesGutter(t *testing.T) {
	lg, buf := newTestLogger(t, nil)
	lg.Log(nil, "a\nb", "X")

	var lines []string
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	require.Len(t, lines, 2)
	assert.Equal(t, "[X] a", lines[0])
	assert.Equal(t, "    b", lines[1])
}

func TestLogger_LogErrorNotifiesBeforeWriting(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockNotifier(ctrl)

	lg, buf := newTestLogger(t, notifier)

	notifier.EXPECT().Notify("unexpected token").Do(func(string) {
		assert.Equal(t, "\a", buf.String(), "only the bell is written before notifying")
	})

	lg.Log(errors.New("unexpected token"), "app.css:3\nunexpected token", "Styles")

	g := goldie.New(t)
	g.Assert(t, "log_error", buf.Bytes())
}

func TestLogger_LogWithoutNotifier(t *testing.T) {
	lg, buf := newTestLogger(t, nil)

	assert.NotPanics(t, func() {
		lg.Log(errors.New("boom"), "boom", "Scripts")
	})
	assert.Equal(t, "\a[Scripts] boom\n", buf.String())
}

func TestLogger_LogJSON(t *testing.T) {
	lg, buf := newTestLogger(t, nil)
	lg.SetJSON(true)

	lg.Log(errors.New("exit status 1"), "line one\nline two", "Hugo")

	var records []map[string]any
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		records = append(records, rec)
	}

	require.Len(t, records, 2)
	assert.Equal(t, "line one", records[0]["msg"])
	assert.Equal(t, "Hugo", records[0]["component"])
	assert.Equal(t, "ERROR", records[0]["level"])
	assert.Equal(t, "exit status 1", records[0]["error"])
	assert.Equal(t, true, records[1]["continued"])
	assert.NotContains(t, buf.String(), "\a")
}

func TestLogger_Info(t *testing.T) {
	lg, buf := newTestLogger(t, nil)
	lg.Info("serving on http://localhost:3000")

	g := goldie.New(t)
	g.Assert(t, "info_basic", buf.Bytes())
}

func TestLogger_Warn(t *testing.T) {
	lg, buf := newTestLogger(t, nil)
	lg.Warn("no inputs matched")

	g := goldie.New(t)
	g.Assert(t, "warn_basic", buf.Bytes())
}

func TestLogger_Error(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		goldenName string
	}{
		{
			name:       "standard error",
			err:        errors.New("something broke"),
			goldenName: "error_standard",
		},
		{
			name:       "wrapped zerr",
			err:        zerr.Wrap(errors.New("exec: \"hugo\": executable file not found in $PATH"), "failed to start generator"),
			goldenName: "error_wrapped",
		},
		{
			name:       "metadata only wrapper",
			err:        zerr.With(errors.New("disk full"), "path", "/tmp"),
			goldenName: "error_metadata_only",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t, nil)
			lg.Error(tt.err)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_ErrorNil(t *testing.T) {
	lg, buf := newTestLogger(t, nil)
	lg.Error(nil)
	assert.Empty(t, buf.String())
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, logger.SplitMessage(",a\nb,"))
	assert.Equal(t, []string{",a"}, logger.SplitMessage(",,a"))
	assert.Equal(t, []string{""}, logger.SplitMessage(""))
}
