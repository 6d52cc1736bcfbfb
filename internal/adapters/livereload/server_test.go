package livereload_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/press/internal/adapters/livereload"
	"go.trai.ch/press/internal/adapters/metrics"
	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/press/internal/core/ports"
)

var _ ports.DevServer = (*livereload.Server)(nil)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func startServer(t *testing.T, opts domain.ServerConfig, m ports.Metrics) (*livereload.Server, string) {
	t.Helper()

	srv := livereload.NewServer(m)
	url, err := srv.Start(context.Background(), &domain.BuildConfig{Server: opts})
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv, url
}

func get(t *testing.T, url string, header http.Header) (*http.Response, string) {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	require.NoError(t, err)
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(url, "http") + "/__press/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })

	hello := read(t, conn)
	require.Equal(t, livereload.TypeHello, hello.Type)
	require.NotEmpty(t, hello.ID)
	return conn
}

func read(t *testing.T, conn *websocket.Conn) livereload.Message {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg livereload.Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestServer_StaticFirstMatchWins(t *testing.T) {
	tmp := t.TempDir()
	build := t.TempDir()
	writeFile(t, filepath.Join(tmp, "css", "app.min.css"), "tmp")
	writeFile(t, filepath.Join(build, "css", "app.min.css"), "build")
	writeFile(t, filepath.Join(build, "index.html"), "<html><body>home</body></html>")

	_, url := startServer(t, domain.ServerConfig{BaseDirs: []string{tmp, build}}, metrics.NoopRecorder{})

	_, body := get(t, url+"/css/app.min.css", nil)
	assert.Equal(t, "tmp", body)

	resp, body := get(t, url+"/", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `<script async src="/__press/client.js"></script></body>`)

	resp, _ = get(t, url+"/nope.txt", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_ClientScript(t *testing.T) {
	_, url := startServer(t, domain.ServerConfig{}, metrics.NoopRecorder{})

	resp, body := get(t, url+"/__press/client.js", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "javascript")
	assert.Contains(t, body, "/__press/ws")
}

func TestServer_Messages(t *testing.T) {
	tmp := t.TempDir()
	srv, url := startServer(t, domain.ServerConfig{
		BaseDirs:      []string{tmp},
		InjectChanges: true,
		Notify:        true,
	}, metrics.NoopRecorder{})

	conn := dial(t, url)

	srv.Notify("Build Failed")
	msg := read(t, conn)
	assert.Equal(t, livereload.TypeNotify, msg.Type)
	assert.Equal(t, "Build Failed", msg.Message)

	srv.Changed(filepath.Join(tmp, "css", "app.min.css"))
	msg = read(t, conn)
	assert.Equal(t, livereload.TypeInject, msg.Type)
	assert.Equal(t, []string{"/css/app.min.css"}, msg.Paths)
	assert.NotEmpty(t, msg.ID)

	srv.Reload()
	msg = read(t, conn)
	assert.Equal(t, livereload.TypeReload, msg.Type)
}

func TestServer_Compress(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.html"), "<html><body>"+strings.Repeat("press ", 1000)+"</body></html>")

	_, url := startServer(t, domain.ServerConfig{BaseDirs: []string{dir}, Compress: true}, metrics.NoopRecorder{})

	resp, _ := get(t, url+"/", http.Header{"Accept-Encoding": []string{"gzip"}})
	assert.Equal(t, "gzip", resp.Header.Get("Content-Encoding"))
}

func TestServer_MetricsEndpoint(t *testing.T) {
	rec := metrics.NewPrometheusRecorder(nil)
	_, url := startServer(t, domain.ServerConfig{MetricsPath: "/__press/metrics"}, rec)

	resp, body := get(t, url+"/__press/metrics", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "press_livereload_clients")
}

func TestServer_Open(t *testing.T) {
	var opened string
	restore := livereload.SetOpenURL(func(u string) error {
		opened = u
		return nil
	})
	defer restore()

	_, url := startServer(t, domain.ServerConfig{Open: true}, metrics.NoopRecorder{})
	assert.Equal(t, url, opened)
}

func TestServer_HTTPS(t *testing.T) {
	_, url := startServer(t, domain.ServerConfig{HTTPS: true}, metrics.NoopRecorder{})
	assert.True(t, strings.HasPrefix(url, "https://localhost:"))
}

func TestServer_ShutdownWithoutStart(t *testing.T) {
	srv := livereload.NewServer(metrics.NoopRecorder{})
	require.NoError(t, srv.Shutdown(context.Background()))

	srv.Reload()
	srv.Notify("ignored")
}

func TestServer_PortInUse(t *testing.T) {
	_, url := startServer(t, domain.ServerConfig{}, metrics.NoopRecorder{})

	p, err := strconv.Atoi(url[strings.LastIndex(url, ":")+1:])
	require.NoError(t, err)

	second := livereload.NewServer(metrics.NoopRecorder{})
	_, err = second.Start(context.Background(), &domain.BuildConfig{Server: domain.ServerConfig{Port: p}})
	require.ErrorContains(t, err, domain.ErrServerStartFailed.Error())
}
