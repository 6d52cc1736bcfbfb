package livereload

import (
	"context"
	"crypto/tls"
	_ "embed"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/pkg/browser"
	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/press/internal/core/ports"
	"go.trai.ch/zerr"
)

//go:embed client.js
var clientScript []byte

const (
	socketPath = domain.ServerPrefix + "/ws"
	scriptPath = domain.ServerPrefix + "/client.js"
)

// openURL is swapped in tests.
var openURL = browser.OpenURL

// Server is the development server: static files over the configured base
// directories plus the live-reload channel.
type Server struct {
	*Reloader

	hub     *Hub
	metrics ports.Metrics

	mu    sync.Mutex
	srv   *http.Server
	errCh chan error
}

// NewServer creates a Server. Until Start is called it accepts reload and
// notify calls and drops them.
func NewServer(metrics ports.Metrics) *Server {
	hub := NewHub(metrics)
	return &Server{
		Reloader: NewReloader(hub, metrics),
		hub:      hub,
		metrics:  metrics,
	}
}

// Start listens on the configured port and serves in the background.
func (s *Server) Start(ctx context.Context, cfg *domain.BuildConfig) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.srv != nil {
		return "", zerr.Wrap(errors.New("already running"), domain.ErrServerStartFailed.Error())
	}

	opts := &cfg.Server
	s.Configure(opts)

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", net.JoinHostPort("", strconv.Itoa(opts.Port)))
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrServerStartFailed.Error()), "port", opts.Port)
	}

	scheme := "http"
	if opts.HTTPS {
		tlsCfg, err := tlsConfig(opts)
		if err != nil {
			_ = ln.Close()
			return "", err
		}
		ln = tls.NewListener(ln, tlsCfg)
		scheme = "https"
	}

	port := opts.Port
	if addr, ok := ln.Addr().(*net.TCPAddr); ok {
		port = addr.Port
	}
	url := fmt.Sprintf("%s://localhost:%d", scheme, port)

	srv := &http.Server{
		Handler:           s.handler(opts),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.srv = srv
	s.errCh = errCh

	if opts.Open {
		_ = openURL(url)
	}
	return url, nil
}

// Shutdown disconnects clients and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv, errCh := s.srv, s.errCh
	s.srv, s.errCh = nil, nil
	s.mu.Unlock()

	s.Stop()
	s.hub.Shutdown()

	if srv == nil {
		return nil
	}

	err := srv.Shutdown(ctx)
	if serveErr := <-errCh; serveErr != nil {
		err = errors.Join(err, zerr.Wrap(serveErr, domain.ErrServerStartFailed.Error()))
	}
	return err
}

func (s *Server) handler(opts *domain.ServerConfig) http.Handler {
	var static http.Handler = injectScript(newMultiDir(opts.BaseDirs), scriptPath)
	if opts.Compress {
		static = gzhttp.GzipHandler(static)
	}

	mux := http.NewServeMux()
	mux.Handle(socketPath, s.hub)
	mux.HandleFunc(scriptPath, serveClient)
	if h, ok := s.metrics.(interface{ Handler() http.Handler }); ok && opts.MetricsPath != "" {
		mux.Handle(opts.MetricsPath, h.Handler())
	}
	mux.Handle("/", static)
	return mux
}

func serveClient(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(clientScript)
}
