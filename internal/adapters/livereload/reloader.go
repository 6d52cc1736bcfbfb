package livereload

import (
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/press/internal/core/ports"
)

// Reloader turns change events into client messages. Reloads are throttled: calls
// arriving while a reload is pending are folded into it.
type Reloader struct {
	hub     *Hub
	metrics ports.Metrics

	mu       sync.Mutex
	throttle time.Duration
	inject   bool
	notify   bool
	baseDirs []string
	timer    *time.Timer
	pending  map[string]struct{}
	seq      uint64
}

// NewReloader creates a Reloader broadcasting through hub.
func NewReloader(hub *Hub, metrics ports.Metrics) *Reloader {
	return &Reloader{
		hub:     hub,
		metrics: metrics,
		inject:  true,
		notify:  true,
		pending: make(map[string]struct{}),
	}
}

// Configure applies the server options of cfg.
func (r *Reloader) Configure(cfg *domain.ServerConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.throttle = cfg.ReloadThrottle
	r.inject = cfg.InjectChanges
	r.notify = cfg.Notify
	r.baseDirs = slices.Clone(cfg.BaseDirs)
}

// Notify shows message as a banner in connected browsers.
func (r *Reloader) Notify(message string) {
	r.mu.Lock()
	enabled := r.notify
	r.mu.Unlock()

	if !enabled {
		return
	}

	r.hub.Broadcast(Message{Type: TypeNotify, Message: message})
	r.metrics.IncNotify()
}

// Reload schedules a full page reload.
func (r *Reloader) Reload() {
	r.schedule(nil)
}

// Changed reports written files. Stylesheets are injected in place when change
// injection is enabled; source maps are ignored; anything else schedules a reload.
func (r *Reloader) Changed(paths ...string) {
	relevant := make([]string, 0, len(paths))
	for _, p := range paths {
		if filepath.Ext(p) != ".map" {
			relevant = append(relevant, p)
		}
	}
	if len(relevant) == 0 {
		return
	}

	r.mu.Lock()
	inject := r.inject
	r.mu.Unlock()

	if inject && allStylesheets(relevant) {
		urls := r.urlPaths(relevant)
		r.hub.Broadcast(Message{Type: TypeInject, ID: r.nextID(urls), Paths: urls})
		r.metrics.IncReload(TypeInject)
		return
	}

	r.schedule(relevant)
}

func (r *Reloader) schedule(paths []string) {
	r.mu.Lock()
	for _, p := range paths {
		r.pending[p] = struct{}{}
	}

	if r.timer != nil {
		r.mu.Unlock()
		return
	}

	if r.throttle <= 0 {
		r.mu.Unlock()
		r.flush()
		return
	}

	r.timer = time.AfterFunc(r.throttle, r.flush)
	r.mu.Unlock()
}

func (r *Reloader) flush() {
	r.mu.Lock()
	paths := make([]string, 0, len(r.pending))
	for p := range r.pending {
		paths = append(paths, p)
	}
	clear(r.pending)
	r.timer = nil
	r.mu.Unlock()

	slices.Sort(paths)
	r.hub.Broadcast(Message{Type: TypeReload, ID: r.nextID(paths)})
	r.metrics.IncReload(TypeReload)
}

// Stop cancels a pending reload.
func (r *Reloader) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	clear(r.pending)
}

// nextID derives a message id from the changed paths and a sequence number, so
// clients can tell repeated reloads of the same files apart.
func (r *Reloader) nextID(paths []string) string {
	r.mu.Lock()
	r.seq++
	seq := r.seq
	r.mu.Unlock()

	d := xxhash.New()
	for _, p := range paths {
		_, _ = d.WriteString(p)
		_, _ = d.Write([]byte{0})
	}
	_, _ = d.WriteString(strconv.FormatUint(seq, 10))
	return strconv.FormatUint(d.Sum64(), 16)
}

// urlPaths maps file paths to the URL paths they are served under. Files outside
// every base directory are reported by name, which is what the client matches on.
func (r *Reloader) urlPaths(paths []string) []string {
	r.mu.Lock()
	baseDirs := r.baseDirs
	r.mu.Unlock()

	urls := make([]string, 0, len(paths))
	for _, p := range paths {
		urls = append(urls, urlPath(baseDirs, p))
	}
	return urls
}

func urlPath(baseDirs []string, p string) string {
	for _, dir := range baseDirs {
		rel, err := filepath.Rel(dir, p)
		if err == nil && !strings.HasPrefix(rel, "..") {
			return "/" + filepath.ToSlash(rel)
		}
	}
	return filepath.Base(p)
}

func allStylesheets(paths []string) bool {
	for _, p := range paths {
		if filepath.Ext(p) != ".css" {
			return false
		}
	}
	return true
}
