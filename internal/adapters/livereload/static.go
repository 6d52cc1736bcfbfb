package livereload

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// multiDir serves files from the first base directory that contains the requested path.
// A directory only matches when it holds an index.html.
type multiDir struct {
	dirs    []string
	servers []http.Handler
}

func newMultiDir(dirs []string) *multiDir {
	m := &multiDir{dirs: dirs, servers: make([]http.Handler, len(dirs))}
	for i, dir := range dirs {
		m.servers[i] = http.FileServer(http.Dir(dir))
	}
	return m
}

func (m *multiDir) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := filepath.FromSlash(path.Clean("/" + r.URL.Path))
	for i, dir := range m.dirs {
		if m.has(filepath.Join(dir, name)) {
			m.servers[i].ServeHTTP(w, r)
			return
		}
	}
	http.NotFound(w, r)
}

func (m *multiDir) has(p string) bool {
	info, err := os.Stat(p)
	if err != nil {
		return false
	}
	if !info.IsDir() {
		return true
	}
	_, err = os.Stat(filepath.Join(p, "index.html"))
	return err == nil
}
