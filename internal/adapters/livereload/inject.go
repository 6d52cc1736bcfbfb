package livereload

import (
	"net/http"
	"strings"
)

const maxInjectSize = 512 * 1024

// injectScript is a middleware that adds the client script to HTML pages.
func injectScript(next http.Handler, scriptPath string) http.Handler {
	tag := `<script async src="` + scriptPath + `"></script></body>`

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		isHTMLPage := path == "" || strings.HasSuffix(path, "/") || strings.HasSuffix(path, ".html")
		if !isHTMLPage {
			next.ServeHTTP(w, r)
			return
		}

		injector := &scriptInjector{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
			maxSize:        maxInjectSize,
			tag:            tag,
		}
		next.ServeHTTP(injector, r)
		injector.finalize()
	})
}

// scriptInjector buffers an HTML response so the client script can be inserted before
// </body>. Non-HTML and oversized responses are passed through untouched.
type scriptInjector struct {
	http.ResponseWriter
	statusCode    int
	buffer        []byte
	headerWritten bool
	passthrough   bool
	maxSize       int
	tag           string
}

func (s *scriptInjector) WriteHeader(code int) {
	s.statusCode = code
	if s.passthrough {
		s.ResponseWriter.WriteHeader(code)
		s.headerWritten = true
	}
}

func (s *scriptInjector) Write(data []byte) (int, error) {
	if !s.headerWritten && !s.passthrough && s.buffer == nil {
		contentType := s.ResponseWriter.Header().Get("Content-Type")
		isHTML := contentType == "" || strings.Contains(contentType, "text/html")
		if !isHTML || s.statusCode != http.StatusOK {
			s.passthrough = true
			s.ResponseWriter.WriteHeader(s.statusCode)
			s.headerWritten = true
			return s.ResponseWriter.Write(data)
		}
		s.buffer = make([]byte, 0, 64*1024)
	}

	if s.passthrough {
		return s.ResponseWriter.Write(data)
	}

	if len(s.buffer)+len(data) > s.maxSize {
		s.passthrough = true
		s.ResponseWriter.Header().Del("Content-Length")
		s.ResponseWriter.WriteHeader(s.statusCode)
		s.headerWritten = true

		if len(s.buffer) > 0 {
			if _, err := s.ResponseWriter.Write(s.buffer); err != nil {
				return 0, err
			}
		}
		return s.ResponseWriter.Write(data)
	}

	s.buffer = append(s.buffer, data...)
	return len(data), nil
}

// finalize must be called after the wrapped handler returns.
func (s *scriptInjector) finalize() {
	if s.passthrough || len(s.buffer) == 0 {
		if !s.headerWritten {
			s.ResponseWriter.WriteHeader(s.statusCode)
		}
		return
	}

	modified := strings.Replace(string(s.buffer), "</body>", s.tag, 1)

	s.ResponseWriter.Header().Del("Content-Length")
	s.ResponseWriter.WriteHeader(s.statusCode)
	_, _ = s.ResponseWriter.Write([]byte(modified))
}
