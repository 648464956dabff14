package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/jmylchreest/auratheme/internal/observability"
)

// healthPaths are polled by supervisors and only logged when they fail.
var healthPaths = map[string]bool{
	"/livez":  true,
	"/health": true,
}

// statusRecorder remembers the status and body size sent through it.
type statusRecorder struct {
	http.ResponseWriter
	status  int
	written int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status != 0 {
		return
	}
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.WriteHeader(http.StatusOK)
	}
	n, err := s.ResponseWriter.Write(b)
	s.written += n
	return n, err
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// code is the status sent; a handler that wrote nothing sent 200.
func (s *statusRecorder) code() int {
	if s.status == 0 {
		return http.StatusOK
	}
	return s.status
}

func statusLevel(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	}
	return slog.LevelInfo
}

// NewLoggingMiddleware puts a logger tagged with the request ID in the
// request context and logs the finished request. Failures are always
// logged. Successful requests are logged while request logging is on,
// except health polls.
func NewLoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqLogger := logger
			if id := GetRequestID(r.Context()); id != "" {
				reqLogger = observability.WithRequestID(logger, id)
			}
			r = r.WithContext(observability.ContextWithLogger(r.Context(), reqLogger))

			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			status := rec.code()
			if status < 400 && (healthPaths[r.URL.Path] || !observability.IsRequestLoggingEnabled()) {
				return
			}

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int("bytes_out", rec.written),
				slog.Duration("duration", time.Since(start)),
				slog.String("remote_addr", r.RemoteAddr),
			}
			if r.ContentLength > 0 {
				attrs = append(attrs, slog.Int64("bytes_in", r.ContentLength))
			}
			reqLogger.LogAttrs(r.Context(), statusLevel(status), "http request", attrs...)
		})
	}
}
