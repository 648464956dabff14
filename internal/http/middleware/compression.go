package middleware

import (
	"io"
	"net/http"

	"github.com/andybalholm/brotli"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// compressibleTypes are the response types worth compressing. The device
// page and the theme JSON are the only sizeable responses.
var compressibleTypes = []string{
	"text/html",
	"text/plain",
	"text/css",
	"application/javascript",
	"application/json",
	"application/problem+json",
}

// Compression returns a middleware that negotiates br, gzip or deflate.
func Compression(level int) func(http.Handler) http.Handler {
	c := chimiddleware.NewCompressor(level, compressibleTypes...)
	c.SetEncoder("br", func(w io.Writer, level int) io.Writer {
		return brotli.NewWriterLevel(w, brotliLevel(level))
	})
	return c.Handler
}

// brotliLevel maps a gzip-style level (1-9) onto brotli's 0-11 range.
func brotliLevel(level int) int {
	switch {
	case level < 0:
		return brotli.DefaultCompression
	case level > brotli.BestCompression:
		return brotli.BestCompression
	}
	return level
}
