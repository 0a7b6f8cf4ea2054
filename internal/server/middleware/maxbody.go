package middleware

import (
	"net/http"
)

// DefaultMaxBody is used when no limit is configured. A full form post is
// a few kilobytes.
const DefaultMaxBody = 64 << 10

// MaxBody limits the size of POST bodies. Requests that declare a larger
// Content-Length are rejected before the handler runs; others are cut off
// while reading.
func MaxBody(maxSize int64) Middleware {
	if maxSize <= 0 {
		maxSize = DefaultMaxBody
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}
			if r.ContentLength > maxSize {
				http.Error(w, "Request Entity Too Large", http.StatusRequestEntityTooLarge)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxSize)
			next.ServeHTTP(w, r)
		})
	}
}
