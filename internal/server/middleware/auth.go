package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
)

// AuthConfig holds Basic Auth credentials for the form server.
type AuthConfig struct {
	Enabled  bool
	User     string
	Password string
}

// Auth creates a Basic Auth middleware. Requests to excludePaths pass
// through. Failed attempts are logged with the client address.
func Auth(config AuthConfig, logger *slog.Logger, excludePaths ...string) Middleware {
	if !config.Enabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	excluded := make(map[string]bool, len(excludePaths))
	for _, p := range excludePaths {
		excluded[p] = true
	}

	wantUser := []byte(config.User)
	wantPass := []byte(config.Password)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if excluded[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			user, pass, ok := r.BasicAuth()
			if !ok {
				unauthorized(w)
				return
			}

			// Both comparisons always run so timing does not reveal which failed.
			userMatch := subtle.ConstantTimeCompare([]byte(user), wantUser) == 1
			passMatch := subtle.ConstantTimeCompare([]byte(pass), wantPass) == 1

			if !userMatch || !passMatch {
				logger.Warn("authentication failed",
					"path", r.URL.Path,
					"client", clientIP(r),
				)
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="cancerform", charset="UTF-8"`)
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}
