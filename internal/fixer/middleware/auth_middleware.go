package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
)

// APITokenHeader carries the operator's shared secret.
const APITokenHeader = "X-API-Token"

// APITokenMiddleware gates every fix endpoint behind a shared-secret
// header. The comparison is constant time; a missing or mismatched token
// never reaches the handlers.
func APITokenMiddleware(token string, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(APITokenHeader)
			if provided == "" {
				logger.WarnContext(r.Context(), "API token header missing", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
				logger.WarnContext(r.Context(), "API token mismatch", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
