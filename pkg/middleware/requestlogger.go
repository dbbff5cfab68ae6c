package middleware

import (
	"log/slog"
	"net/http"

	"github.com/alfonso816/Tienda/pkg/logger"
)

// SessionHeader identifies the shopper's cart session.
const SessionHeader = "X-Session-ID"

// RequestLogger stores a logger enriched with correlation, session, admin
// and trace fields in the request context. Mount it after RequestLogging
// and Tracing so those fields already exist.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if sid := r.Header.Get(SessionHeader); sid != "" && logger.SessionIDFromContext(ctx) == "" {
				ctx = logger.WithSessionID(ctx, sid)
			}
			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
