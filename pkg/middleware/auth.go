package middleware

import (
	"net/http"
	"strings"

	apperrors "github.com/alfonso816/Tienda/pkg/errors"
	"github.com/alfonso816/Tienda/pkg/httputil"
	"github.com/alfonso816/Tienda/pkg/logger"
)

// TokenValidator verifies a bearer token and returns its subject.
type TokenValidator func(token string) (subject string, err error)

// BearerToken extracts the token of an "Authorization: Bearer <t>" header.
func BearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RequireBearer rejects requests without a valid bearer token and stores the
// subject in context for logging.
func RequireBearer(validate TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				httputil.WriteError(w, r, apperrors.Unauthorized("missing bearer token"), nil)
				return
			}
			subject, err := validate(token)
			if err != nil {
				httputil.WriteError(w, r, apperrors.Unauthorized("invalid or expired token"), nil)
				return
			}
			ctx := logger.WithAdmin(r.Context(), subject)
			ctx = logger.NewContext(ctx, logger.FromContext(ctx).With("admin", subject))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
