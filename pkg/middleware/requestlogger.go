package middleware

import (
	"log/slog"
	"net/http"

	"github.com/Guilherme-Denarde/coffee-orders/pkg/logger"
)

// RequestLogger stores a request-scoped logger in the context, already
// carrying correlation_id and user_id, so handlers can log without
// re-attaching those fields. Retrieve it with logger.FromContext.
//
// Mount after RequestLogging (which mints the correlation ID) and after the
// auth middleware (which knows the user).
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			// Auth middleware wins; X-User-ID covers callers that validated
			// the token upstream, like the storefront proxying for a user.
			userID := UserIDFromContext(ctx)
			if userID == "" {
				userID = r.Header.Get("X-User-ID")
			}
			if userID != "" {
				ctx = logger.WithUserID(ctx, userID)
			}

			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
