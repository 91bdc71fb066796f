package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/briefwise/briefwise/pkg/domain/model"
	"github.com/briefwise/briefwise/pkg/utils/logging"
)

// UserIDHeader carries the caller identity set by the fronting auth proxy
const UserIDHeader = "X-User-ID"

type ctxUserIDKey struct{}

func contextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxUserIDKey{}, userID)
}

func userIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxUserIDKey{}).(string); ok {
		return v
	}
	return ""
}

// userMiddleware rejects requests without a caller identity
func userMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(UserIDHeader))
		if userID == "" {
			writeJSON(w, r, http.StatusUnauthorized, errorResponse{Error: "Authentication required"})
			return
		}

		ctx := contextWithUserID(r.Context(), userID)
		ctx = logging.With(ctx, logging.From(ctx).With(model.UserIDKey, userID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bodyLimit(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if n > 0 && r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}
