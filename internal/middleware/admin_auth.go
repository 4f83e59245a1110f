package middleware

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const ctxAdminKey contextKey = "admin"

// TokenValidator resolves a bearer token to the admin's username.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (string, error)
}

// AdminAuth rejects requests without a valid Bearer JWT and stores the
// admin's username in the request context.
func AdminAuth(v TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := extractBearer(r)
			if raw == "" {
				http.Error(w, `{"error":"missing or malformed Authorization header"}`, http.StatusUnauthorized)
				return
			}
			admin, err := v.ValidateToken(r.Context(), raw)
			if err != nil {
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithAdmin(r.Context(), admin)))
		})
	}
}

// AdminFromCtx returns the authenticated admin's username, or "".
func AdminFromCtx(ctx context.Context) string {
	name, _ := ctx.Value(ctxAdminKey).(string)
	return name
}

func WithAdmin(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, ctxAdminKey, name)
}

func extractBearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
