package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"locatrajes/internal/domain"
	"locatrajes/internal/dto"
)

type contextKey struct{}

func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(contextKey{}).(*Claims)
	return c, ok
}

// RoleFrom returns the caller's role, empty when unauthenticated.
func RoleFrom(ctx context.Context) domain.Role {
	if c, ok := ClaimsFrom(ctx); ok {
		return c.Role
	}
	return ""
}

// deny writes the same error body the controllers use.
func deny(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dto.ErrorResponse{
		TraceID:   uuid.New().String(),
		Status:    status,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

// Middleware requires a valid bearer token and stores its claims in the
// request context.
func Middleware(secret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				deny(w, http.StatusUnauthorized, "UNAUTHORIZED", "authorization header must be 'Bearer <token>'")
				return
			}

			claims, err := ValidateToken(secret, strings.TrimSpace(parts[1]))
			if err != nil {
				logger.Debug("token rejected", zap.Error(err))
				deny(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequireRole lets the request through only for the listed roles.
func RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFrom(r.Context())
			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}
			deny(w, http.StatusForbidden, "FORBIDDEN", "role not allowed for this operation")
		})
	}
}
