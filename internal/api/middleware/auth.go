package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/adspiceprospice/Curiosity-Invoicing-sub000/internal/service"
)

// Context keys
type contextKey string

const claimsKey contextKey = "claims"

// AuthMiddleware provides authentication middleware
type AuthMiddleware struct {
	authService *service.AuthService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(authService *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

// Authenticate validates the Bearer token and stores its claims on the
// request context
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			http.Error(w, `{"error": "Unauthorized"}`, http.StatusUnauthorized)
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := m.authService.ValidateToken(token)
		if err != nil {
			http.Error(w, `{"error": "Unauthorized"}`, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetClaims extracts the authenticated token claims from context
func GetClaims(ctx context.Context) *service.TokenClaims {
	if claims, ok := ctx.Value(claimsKey).(*service.TokenClaims); ok {
		return claims
	}
	return nil
}
