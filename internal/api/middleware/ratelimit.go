package middleware

import (
	"fmt"
	"net/http"

	"github.com/adspiceprospice/Curiosity-Invoicing-sub000/internal/service"
)

// RateLimitMiddleware enforces per-company request budgets
type RateLimitMiddleware struct {
	rateLimitService *service.RateLimitService
	dailyLimit       int
	monthlyLimit     int
}

// NewRateLimitMiddleware creates a new rate limit middleware
func NewRateLimitMiddleware(rateLimitService *service.RateLimitService, dailyLimit, monthlyLimit int) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		rateLimitService: rateLimitService,
		dailyLimit:       dailyLimit,
		monthlyLimit:     monthlyLimit,
	}
}

// RateLimit checks and enforces rate limits for the authenticated company
func (m *RateLimitMiddleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := GetClaims(r.Context())
		if claims == nil {
			http.Error(w, `{"error": "Unauthorized"}`, http.StatusUnauthorized)
			return
		}

		result, err := m.rateLimitService.Allow(r.Context(), claims.CompanyID, m.dailyLimit, m.monthlyLimit)
		if err != nil {
			// Fail open: a Redis outage must not take the API down
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", result.DailyLimit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", result.DailyLimit-result.DailyUsed))

		if !result.Allowed {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", result.RetryAfterSecs))
			http.Error(w, `{"error": "Rate limit exceeded"}`, http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
