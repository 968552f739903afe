package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RateLimitService enforces per-company request budgets using Redis
type RateLimitService struct {
	client *redis.Client
}

// NewRateLimitService creates a new rate limit service
func NewRateLimitService(redisURL string) (*RateLimitService, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RateLimitService{client: client}, nil
}

// RateLimitResult contains the result of a rate limit check
type RateLimitResult struct {
	Allowed        bool
	DailyUsed      int
	DailyLimit     int
	MonthlyUsed    int
	MonthlyLimit   int
	RetryAfterSecs int
}

// Allow checks the company's daily and monthly budgets and, when within
// both, counts the request against them.
func (s *RateLimitService) Allow(ctx context.Context, companyID uuid.UUID, dailyLimit, monthlyLimit int) (*RateLimitResult, error) {
	now := time.Now()
	dailyKey := fmt.Sprintf("ratelimit:daily:%s:%s", companyID.String(), now.Format("2006-01-02"))
	monthlyKey := fmt.Sprintf("ratelimit:monthly:%s:%s", companyID.String(), now.Format("2006-01"))

	dailyCount, err := s.client.Get(ctx, dailyKey).Int()
	if err != nil && err != redis.Nil {
		return nil, err
	}

	monthlyCount, err := s.client.Get(ctx, monthlyKey).Int()
	if err != nil && err != redis.Nil {
		return nil, err
	}

	result := &RateLimitResult{
		DailyUsed:    dailyCount,
		DailyLimit:   dailyLimit,
		MonthlyUsed:  monthlyCount,
		MonthlyLimit: monthlyLimit,
	}

	tomorrow := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	nextMonth := time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, now.Location())

	if dailyCount >= dailyLimit {
		result.RetryAfterSecs = int(tomorrow.Sub(now).Seconds())
		result.Allowed = false
		return result, nil
	}

	if monthlyCount >= monthlyLimit {
		result.RetryAfterSecs = int(nextMonth.Sub(now).Seconds())
		result.Allowed = false
		return result, nil
	}

	pipe := s.client.Pipeline()
	pipe.Incr(ctx, dailyKey)
	pipe.ExpireAt(ctx, dailyKey, tomorrow)
	pipe.Incr(ctx, monthlyKey)
	pipe.ExpireAt(ctx, monthlyKey, nextMonth)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	result.Allowed = true
	result.DailyUsed++
	result.MonthlyUsed++

	return result, nil
}

// Close closes the Redis connection
func (s *RateLimitService) Close() error {
	return s.client.Close()
}
