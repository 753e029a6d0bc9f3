package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mealmajor/mealmajor/backend/internal/service"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window. Zero
	// disables the limiter.
	Limit int
	// Key prefix for counter keys
	KeyPrefix string
}

// CounterStore increments a counter that expires after window
type CounterStore interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisCounterStore keeps rate limit counters in Redis
type RedisCounterStore struct {
	client redis.Cmdable
}

func NewRedisCounterStore(client redis.Cmdable) *RedisCounterStore {
	return &RedisCounterStore{client: client}
}

func (s *RedisCounterStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, window)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// RateLimiter is a fixed-window limiter keyed by user
type RateLimiter struct {
	store  CounterStore
	config RateLimitConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewRateLimiter creates a new rate limiter instance
func NewRateLimiter(store CounterStore, config RateLimitConfig, logger *zap.Logger) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateLimiter{
		store:  store,
		config: config,
		logger: logger,
		now:    time.Now,
	}
}

// NewRecipeCreationRateLimiter limits recipe creation per user per hour
func NewRecipeCreationRateLimiter(store CounterStore, limit int, logger *zap.Logger) *RateLimiter {
	return NewRateLimiter(store, RateLimitConfig{
		Window:    time.Hour,
		Limit:     limit,
		KeyPrefix: "rate_limit:recipe_creation",
	}, logger)
}

// NewRecipeModificationRateLimiter limits updates and deletes per user per
// recipe per hour
func NewRecipeModificationRateLimiter(store CounterStore, limit int, logger *zap.Logger) *RateLimiter {
	return NewRateLimiter(store, RateLimitConfig{
		Window:    time.Hour,
		Limit:     limit,
		KeyPrefix: "rate_limit:recipe_modification",
	}, logger)
}

func (rl *RateLimiter) enabled() bool {
	return rl != nil && rl.store != nil && rl.config.Limit > 0
}

// IsAllowed counts one request for subject.
// Returns: allowed, remaining requests, reset time, error
func (rl *RateLimiter) IsAllowed(ctx context.Context, subject string) (bool, int, time.Time, error) {
	windowStart := rl.now().Truncate(rl.config.Window)
	resetTime := windowStart.Add(rl.config.Window)
	key := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, subject, windowStart.Unix())

	count, err := rl.store.Incr(ctx, key, rl.config.Window)
	if err != nil {
		return false, 0, time.Time{}, err
	}

	remaining := rl.config.Limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return int(count) <= rl.config.Limit, remaining, resetTime, nil
}

// RateLimitMiddleware returns a Gin middleware that enforces rate limiting
// per authenticated user
func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.enabled() {
			c.Next()
			return
		}
		userID, ok := GetUserID(c)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, service.KindUnauthorized, "user not authenticated")
			return
		}
		rl.enforce(c, strconv.FormatUint(uint64(userID), 10))
	}
}

// PerRecipeRateLimitMiddleware keys the limit on the user and the :id route
// parameter
func (rl *RateLimiter) PerRecipeRateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.enabled() {
			c.Next()
			return
		}
		userID, ok := GetUserID(c)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, service.KindUnauthorized, "user not authenticated")
			return
		}
		recipeID := c.Param("id")
		if recipeID == "" {
			abortWithError(c, http.StatusBadRequest, service.KindValidation, "recipe ID is required")
			return
		}
		rl.enforce(c, fmt.Sprintf("%d:%s", userID, recipeID))
	}
}

func (rl *RateLimiter) enforce(c *gin.Context, subject string) {
	allowed, remaining, resetTime, err := rl.IsAllowed(c.Request.Context(), subject)
	if err != nil {
		// fail open
		rl.logger.Warn("rate limit check failed",
			zap.String("prefix", rl.config.KeyPrefix),
			zap.Error(err))
		c.Header("X-RateLimit-Error", "rate limit check failed")
		c.Next()
		return
	}

	c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

	if !allowed {
		retryAfter := int(resetTime.Sub(rl.now()).Seconds())
		if retryAfter < 1 {
			retryAfter = 1
		}
		c.Header("Retry-After", strconv.Itoa(retryAfter))
		abortWithError(c, http.StatusTooManyRequests, service.KindRateLimited,
			fmt.Sprintf("Rate limit of %d requests per %v exceeded.", rl.config.Limit, rl.config.Window))
		return
	}

	c.Next()
}
