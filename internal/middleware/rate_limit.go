package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/go-memories/internal/errs"
	"github.com/deppfellow/go-memories/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	rateLimitKeyPrefix = "memories:ratelimit:"
	rateLimitWindow    = time.Second
	rateLimitTimeout   = 200 * time.Millisecond
)

type RateLimitMiddleware struct {
	server *server.Server
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// RateLimiter limits requests per client IP. The counters live in Redis when
// a client is configured, so every replica shares them; otherwise they are
// kept in process.
func (r *RateLimitMiddleware) RateLimiter() echo.MiddlewareFunc {
	rps := r.server.Config.Server.RateLimit.RequestsPerSecond

	var store middleware.RateLimiterStore
	if r.server.Redis != nil {
		store = NewRedisRateLimiterStore(r.server.Redis, rps, r.server.Logger)
	} else {
		store = middleware.NewRateLimiterMemoryStore(rate.Limit(rps))
	}

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return errs.NewForbiddenError("Unable to identify client", false)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			r.RecordRateLimitHit(c.Path())
			return &errs.HTTPError{
				Code:    "TOO_MANY_REQUESTS",
				Message: http.StatusText(http.StatusTooManyRequests),
				Status:  http.StatusTooManyRequests,
			}
		},
	})
}

// RecordRateLimitHit records a RateLimitHit custom event in New Relic.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	if r.server.LoggerService != nil && r.server.LoggerService.GetApplication() != nil {
		r.server.LoggerService.GetApplication().RecordCustomEvent("RateLimitHit", map[string]interface{}{
			"endpoint": endpoint,
		})
	}
}

// RedisRateLimiterStore is a fixed-window echo RateLimiterStore on Redis.
//
// A Redis failure allows the request: an unavailable cache must not take the
// API down with it.
type RedisRateLimiterStore struct {
	client *redis.Client
	limit  int64
	window time.Duration
	log    *zerolog.Logger
}

func NewRedisRateLimiterStore(client *redis.Client, requestsPerSecond int, log *zerolog.Logger) *RedisRateLimiterStore {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &RedisRateLimiterStore{
		client: client,
		limit:  int64(requestsPerSecond),
		window: rateLimitWindow,
		log:    log,
	}
}

func (s *RedisRateLimiterStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), rateLimitTimeout)
	defer cancel()

	bucket := time.Now().UnixNano() / int64(s.window)
	key := fmt.Sprintf("%s%s:%d", rateLimitKeyPrefix, identifier, bucket)

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, 2*s.window)
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warn().Err(err).Str("identifier", identifier).Msg("rate limit store unavailable, allowing request")
		return true, nil
	}

	return incr.Val() <= s.limit, nil
}
