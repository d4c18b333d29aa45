package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/amirasaad/ledger/pkg/provider"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// RedisRate reads the annual rate from a Redis key so operators can change it
// without a restart. A missing key falls back to the wrapped provider.
// Successful reads are cached for ttl.
type RedisRate struct {
	client   *redis.Client
	key      string
	fallback provider.InterestRateProvider
	ttl      time.Duration
	logger   *slog.Logger

	inflight singleflight.Group
	mu       sync.Mutex
	cached   float64
	cachedAt time.Time
}

// NewRedisRate creates a RedisRate from a redis URL.
func NewRedisRate(
	url, key string,
	fallback provider.InterestRateProvider,
	ttl time.Duration,
	logger *slog.Logger,
) (*RedisRate, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis rate provider: invalid URL: %w", err)
	}
	return NewRedisRateWithClient(redis.NewClient(opt), key, fallback, ttl, logger), nil
}

// NewRedisRateWithClient creates a RedisRate over an existing client.
func NewRedisRateWithClient(
	client *redis.Client,
	key string,
	fallback provider.InterestRateProvider,
	ttl time.Duration,
	logger *slog.Logger,
) *RedisRate {
	if logger == nil {
		logger = slog.Default()
	}
	if fallback == nil {
		fallback = NewStaticRate(0)
	}
	return &RedisRate{
		client:   client,
		key:      key,
		fallback: fallback,
		ttl:      ttl,
		logger:   logger.With("component", "redis-rate-provider"),
	}
}

func (p *RedisRate) AnnualRate(ctx context.Context) (float64, error) {
	p.mu.Lock()
	if p.ttl > 0 && !p.cachedAt.IsZero() && time.Since(p.cachedAt) < p.ttl {
		rate := p.cached
		p.mu.Unlock()
		return rate, nil
	}
	p.mu.Unlock()

	v, err, _ := p.inflight.Do(p.key, func() (any, error) {
		return p.load(ctx)
	})
	if err != nil {
		return 0, err
	}
	return v.(float64), nil
}

func (p *RedisRate) load(ctx context.Context) (float64, error) {
	raw, err := p.client.Get(ctx, p.key).Result()
	if errors.Is(err, redis.Nil) {
		p.logger.Debug("Interest rate key missing, using fallback", "key", p.key)
		return p.fallback.AnnualRate(ctx)
	}
	if err != nil {
		p.logger.Error("Interest rate read failed", "key", p.key, "error", err)
		return 0, fmt.Errorf("redis rate provider: %w", err)
	}
	rate, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.logger.Error("Interest rate is not a number", "key", p.key, "value", raw)
		return 0, fmt.Errorf("redis rate provider: parse %q: %w", raw, err)
	}

	p.mu.Lock()
	p.cached = rate
	p.cachedAt = time.Now()
	p.mu.Unlock()
	p.logger.Debug("Interest rate loaded", "key", p.key, "rate", rate)
	return rate, nil
}

// Set stores rate under the key and drops the cached value.
func (p *RedisRate) Set(ctx context.Context, rate float64) error {
	if err := p.client.Set(ctx, p.key, strconv.FormatFloat(rate, 'f', -1, 64), 0).Err(); err != nil {
		return fmt.Errorf("redis rate provider: %w", err)
	}
	p.mu.Lock()
	p.cachedAt = time.Time{}
	p.mu.Unlock()
	return nil
}

// Close releases the Redis client.
func (p *RedisRate) Close() error {
	return p.client.Close()
}

var _ provider.InterestRateProvider = (*RedisRate)(nil)
