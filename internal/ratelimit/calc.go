package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"

	"github.com/tajirhq/tajir/internal/config"
)

const (
	keyCalcClient = "calc:client:%s"
	keySeedLock   = "seed:lock"
)

// CalcLimiter throttles the calculator endpoints per client (API key
// when present, client IP otherwise). A nil limiter allows everything,
// so callers never branch on configuration.
type CalcLimiter struct {
	enabled bool

	bucket *TokenBucket
	locker *Locker

	rate  float64
	burst int
}

func NewCalcLimiter(cfg config.Config) (*CalcLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.CalcRate <= 0 || limitCfg.CalcBurst <= 0 {
		return nil, errors.New("calculator rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})

	return &CalcLimiter{
		enabled: true,
		bucket:  NewTokenBucket(client),
		locker:  NewLocker(client),
		rate:    limitCfg.CalcRate,
		burst:   limitCfg.CalcBurst,
	}, nil
}

func (l *CalcLimiter) Enabled() bool {
	return l != nil && l.enabled
}

func (l *CalcLimiter) Allow(ctx context.Context, clientKey string) (bool, error) {
	if !l.Enabled() {
		return true, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyCalcClient, strings.TrimSpace(clientKey)), l.rate, l.burst)
}

// TryLockSeed guards startup seeding when several replicas share one
// database.
func (l *CalcLimiter) TryLockSeed(ctx context.Context) (string, bool, error) {
	if !l.Enabled() {
		return "", true, nil
	}
	return l.locker.TryLock(ctx, keySeedLock, seedLockTTL)
}

func (l *CalcLimiter) ReleaseSeed(ctx context.Context, token string) error {
	if !l.Enabled() || token == "" {
		return nil
	}
	return l.locker.Release(ctx, keySeedLock, token)
}
