// internal/app/pin_guard.go
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shrimpsizemoose/trekker/logger"
)

const (
	timeFormat  = "2006-01-02 15:04:05"
	checkKeyTpl = "check:%s:%s" // check:${resultID}:${pin}
)

// ErrCardExhausted means a pin has been used for more checks than the
// configured budget allows.
var ErrCardExhausted = errors.New("scratch pin exhausted")

// PinGuard counts result checks per (result, pin) pair in redis so a
// scratch pin cannot be replayed indefinitely. Disabled guards allow
// everything.
type PinGuard struct {
	enabled   bool
	redis     *redis.Client
	maxChecks int
}

func NewPinGuard(config *Config) (*PinGuard, error) {
	if !config.Cards.EnableGuard {
		return &PinGuard{enabled: false}, nil
	}

	opt, err := redis.ParseURL(config.Cards.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	maxChecks := config.Cards.MaxChecks
	if maxChecks <= 0 {
		maxChecks = 5
	}

	return &PinGuard{
		enabled:   true,
		redis:     client,
		maxChecks: maxChecks,
	}, nil
}

func (g *PinGuard) Close() error {
	if g.redis != nil {
		return g.redis.Close()
	}
	return nil
}

// Allow records one check of resultID with pin and rejects once the pair
// has gone over budget. Pins are only counted when supplied.
func (g *PinGuard) Allow(ctx context.Context, resultID, pin string) error {
	if !g.enabled || pin == "" {
		return nil
	}

	key := fmt.Sprintf(checkKeyTpl, resultID, pin)
	now := time.Now().UTC()

	pipe := g.redis.Pipeline()
	count := pipe.HIncrBy(ctx, key, "count", 1)
	pipe.HSet(ctx, key, "last_check_dttm_utc", now.Format(timeFormat))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to track pin usage: %w", err)
	}

	if count.Val() > int64(g.maxChecks) {
		logger.Debug.Printf("Pin for result %s exhausted after %d checks", resultID, count.Val())
		return ErrCardExhausted
	}
	return nil
}
