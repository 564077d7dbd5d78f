package redis

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/flowkit/pkg/logger"
)

// ConnectOption tunes Connect.
type ConnectOption func(*connectOptions)

type connectOptions struct {
	log *slog.Logger
}

// WithLogger logs failed connection attempts.
func WithLogger(log *slog.Logger) ConnectOption {
	return func(o *connectOptions) {
		if log != nil {
			o.log = log
		}
	}
}

// Connect creates a client and pings the server until it answers, trying up to
// cfg.RetryAttempts times with cfg.RetryInterval between attempts. The whole
// process is bounded by cfg.ConnectTimeout.
//
// It returns ErrEmptyConnectionURL, ErrInvalidConnectionURL or
// ErrNotReady.
func Connect(ctx context.Context, cfg Config, opts ...ConnectOption) (*redis.Client, error) {
	o := connectOptions{log: logger.Discard()}
	for _, opt := range opts {
		opt(&o)
	}

	if cfg.ConnectionURL == "" {
		return nil, ErrEmptyConnectionURL
	}

	redisConnOpt, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrInvalidConnectionURL, err)
	}

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	attempts := max(cfg.RetryAttempts, 1)
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		client := redis.NewClient(redisConnOpt)
		lastErr = client.Ping(ctx).Err()
		if lastErr == nil {
			return client, nil
		}
		_ = client.Close()

		o.log.WarnContext(ctx, "redis not ready",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", attempts),
			logger.Error(lastErr),
		)

		if attempt == attempts {
			break
		}

		timer := time.NewTimer(cfg.RetryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, errors.Join(ErrNotReady, ctx.Err())
		case <-timer.C:
		}
	}

	return nil, errors.Join(ErrNotReady, lastErr)
}
