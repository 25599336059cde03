package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/profiler/internal/config"
)

var defaultRetry = config.RetryConfig{
	MaxAttempts: 3,
	InitialWait: time.Second,
	MaxWait:     10 * time.Second,
	Multiplier:  2,
}

// RetryProvider retries transient failures with capped exponential backoff.
type RetryProvider struct {
	inner Provider
	cfg   config.RetryConfig
	log   *zap.Logger
	sleep func(context.Context, time.Duration) error
}

// WithRetry wraps p. Zero fields in cfg take the package defaults.
func WithRetry(p Provider, cfg config.RetryConfig, log *zap.Logger) *RetryProvider {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultRetry.MaxAttempts
	}
	if cfg.InitialWait <= 0 {
		cfg.InitialWait = defaultRetry.InitialWait
	}
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = defaultRetry.MaxWait
	}
	if cfg.Multiplier < 1 {
		cfg.Multiplier = defaultRetry.Multiplier
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RetryProvider{inner: p, cfg: cfg, log: log, sleep: sleepCtx}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var lastErr error
	retriedInvalid := false

	for attempt := 0; attempt < r.cfg.MaxAttempts; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !retryable(err, &retriedInvalid) || attempt == r.cfg.MaxAttempts-1 {
			break
		}

		wait := r.backoff(attempt, err)
		r.log.Warn("llm call failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Duration("wait", wait),
			zap.String("outcome", Outcome(err)),
			zap.Error(err))
		if err := r.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

func (r *RetryProvider) ModelID() string { return r.inner.ModelID() }

// retryable reports whether another attempt may succeed. A schema
// mismatch is retried once since sampling may produce a valid answer.
func retryable(err error, retriedInvalid *bool) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var (
		maxTok   *ErrMaxTokensExceeded
		rejected *ErrRequestRejected
		invalid  *ErrInvalidResponse
	)
	switch {
	case errors.As(err, &maxTok), errors.As(err, &rejected):
		return false
	case errors.As(err, &invalid):
		if *retriedInvalid {
			return false
		}
		*retriedInvalid = true
		return true
	}
	return true
}

func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return min(rl.RetryAfter, r.cfg.MaxWait)
	}

	wait := float64(r.cfg.InitialWait) * math.Pow(r.cfg.Multiplier, float64(attempt))
	wait = math.Min(wait, float64(r.cfg.MaxWait))
	// ±20% jitter
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(math.Max(wait, 0))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
