package llm

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

type retryProvider struct {
	inner    Provider
	attempts int
	log      zerolog.Logger
}

// WithRetry wraps a provider so each invocation is re-attempted immediately
// up to attempts times, logging every failed attempt. Auth and unconfigured
// failures are not retried; more credentials will not appear between
// attempts.
func WithRetry(p Provider, attempts int, log zerolog.Logger) Provider {
	if p == nil || attempts <= 1 {
		return p
	}
	return &retryProvider{inner: p, attempts: attempts, log: log}
}

func (r *retryProvider) Name() string {
	return r.inner.Name()
}

func (r *retryProvider) Invoke(ctx context.Context, model string, prompt string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		out, err := r.inner.Invoke(ctx, model, prompt)
		if err == nil {
			return out, nil
		}
		lastErr = err

		r.log.Warn().
			Str("provider", r.inner.Name()).
			Int("attempt", attempt).
			Int("max_attempts", r.attempts).
			Err(err).
			Msg("provider call failed")

		var perr *ProviderError
		if errors.As(err, &perr) && (perr.Kind == FailureAuth || perr.Kind == FailureUnconfigured) {
			break
		}
	}
	return "", lastErr
}
