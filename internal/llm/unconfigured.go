package llm

import (
	"context"
	"errors"
)

// UnconfiguredProvider fails every invocation uniformly. It is selected when
// no provider is configured so that a run still produces a complete, scored
// result set.
type UnconfiguredProvider struct{}

func (UnconfiguredProvider) Name() string {
	return "none"
}

func (UnconfiguredProvider) Invoke(ctx context.Context, model string, prompt string) (string, error) {
	return "", failure("none", FailureUnconfigured, errors.New("no provider configured"))
}
