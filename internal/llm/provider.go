package llm

import (
	"context"
	"fmt"
)

// Provider sends a single prompt to a chat model and returns its raw text
// response. Implementations wrap call failures in *ProviderError so the
// evaluation loop can record them without aborting the batch.
type Provider interface {
	Name() string
	Invoke(ctx context.Context, model string, prompt string) (string, error)
}

type FailureKind string

const (
	FailureAuth                FailureKind = "auth"
	FailureModelUnavailable    FailureKind = "model_unavailable"
	FailureTransport           FailureKind = "transport"
	FailureProviderUnavailable FailureKind = "provider_unavailable"
	FailureUnconfigured        FailureKind = "unconfigured"
)

// ProviderError is a typed per-call failure. It is recorded against the item
// that triggered it; it never terminates a run.
type ProviderError struct {
	Provider string
	Kind     FailureKind
	Err      error
}

func (e *ProviderError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err == nil {
		return fmt.Sprintf("llm: %s: %s", e.Provider, e.Kind)
	}
	return fmt.Sprintf("llm: %s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func failure(provider string, kind FailureKind, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: kind, Err: err}
}
