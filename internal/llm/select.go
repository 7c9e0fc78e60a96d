package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/stellarlinkco/medqa-eval/internal/config"
)

// Select resolves the provider for a run. An explicit override wins, then the
// configured default (which config.Load seeds from the PROVIDER env var), then
// auto-selection: openai if a key is present, claude if an Anthropic key is
// present, ollama if its runtime answers, otherwise the unconfigured sentinel.
// It returns the provider and the model name it will use.
func Select(ctx context.Context, cfg *config.Config, override string) (Provider, string, error) {
	if cfg == nil {
		return nil, "", fmt.Errorf("llm: nil config")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	name := strings.ToLower(strings.TrimSpace(override))
	if name == "" {
		name = strings.ToLower(strings.TrimSpace(cfg.LLM.DefaultProvider))
	}
	if name == "" {
		name = autoSelect(ctx, cfg)
	}

	switch name {
	case "openai":
		p := cfg.LLM.Providers["openai"]
		return NewOpenAIProvider(p.APIKey, p.BaseURL, p.Model), modelName(p.Model), nil
	case "claude", "anthropic":
		p := cfg.LLM.Providers["claude"]
		return NewClaudeProvider(p.APIKey, p.BaseURL, p.Model), modelName(p.Model), nil
	case "ollama":
		p := cfg.LLM.Providers["ollama"]
		return NewOllamaProvider(p.BaseURL, p.Model), modelName(p.Model), nil
	case "none":
		return UnconfiguredProvider{}, "none", nil
	default:
		return nil, "", fmt.Errorf("llm: unknown provider %q (expected openai|claude|ollama)", name)
	}
}

func autoSelect(ctx context.Context, cfg *config.Config) string {
	if strings.TrimSpace(cfg.LLM.Providers["openai"].APIKey) != "" {
		return "openai"
	}
	if strings.TrimSpace(cfg.LLM.Providers["claude"].APIKey) != "" {
		return "claude"
	}

	p := cfg.LLM.Providers["ollama"]
	if NewOllamaProvider(p.BaseURL, p.Model).Available(ctx) {
		return "ollama"
	}
	return "none"
}

func modelName(model string) string {
	model = strings.TrimSpace(model)
	if model == "" {
		return "default"
	}
	return model
}
