package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const claudeMaxTokens = 1024

type ClaudeProvider struct {
	client *anthropic.Client
	apiKey string
	model  string
}

func NewClaudeProvider(apiKey string, baseURL string, model string) *ClaudeProvider {
	apiKey = strings.TrimSpace(apiKey)

	opts := make([]option.RequestOption, 0, 3)
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	if v := strings.TrimSpace(baseURL); v != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(v, "/")))
	}
	opts = append(opts, option.WithMaxRetries(0))

	client := anthropic.NewClient(opts...)
	return &ClaudeProvider{
		client: &client,
		apiKey: apiKey,
		model:  strings.TrimSpace(model),
	}
}

func (p *ClaudeProvider) Name() string {
	return "claude"
}

func (p *ClaudeProvider) Invoke(ctx context.Context, model string, prompt string) (string, error) {
	if p == nil || p.client == nil {
		return "", failure("claude", FailureUnconfigured, errors.New("nil client"))
	}
	if ctx == nil {
		return "", failure("claude", FailureTransport, errors.New("nil context"))
	}
	if p.apiKey == "" {
		return "", failure("claude", FailureAuth, errors.New("ANTHROPIC_API_KEY missing"))
	}

	if strings.TrimSpace(model) == "" {
		model = p.model
	}

	msg, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: claudeMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", classifyClaudeError(err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text := block.AsText()
			sb.WriteString(text.Text)
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

func classifyClaudeError(err error) *ProviderError {
	var sdkErr *anthropic.Error
	if errors.As(err, &sdkErr) {
		switch sdkErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return failure("claude", FailureAuth, err)
		case http.StatusNotFound:
			return failure("claude", FailureModelUnavailable, err)
		}
	}
	return failure("claude", FailureTransport, err)
}
