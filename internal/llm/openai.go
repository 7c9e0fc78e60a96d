package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

type OpenAIProvider struct {
	client *openai.Client
	apiKey string
	model  string
}

func NewOpenAIProvider(apiKey string, baseURL string, model string) *OpenAIProvider {
	apiKey = strings.TrimSpace(apiKey)
	cfg := openai.DefaultConfig(apiKey)
	if v := strings.TrimSpace(baseURL); v != "" {
		cfg.BaseURL = strings.TrimRight(v, "/")
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(cfg),
		apiKey: apiKey,
		model:  strings.TrimSpace(model),
	}
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

func (p *OpenAIProvider) Invoke(ctx context.Context, model string, prompt string) (string, error) {
	if p == nil || p.client == nil {
		return "", failure("openai", FailureUnconfigured, errors.New("nil client"))
	}
	if ctx == nil {
		return "", failure("openai", FailureTransport, errors.New("nil context"))
	}
	if p.apiKey == "" {
		return "", failure("openai", FailureAuth, errors.New("OPENAI_API_KEY missing"))
	}

	if strings.TrimSpace(model) == "" {
		model = p.model
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", classifyOpenAIError("openai", err)
	}
	if len(resp.Choices) == 0 {
		return "", failure("openai", FailureTransport, errors.New("empty choices"))
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func classifyOpenAIError(provider string, err error) *ProviderError {
	if status, ok := openAIStatusCode(err); ok {
		switch status {
		case http.StatusUnauthorized, http.StatusForbidden:
			return failure(provider, FailureAuth, err)
		case http.StatusNotFound:
			return failure(provider, FailureModelUnavailable, err)
		}
		return failure(provider, FailureTransport, err)
	}
	return failure(provider, FailureTransport, err)
}

func openAIStatusCode(err error) (int, bool) {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode, true
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode, true
	}
	return 0, false
}
