package llm

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const ollamaProbeTimeout = 2 * time.Second

// OllamaProvider talks to a local Ollama runtime through its OpenAI-compatible
// /v1 endpoint. No authentication is required; an unreachable host is a
// provider_unavailable failure.
type OllamaProvider struct {
	client *openai.Client
	host   string
	model  string
}

func NewOllamaProvider(host string, model string) *OllamaProvider {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if host == "" {
		host = "http://localhost:11434"
	}

	cfg := openai.DefaultConfig("ollama")
	cfg.BaseURL = host + "/v1"

	return &OllamaProvider{
		client: openai.NewClientWithConfig(cfg),
		host:   host,
		model:  strings.TrimSpace(model),
	}
}

func (p *OllamaProvider) Name() string {
	return "ollama"
}

// Available reports whether the Ollama runtime answers on its root endpoint.
func (p *OllamaProvider) Available(ctx context.Context) bool {
	if p == nil || ctx == nil {
		return false
	}

	probeCtx, cancel := context.WithTimeout(ctx, ollamaProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, p.host+"/", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < http.StatusInternalServerError
}

func (p *OllamaProvider) Invoke(ctx context.Context, model string, prompt string) (string, error) {
	if p == nil || p.client == nil {
		return "", failure("ollama", FailureUnconfigured, errors.New("nil client"))
	}
	if ctx == nil {
		return "", failure("ollama", FailureTransport, errors.New("nil context"))
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
		if isConnectionError(err) {
			return "", failure("ollama", FailureProviderUnavailable, err)
		}
		return "", classifyOpenAIError("ollama", err)
	}
	if len(resp.Choices) == 0 {
		return "", failure("ollama", FailureTransport, errors.New("empty choices"))
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func isConnectionError(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
