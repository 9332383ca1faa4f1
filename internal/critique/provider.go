package critique

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/SoloveyLS/xml-prompt-manager/internal/config"
)

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer sends a chat and returns the reply text.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// DefaultBaseURLs maps providers to their OpenAI-compatible API roots.
var DefaultBaseURLs = map[string]string{
	"openai":    "https://api.openai.com/v1",
	"anthropic": "https://api.anthropic.com/v1",
	"google":    "https://generativelanguage.googleapis.com/v1beta/openai",
	"ollama":    "http://localhost:11434/v1",
}

var providerLabels = map[string]string{
	"openai":    "OpenAI",
	"anthropic": "Anthropic",
	"google":    "Google AI",
	"ollama":    "Ollama",
}

// APIError is a non-2xx response from a provider.
type APIError struct {
	Provider   string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error: %d %s", providerLabels[e.Provider], e.StatusCode, http.StatusText(e.StatusCode))
}

// ErrEmptyReply is returned when a provider answers without text.
var ErrEmptyReply = errors.New("provider returned an empty reply")

// NewCompleter returns the client for cfg.Provider. Every provider is
// reached through its OpenAI-compatible chat completions endpoint.
// httpClient may be nil.
func NewCompleter(cfg config.LLMConfig, httpClient *http.Client) (Completer, error) {
	if _, ok := providerLabels[cfg.Provider]; !ok {
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURLs[cfg.Provider]
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = base
	oc.HTTPClient = httpClient
	return &chatClient{
		provider:    cfg.Provider,
		model:       cfg.ModelOrDefault(),
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		client:      openai.NewClientWithConfig(oc),
	}, nil
}

type chatClient struct {
	provider    string
	model       string
	maxTokens   int
	temperature float64
	client      *openai.Client
}

func (c *chatClient) Complete(ctx context.Context, messages []Message) (string, error) {
	chat := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		chat[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    chat,
		MaxTokens:   c.maxTokens,
		Temperature: float32(c.temperature),
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
			return "", &APIError{Provider: c.provider, StatusCode: apiErr.HTTPStatusCode}
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
			return "", &APIError{Provider: c.provider, StatusCode: reqErr.HTTPStatusCode}
		}
		return "", fmt.Errorf("%s request failed: %w", providerLabels[c.provider], err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyReply
	}
	return resp.Choices[0].Message.Content, nil
}
