package critique

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/SoloveyLS/xml-prompt-manager/internal/config"
)

func TestParseKind(t *testing.T) {
	k, err := ParseKind("analysis")
	require.NoError(t, err)
	require.Equal(t, Analysis, k)

	_, err = ParseKind("review")
	require.ErrorContains(t, err, `unknown critique "review"`)
}

func TestMessages(t *testing.T) {
	tests := []struct {
		name       string
		req        Request
		systemHas  string
		userHas    []string
		userHasNot string
	}{
		{
			name:      "questions",
			req:       Request{Kind: Questions, Prompt: "<a>x</a>"},
			systemHas: "Generate targeted questions",
			userHas:   []string{"5-8 targeted questions", "Prompt to analyze:\n\n<a>x</a>\n\n"},
		},
		{
			name:      "focused questions",
			req:       Request{Kind: Questions, Prompt: "<a>x</a>", Focus: "tone"},
			systemHas: "specific concerns",
			userHas:   []string{`concern: "tone"`, "3-5 specific"},
		},
		{
			name:       "analysis",
			req:        Request{Kind: Analysis, Prompt: "<a>x</a>"},
			systemHas:  "how AI models interpret",
			userHas:    []string{"main task/goal", "<a>x</a>"},
			userHasNot: "specific focus",
		},
		{
			name:      "focused analysis",
			req:       Request{Kind: Analysis, Prompt: "<a>x</a>", Focus: "length"},
			systemHas: "specific aspects",
			userHas:   []string{`specific focus on: "length"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgs := Messages(tt.req)
			require.Len(t, msgs, 2)
			require.Equal(t, RoleSystem, msgs[0].Role)
			require.Contains(t, msgs[0].Content, tt.systemHas)
			require.Equal(t, RoleUser, msgs[1].Role)
			for _, s := range tt.userHas {
				require.Contains(t, msgs[1].Content, s)
			}
			if tt.userHasNot != "" {
				require.NotContains(t, msgs[1].Content, tt.userHasNot)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	require.Equal(t, "Analyzing prompt and generating questions...", Questions.Progress())
	require.Equal(t, "Analyzing prompt interpretation...", Analysis.Progress())
}

// captured is what a fake provider saw.
type captured struct {
	path    string
	headers http.Header
	body    map[string]any
}

func fakeServer(t *testing.T, status int, reply string) (*httptest.Server, *captured) {
	t.Helper()
	c := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.path = r.URL.Path
		c.headers = r.Header.Clone()
		_ = json.NewDecoder(r.Body).Decode(&c.body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv, c
}

func llm(provider, baseURL string) config.LLMConfig {
	return config.LLMConfig{
		Provider:    provider,
		Model:       "test-model",
		BaseURL:     baseURL,
		APIKey:      "secret",
		MaxTokens:   100,
		Temperature: 0.3,
		Timeout:     5 * time.Second,
	}
}

var chat = []Message{
	{Role: RoleSystem, Content: "sys"},
	{Role: RoleUser, Content: "hello"},
}

func TestOpenAI(t *testing.T) {
	srv, seen := fakeServer(t, http.StatusOK,
		`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"1. Who?"}}]}`)

	c, err := NewCompleter(llm("openai", srv.URL), nil)
	require.NoError(t, err)
	text, err := c.Complete(context.Background(), chat)
	require.NoError(t, err)
	require.Equal(t, "1. Who?", text)

	require.Equal(t, "/chat/completions", seen.path)
	require.Equal(t, "Bearer secret", seen.headers.Get("Authorization"))
	require.Equal(t, "test-model", seen.body["model"])
	require.Len(t, seen.body["messages"], 2)
}

func TestOpenAI_APIError(t *testing.T) {
	srv, _ := fakeServer(t, http.StatusUnauthorized,
		`{"error":{"message":"bad key","type":"invalid_request_error"}}`)

	c, err := NewCompleter(llm("openai", srv.URL), nil)
	require.NoError(t, err)
	_, err = c.Complete(context.Background(), chat)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "OpenAI API error: 401 Unauthorized", err.Error())
}

func chatReply(text string) string {
	return `{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"` + text + `"}}]}`
}

func TestCompatibleProviders(t *testing.T) {
	for _, provider := range []string{"anthropic", "google", "ollama"} {
		t.Run(provider, func(t *testing.T) {
			srv, seen := fakeServer(t, http.StatusOK, chatReply("reply from "+provider))

			c, err := NewCompleter(llm(provider, srv.URL+"/"), nil)
			require.NoError(t, err)
			text, err := c.Complete(context.Background(), chat)
			require.NoError(t, err)
			require.Equal(t, "reply from "+provider, text)

			require.Equal(t, "/chat/completions", seen.path, "trailing slash on base url is dropped")
			require.Equal(t, "Bearer secret", seen.headers.Get("Authorization"))
			require.Equal(t, "test-model", seen.body["model"])
			require.EqualValues(t, 100, seen.body["max_tokens"])
			msgs := seen.body["messages"].([]any)
			require.Len(t, msgs, 2)
			require.Equal(t, "system", msgs[0].(map[string]any)["role"])
		})
	}
}

func TestCompatibleProviders_APIError(t *testing.T) {
	tests := []struct {
		provider string
		status   int
		want     string
	}{
		{provider: "anthropic", status: http.StatusTooManyRequests, want: "Anthropic API error: 429 Too Many Requests"},
		{provider: "google", status: http.StatusForbidden, want: "Google AI API error: 403 Forbidden"},
		{provider: "ollama", status: http.StatusNotFound, want: "Ollama API error: 404 Not Found"},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			srv, _ := fakeServer(t, tt.status, `{"error":{"message":"nope","type":"error"}}`)
			c, err := NewCompleter(llm(tt.provider, srv.URL), nil)
			require.NoError(t, err)
			_, err = c.Complete(context.Background(), chat)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			require.Equal(t, tt.provider, apiErr.Provider)
			require.EqualError(t, err, tt.want)
		})
	}
}

func TestCompleter_EmptyReply(t *testing.T) {
	srv, _ := fakeServer(t, http.StatusOK, `{"id":"1","object":"chat.completion","choices":[]}`)
	c, err := NewCompleter(llm("google", srv.URL), nil)
	require.NoError(t, err)
	_, err = c.Complete(context.Background(), chat)
	require.ErrorIs(t, err, ErrEmptyReply)
}

func TestDefaultBaseURLs(t *testing.T) {
	require.Equal(t, "https://generativelanguage.googleapis.com/v1beta/openai", DefaultBaseURLs["google"])
	require.Equal(t, "http://localhost:11434/v1", DefaultBaseURLs["ollama"])
	for provider, base := range DefaultBaseURLs {
		require.NotContains(t, base, "/chat/completions", provider)
		require.False(t, strings.HasSuffix(base, "/"), provider)
	}
}

func TestNewCompleter_UnknownProvider(t *testing.T) {
	_, err := NewCompleter(config.LLMConfig{Provider: "mystery"}, nil)
	require.EqualError(t, err, "unsupported provider: mystery")
}

type countingCompleter struct {
	calls atomic.Int32
	reply string
	err   error
	last  []Message
}

func (c *countingCompleter) Complete(_ context.Context, messages []Message) (string, error) {
	c.calls.Add(1)
	c.last = messages
	return c.reply, c.err
}

func TestConfigured(t *testing.T) {
	require.True(t, Configured(config.LLMConfig{Provider: "ollama"}))
	require.False(t, Configured(config.LLMConfig{Provider: "openai"}))
	require.True(t, Configured(config.LLMConfig{Provider: "openai", APIKey: "k"}))
	require.False(t, Configured(config.LLMConfig{}))
	require.False(t, Configured(config.LLMConfig{Provider: "custom", APIKey: "k"}), "no default model")
}

func TestCritic_Run(t *testing.T) {
	fake := &countingCompleter{reply: "1. What tone?"}
	cfg := llm("openai", "")
	cfg.CacheTTL = time.Minute
	critic, err := New(cfg, WithCompleter(fake))
	require.NoError(t, err)
	ctx := context.Background()

	res, err := critic.Run(ctx, Request{Kind: Questions, Prompt: "  <a>x</a>\n"})
	require.NoError(t, err)
	require.Equal(t, Result{Text: "1. What tone?"}, res)
	require.Contains(t, fake.last[1].Content, "Prompt to analyze:\n\n<a>x</a>\n\n", "prompt is trimmed")

	res, err = critic.Run(ctx, Request{Kind: Questions, Prompt: "<a>x</a>"})
	require.NoError(t, err)
	require.True(t, res.Cached)
	require.EqualValues(t, 1, fake.calls.Load())

	_, err = critic.Run(ctx, Request{Kind: Analysis, Prompt: "<a>x</a>"})
	require.NoError(t, err)
	_, err = critic.Run(ctx, Request{Kind: Questions, Prompt: "<a>x</a>", Focus: "tone"})
	require.NoError(t, err)
	require.EqualValues(t, 3, fake.calls.Load(), "kind and focus are part of the key")
}

func TestCritic_NoCacheWhenTTLZero(t *testing.T) {
	fake := &countingCompleter{reply: "ok"}
	critic, err := New(llm("openai", ""), WithCompleter(fake))
	require.NoError(t, err)

	for range 2 {
		res, err := critic.Run(context.Background(), Request{Kind: Analysis, Prompt: "<p/>"})
		require.NoError(t, err)
		require.False(t, res.Cached)
	}
	require.EqualValues(t, 2, fake.calls.Load())
}

func TestCritic_Errors(t *testing.T) {
	fake := &countingCompleter{err: errors.New("down")}
	cfg := llm("openai", "")
	cfg.CacheTTL = time.Minute
	critic, err := New(cfg, WithCompleter(fake))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = critic.Run(ctx, Request{Kind: Questions, Prompt: " \n\t"})
	require.ErrorIs(t, err, ErrEmptyPrompt)
	require.EqualError(t, err, "No prompt content found in editor.")
	require.Zero(t, fake.calls.Load())

	_, err = critic.Run(ctx, Request{Kind: Questions, Prompt: "<a/>"})
	require.EqualError(t, err, "down")
	_, err = critic.Run(ctx, Request{Kind: Questions, Prompt: "<a/>"})
	require.Error(t, err)
	require.EqualValues(t, 2, fake.calls.Load(), "failures are not cached")

	cfg.APIKey = ""
	unconfigured, err := New(cfg, WithCompleter(fake))
	require.NoError(t, err)
	_, err = unconfigured.Run(ctx, Request{Kind: Questions, Prompt: "<a/>"})
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestCritic_OverHTTP(t *testing.T) {
	srv, seen := fakeServer(t, http.StatusOK, chatReply("fine"))
	cfg := llm("ollama", srv.URL)
	cfg.APIKey = ""

	critic, err := New(cfg, WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	res, err := critic.Run(context.Background(), Request{Kind: Analysis, Prompt: "<task>sum</task>", Focus: "scope"})
	require.NoError(t, err)
	require.Equal(t, "fine", res.Text)

	msgs := seen.body["messages"].([]any)
	require.Contains(t, msgs[1].(map[string]any)["content"], `specific focus on: "scope"`)
}
