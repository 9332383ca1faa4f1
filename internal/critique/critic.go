// Package critique asks an LLM to question or explain the prompt in the
// editor. Replies are cached per provider, model and prompt.
package critique

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/SoloveyLS/xml-prompt-manager/internal/cachemanager"
	"github.com/SoloveyLS/xml-prompt-manager/internal/config"
	"github.com/SoloveyLS/xml-prompt-manager/internal/log"
	"github.com/SoloveyLS/xml-prompt-manager/internal/tracing"
)

var (
	// ErrEmptyPrompt is returned when the buffer holds only whitespace.
	ErrEmptyPrompt = errors.New("No prompt content found in editor.") //nolint:staticcheck // shown verbatim
	// ErrNotConfigured is returned when the provider needs a key or model
	// that is not set.
	ErrNotConfigured = errors.New("LLM is not configured: set llm.provider, llm.model and llm.api_key (or XPM_LLM_API_KEY)")
)

// Result is a critique reply.
type Result struct {
	Text   string
	Cached bool
}

// Critic runs critiques against one configured backend.
type Critic struct {
	cfg       config.LLMConfig
	completer Completer
	cache     *cachemanager.ReadThroughCache[string, string, []Message]
	tracer    trace.Tracer
}

// Option configures a Critic.
type Option func(*critOptions)

type critOptions struct {
	completer  Completer
	httpClient *http.Client
	cache      cachemanager.CacheManager[string, string]
}

// WithCompleter replaces the provider client.
func WithCompleter(c Completer) Option {
	return func(o *critOptions) { o.completer = c }
}

// WithHTTPClient sets the client used for provider requests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *critOptions) { o.httpClient = c }
}

// WithCache replaces the in-memory reply cache.
func WithCache(c cachemanager.CacheManager[string, string]) Option {
	return func(o *critOptions) { o.cache = c }
}

// Configured reports whether cfg has what its provider needs. Ollama
// runs locally and needs no key.
func Configured(cfg config.LLMConfig) bool {
	if cfg.Provider == "" || cfg.ModelOrDefault() == "" {
		return false
	}
	return cfg.Provider == "ollama" || cfg.APIKey != ""
}

// New builds a Critic for cfg. A zero CacheTTL disables caching.
func New(cfg config.LLMConfig, opts ...Option) (*Critic, error) {
	var o critOptions
	for _, opt := range opts {
		opt(&o)
	}

	completer := o.completer
	if completer == nil {
		c, err := NewCompleter(cfg, o.httpClient)
		if err != nil {
			return nil, err
		}
		completer = c
	}

	cache := o.cache
	if cache == nil {
		cache = cachemanager.NewInMemoryCacheManager[string, string]("critique", cfg.CacheTTL, cachemanager.DefaultCleanupInterval)
	}

	c := &Critic{
		cfg:       cfg,
		completer: completer,
		tracer:    otel.Tracer("xpm/critique"),
	}
	c.cache = cachemanager.NewReadThroughCache(cache, c.complete, cfg.CacheTTL <= 0)
	return c, nil
}

func (c *Critic) complete(ctx context.Context, messages []Message) (string, error) {
	return c.completer.Complete(ctx, messages)
}

// Run performs req. The prompt is trimmed first.
func (c *Critic) Run(ctx context.Context, req Request) (_ Result, err error) {
	req.Prompt = strings.TrimSpace(req.Prompt)
	req.Focus = strings.TrimSpace(req.Focus)
	if req.Prompt == "" {
		return Result{}, ErrEmptyPrompt
	}
	if !Configured(c.cfg) {
		return Result{}, ErrNotConfigured
	}

	ctx, span := c.tracer.Start(ctx, "critique."+string(req.Kind), trace.WithAttributes(
		attribute.String(tracing.AttrLLMProvider, c.cfg.Provider),
		attribute.String(tracing.AttrLLMModel, c.cfg.ModelOrDefault()),
		attribute.String(tracing.AttrCritiqueKind, string(req.Kind)),
		attribute.Int(tracing.AttrPromptBytes, len(req.Prompt)),
	))
	defer func() { tracing.End(span, err) }()

	key := cachemanager.Key(c.cfg.Provider, c.cfg.ModelOrDefault(), c.cfg.BaseURL, string(req.Kind), req.Focus, req.Prompt)
	start := time.Now()
	text, hit, err := c.cache.Get(ctx, key, Messages(req), c.cfg.CacheTTL)
	span.SetAttributes(attribute.Bool(tracing.AttrCacheHit, hit))
	if err != nil {
		log.ErrorErr(log.CatLLM, "Critique failed", err, "provider", c.cfg.Provider, "kind", req.Kind)
		return Result{}, err
	}
	log.Debug(log.CatLLM, "Critique complete", "provider", c.cfg.Provider, "kind", req.Kind,
		"cached", hit, "elapsed", time.Since(start))
	return Result{Text: text, Cached: hit}, nil
}
