package templates

import (
	"context"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/SoloveyLS/xml-prompt-manager/internal/log"
	"github.com/SoloveyLS/xml-prompt-manager/internal/pubsub"
	"github.com/SoloveyLS/xml-prompt-manager/internal/tracing"
)

// Event is published on the service broker after every store change.
type Event struct {
	Kind Kind
	Name string
	// Template is nil for deletions.
	Template *Template
}

// Service applies the template rules on top of the repositories.
type Service struct {
	repo     Repository
	sessions SessionRepository
	broker   *pubsub.Broker[Event]
	seeds    fs.FS
	now      func() time.Time
	tracer   trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithSeeds replaces the embedded seed directory.
func WithSeeds(fsys fs.FS) Option {
	return func(s *Service) { s.seeds = fsys }
}

// NewService creates a Service. sessions may be nil when the caller never
// touches the session.
func NewService(repo Repository, sessions SessionRepository, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		sessions: sessions,
		broker:   pubsub.NewBroker[Event](),
		seeds:    SeedFS(),
		now:      time.Now,
		tracer:   otel.Tracer("xpm/templates"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Broker returns the change broker.
func (s *Service) Broker() *pubsub.Broker[Event] {
	return s.broker
}

// Close shuts down the change broker.
func (s *Service) Close() {
	s.broker.Close()
}

func (s *Service) start(ctx context.Context, op string, kind Kind, name string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "templates."+op, trace.WithAttributes(
		attribute.String(tracing.AttrTemplateKind, string(kind)),
		attribute.String(tracing.AttrTemplateName, name),
	))
}

// Save validates content for kind and stores it under name. Name and
// content are trimmed first. An existing template with the same name is
// overwritten.
func (s *Service) Save(ctx context.Context, kind Kind, name, content string) (_ *Template, err error) {
	name = strings.TrimSpace(name)
	content = strings.TrimSpace(content)

	ctx, span := s.start(ctx, "save", kind, name)
	defer func() { tracing.End(span, err) }()

	if name == "" {
		return nil, ErrInvalidName
	}
	if res := kind.Validate(content); !res.Valid {
		return nil, &ValidationError{Kind: kind, Name: name, Result: res}
	}
	return s.store(ctx, kind, name, content)
}

func (s *Service) store(ctx context.Context, kind Kind, name, content string) (*Template, error) {
	now := s.now()
	t := &Template{Kind: kind, Name: name, Content: content, CreatedAt: now, UpdatedAt: now}

	existed := true
	if _, err := s.repo.FindByName(ctx, kind, name); err != nil {
		if !IsNotFound(err) {
			return nil, err
		}
		existed = false
	}

	if err := s.repo.Save(ctx, t); err != nil {
		return nil, fmt.Errorf("saving %s template %q: %w", kind, name, err)
	}

	event := pubsub.CreatedEvent
	if existed {
		event = pubsub.UpdatedEvent
	}
	s.broker.Publish(event, Event{Kind: kind, Name: name, Template: t})
	log.Debug(log.CatDB, "Template saved", "kind", kind, "name", name, "event", event)
	return t, nil
}

// Get returns the template of kind named name.
func (s *Service) Get(ctx context.Context, kind Kind, name string) (_ *Template, err error) {
	ctx, span := s.start(ctx, "get", kind, name)
	defer func() { tracing.End(span, err) }()
	return s.repo.FindByName(ctx, kind, strings.TrimSpace(name))
}

// List returns the templates of kind in creation order.
func (s *Service) List(ctx context.Context, kind Kind) (_ []*Template, err error) {
	ctx, span := s.start(ctx, "list", kind, "")
	defer func() { tracing.End(span, err) }()
	return s.repo.List(ctx, kind)
}

// Delete removes the template of kind named name.
func (s *Service) Delete(ctx context.Context, kind Kind, name string) (err error) {
	name = strings.TrimSpace(name)
	ctx, span := s.start(ctx, "delete", kind, name)
	defer func() { tracing.End(span, err) }()

	if err := s.repo.Delete(ctx, kind, name); err != nil {
		return err
	}
	s.broker.Publish(pubsub.DeletedEvent, Event{Kind: kind, Name: name})
	log.Debug(log.CatDB, "Template deleted", "kind", kind, "name", name)
	return nil
}

// Seed writes the built-in templates for every kind that has none and
// returns how many were written.
func (s *Service) Seed(ctx context.Context) (int, error) {
	written := 0
	for _, kind := range Kinds {
		n, err := s.repo.Count(ctx, kind)
		if err != nil {
			return written, fmt.Errorf("counting %s templates: %w", kind, err)
		}
		if n > 0 {
			continue
		}
		seeds, err := Seeds(s.seeds, kind)
		if err != nil {
			return written, err
		}
		for _, seed := range seeds {
			if _, err := s.store(ctx, kind, seed.Name, seed.Content); err != nil {
				return written, err
			}
			written++
		}
	}
	if written > 0 {
		log.Info(log.CatDB, "Seeded templates", "count", written)
	}
	return written, nil
}

// Export builds an envelope holding every template and, when session is
// not nil, the editor state.
func (s *Service) Export(ctx context.Context, session *Session) (*Envelope, error) {
	env := &Envelope{
		App:        App,
		Version:    EnvelopeVersion,
		ExportedAt: s.now().UTC(),
		Templates: EnvelopeTemplates{
			Structures: map[string]string{},
			Fields:     map[string]string{},
		},
	}
	for _, kind := range Kinds {
		list, err := s.repo.List(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("listing %s templates: %w", kind, err)
		}
		target := env.Templates.Structures
		if kind == Field {
			target = env.Templates.Fields
		}
		for _, t := range list {
			target[t.Name] = t.Content
		}
	}
	if session != nil {
		tab := session.ActiveTab
		if tab == "" {
			tab = Structure
		}
		env.Session = &EnvelopeSession{EditorContent: session.Content, ActiveTab: tab}
	}
	return env, nil
}

// ImportResult counts what Import changed.
type ImportResult struct {
	Structures int
	Fields     int
	// Session is set when the stored session was updated.
	Session bool
}

// Import merges imp into the store. Imported templates replace same-name
// ones and are stored as given, without validation.
func (s *Service) Import(ctx context.Context, imp *Import) (ImportResult, error) {
	var res ImportResult
	for _, kind := range Kinds {
		values := imp.Structures
		count := &res.Structures
		if kind == Field {
			values = imp.Fields
			count = &res.Fields
		}
		names := make([]string, 0, len(values))
		for name := range values {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			if _, err := s.store(ctx, kind, name, values[name]); err != nil {
				return res, err
			}
			*count++
		}
	}

	if s.sessions == nil || (imp.Content == nil && imp.ActiveTab == "") {
		return res, nil
	}
	session, err := s.sessions.Load(ctx)
	if err != nil {
		return res, fmt.Errorf("loading session: %w", err)
	}
	if imp.Content != nil {
		session.Content = *imp.Content
	}
	if imp.ActiveTab != "" {
		session.ActiveTab = imp.ActiveTab
	}
	session.UpdatedAt = s.now()
	if err := s.sessions.Save(ctx, session); err != nil {
		return res, fmt.Errorf("saving session: %w", err)
	}
	res.Session = true
	return res, nil
}

// LoadSession returns the stored editor session.
func (s *Service) LoadSession(ctx context.Context) (*Session, error) {
	if s.sessions == nil {
		return &Session{ActiveTab: Structure}, nil
	}
	return s.sessions.Load(ctx)
}

// SaveSession stores session unless it matches what is already stored.
// It reports whether anything was written.
func (s *Service) SaveSession(ctx context.Context, session *Session) (bool, error) {
	if s.sessions == nil {
		return false, nil
	}
	current, err := s.sessions.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("loading session: %w", err)
	}
	if current.Content == session.Content && current.ActiveTab == session.ActiveTab {
		return false, nil
	}
	session.UpdatedAt = s.now()
	if err := s.sessions.Save(ctx, session); err != nil {
		return false, fmt.Errorf("saving session: %w", err)
	}
	log.Debug(log.CatDB, "Session saved", "bytes", len(session.Content), "tab", session.ActiveTab)
	return true, nil
}
