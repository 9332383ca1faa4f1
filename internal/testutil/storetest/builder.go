package storetest

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/SoloveyLS/xml-prompt-manager/internal/infrastructure/sqlite"
	"github.com/SoloveyLS/xml-prompt-manager/internal/templates"
)

// Builder accumulates rows and inserts them directly, bypassing template
// validation so tests can also seed content the service would reject.
type Builder struct {
	t         *testing.T
	db        *sqlite.DB
	templates []templateData
	session   *sessionData
}

// NewBuilder creates a builder for db.
func NewBuilder(t *testing.T, db *sqlite.DB) *Builder {
	t.Helper()
	return &Builder{t: t, db: db}
}

// WithTemplate adds a template. Without Content the content is an empty
// element named after the kind.
func (b *Builder) WithTemplate(kind templates.Kind, name string, opts ...TemplateOption) *Builder {
	now := time.Now()
	d := templateData{
		kind:      string(kind),
		name:      name,
		content:   "<" + string(kind) + "></" + string(kind) + ">",
		createdAt: now,
		updatedAt: now,
	}
	for _, opt := range opts {
		opt(&d)
	}
	if d.guid == "" {
		d.guid = uuid.NewString()
	}
	b.templates = append(b.templates, d)
	return b
}

// WithStructure adds a structure template with content.
func (b *Builder) WithStructure(name, content string) *Builder {
	return b.WithTemplate(templates.Structure, name, Content(content))
}

// WithField adds a field template with content.
func (b *Builder) WithField(name, content string) *Builder {
	return b.WithTemplate(templates.Field, name, Content(content))
}

// WithSession sets the saved editor buffer and tab.
func (b *Builder) WithSession(content string, tab templates.Kind) *Builder {
	b.session = &sessionData{content: content, activeTab: string(tab), updatedAt: time.Now()}
	return b
}

// Build inserts the rows in the order they were added.
func (b *Builder) Build() {
	b.t.Helper()
	for _, d := range b.templates {
		b.insertTemplate(d)
	}
	if b.session != nil {
		b.insertSession(*b.session)
	}
}

func (b *Builder) insertTemplate(d templateData) {
	b.t.Helper()
	_, err := b.db.Connection().Exec(
		`INSERT INTO templates (guid, kind, name, content, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		d.guid, d.kind, d.name, d.content, d.createdAt.Unix(), d.updatedAt.Unix(),
	)
	require.NoError(b.t, err)
}

func (b *Builder) insertSession(s sessionData) {
	b.t.Helper()
	_, err := b.db.Connection().Exec(
		`INSERT INTO session (id, editor_content, active_tab, updated_at) VALUES (1, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
			editor_content = excluded.editor_content,
			active_tab = excluded.active_tab,
			updated_at = excluded.updated_at`,
		s.content, s.activeTab, s.updatedAt.Unix(),
	)
	require.NoError(b.t, err)
}
