package sqlite

import (
	"time"

	"github.com/SoloveyLS/xml-prompt-manager/internal/templates"
)

// TemplateModel is a templates row. Times are Unix seconds.
type TemplateModel struct {
	ID        int64
	GUID      string
	Kind      string
	Name      string
	Content   string
	CreatedAt int64
	UpdatedAt int64
}

func toTemplateModel(t *templates.Template) *TemplateModel {
	return &TemplateModel{
		ID:        t.ID,
		GUID:      t.GUID,
		Kind:      string(t.Kind),
		Name:      t.Name,
		Content:   t.Content,
		CreatedAt: t.CreatedAt.Unix(),
		UpdatedAt: t.UpdatedAt.Unix(),
	}
}

func (m *TemplateModel) toDomain() *templates.Template {
	return &templates.Template{
		ID:        m.ID,
		GUID:      m.GUID,
		Kind:      templates.Kind(m.Kind),
		Name:      m.Name,
		Content:   m.Content,
		CreatedAt: time.Unix(m.CreatedAt, 0),
		UpdatedAt: time.Unix(m.UpdatedAt, 0),
	}
}

// SessionModel is the single session row.
type SessionModel struct {
	EditorContent string
	ActiveTab     string
	UpdatedAt     int64
}

func (m *SessionModel) toDomain() *templates.Session {
	return &templates.Session{
		Content:   m.EditorContent,
		ActiveTab: templates.Kind(m.ActiveTab),
		UpdatedAt: time.Unix(m.UpdatedAt, 0),
	}
}
