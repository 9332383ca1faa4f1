package presentation

import (
	"time"

	"github.com/SoloveyLS/xml-prompt-manager/internal/templates"
	"github.com/SoloveyLS/xml-prompt-manager/internal/validate"
)

// TemplateDTO is a stored template for JSON output.
type TemplateDTO struct {
	Kind      string    `json:"kind"`
	Name      string    `json:"name"`
	GUID      string    `json:"guid"`
	Content   string    `json:"content,omitempty"`
	Valid     bool      `json:"valid"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromTemplate converts t. Content is only included when withContent is
// set; Valid always reflects the rule for the template's kind.
func FromTemplate(t *templates.Template, withContent bool) TemplateDTO {
	dto := TemplateDTO{
		Kind:      string(t.Kind),
		Name:      t.Name,
		GUID:      t.GUID,
		Valid:     t.Kind.Validate(t.Content).Valid,
		CreatedAt: t.CreatedAt.UTC(),
		UpdatedAt: t.UpdatedAt.UTC(),
	}
	if withContent {
		dto.Content = t.Content
	}
	return dto
}

// FromTemplates converts a list, keeping its order.
func FromTemplates(list []*templates.Template, withContent bool) []TemplateDTO {
	dtos := make([]TemplateDTO, len(list))
	for i, t := range list {
		dtos[i] = FromTemplate(t, withContent)
	}
	return dtos
}

// ValidationDTO is one file's validation outcome.
type ValidationDTO struct {
	Path  string `json:"path"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// FromValidation converts the result for path.
func FromValidation(path string, res validate.Result) ValidationDTO {
	return ValidationDTO{Path: path, Valid: res.Valid, Error: res.Err}
}
