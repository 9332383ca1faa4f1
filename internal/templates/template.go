// Package templates holds the reusable prompt snippets kept in the store.
//
// Structure templates are whole prompts that replace the editor buffer.
// Field templates are single-root fragments inserted at the caret.
package templates

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SoloveyLS/xml-prompt-manager/internal/validate"
)

// Kind distinguishes the two template lists.
type Kind string

const (
	Structure Kind = "structure"
	Field     Kind = "field"
)

// Kinds lists every kind in sidebar order.
var Kinds = []Kind{Structure, Field}

// ParseKind accepts a kind name, singular or plural.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "structure", "structures":
		return Structure, nil
	case "field", "fields":
		return Field, nil
	}
	return "", fmt.Errorf("unknown template kind %q (want structure or field)", s)
}

// Label is the capitalized kind used in status messages.
func (k Kind) Label() string {
	if k == Field {
		return "Field"
	}
	return "Structure"
}

// Validate applies the rule for the kind: structures must be well formed,
// fields must also have exactly one root element.
func (k Kind) Validate(content string) validate.Result {
	if k == Field {
		return validate.SingleRoot(content)
	}
	return validate.Structure(content)
}

// Template is a named snippet. Names are unique within a kind.
type Template struct {
	ID        int64
	GUID      string
	Kind      Kind
	Name      string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Session is the editor state kept between runs.
type Session struct {
	Content   string
	ActiveTab Kind
	UpdatedAt time.Time
}

// ErrInvalidName is returned when a template name is blank.
var ErrInvalidName = errors.New("Please enter a template name") //nolint:staticcheck // shown verbatim in the UI

// NotFoundError is returned when no template has the given kind and name.
type NotFoundError struct {
	Kind Kind
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s template not found: %s", e.Kind, e.Name)
}

// ValidationError is returned when content fails the kind's validation.
type ValidationError struct {
	Kind   Kind
	Name   string
	Result validate.Result
}

func (e *ValidationError) Error() string {
	return e.Result.Err
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
