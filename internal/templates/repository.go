package templates

import "context"

// Repository persists templates.
type Repository interface {
	// Save inserts t, or replaces the content of the template with the same
	// kind and name. ID and GUID are set on t after the call.
	Save(ctx context.Context, t *Template) error

	// FindByName returns NotFoundError if no template matches.
	FindByName(ctx context.Context, kind Kind, name string) (*Template, error)

	// List returns the templates of kind in creation order.
	List(ctx context.Context, kind Kind) ([]*Template, error)

	// Delete returns NotFoundError if no template matches.
	Delete(ctx context.Context, kind Kind, name string) error

	Count(ctx context.Context, kind Kind) (int, error)
}

// SessionRepository persists the single editor session.
type SessionRepository interface {
	// Load returns an empty structure-tab session when none was saved.
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, s *Session) error
}
