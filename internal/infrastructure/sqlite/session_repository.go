package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SoloveyLS/xml-prompt-manager/internal/templates"
)

// sessionRepository implements templates.SessionRepository using SQLite.
// The table holds at most one row, id 1.
type sessionRepository struct {
	db *sql.DB
}

func newSessionRepository(db *sql.DB) *sessionRepository {
	return &sessionRepository{db: db}
}

var _ templates.SessionRepository = (*sessionRepository)(nil)

// Load returns an empty structure-tab session when nothing was saved.
func (r *sessionRepository) Load(ctx context.Context) (*templates.Session, error) {
	var model SessionModel
	err := r.db.QueryRowContext(ctx,
		`SELECT editor_content, active_tab, updated_at FROM session WHERE id = 1`,
	).Scan(&model.EditorContent, &model.ActiveTab, &model.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return &templates.Session{ActiveTab: templates.Structure}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return model.toDomain(), nil
}

func (r *sessionRepository) Save(ctx context.Context, s *templates.Session) error {
	tab := s.ActiveTab
	if tab == "" {
		tab = templates.Structure
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO session (id, editor_content, active_tab, updated_at) VALUES (1, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			editor_content = excluded.editor_content,
			active_tab = excluded.active_tab,
			updated_at = excluded.updated_at`,
		s.Content, string(tab), s.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}
