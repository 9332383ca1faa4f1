package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/SoloveyLS/xml-prompt-manager/internal/templates"
)

const templateColumns = `id, guid, kind, name, content, created_at, updated_at`

// templateRepository implements templates.Repository using SQLite.
type templateRepository struct {
	db *sql.DB
}

func newTemplateRepository(db *sql.DB) *templateRepository {
	return &templateRepository{db: db}
}

var _ templates.Repository = (*templateRepository)(nil)

func scanTemplate(scanner interface{ Scan(...any) error }) (*TemplateModel, error) {
	var model TemplateModel
	err := scanner.Scan(
		&model.ID, &model.GUID, &model.Kind, &model.Name, &model.Content,
		&model.CreatedAt, &model.UpdatedAt,
	)
	return &model, err
}

// Save upserts on (kind, name). A replaced template keeps its id, guid and
// created_at, so list order is stable across overwrites.
func (r *templateRepository) Save(ctx context.Context, t *templates.Template) error {
	if t.GUID == "" {
		t.GUID = uuid.New().String()
	}
	model := toTemplateModel(t)

	row := r.db.QueryRowContext(ctx,
		`INSERT INTO templates (guid, kind, name, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (kind, name) DO UPDATE SET
			content = excluded.content,
			updated_at = excluded.updated_at
		RETURNING `+templateColumns,
		model.GUID, model.Kind, model.Name, model.Content, model.CreatedAt, model.UpdatedAt,
	)
	saved, err := scanTemplate(row)
	if err != nil {
		return fmt.Errorf("failed to save template: %w", err)
	}
	*t = *saved.toDomain()
	return nil
}

// FindByName returns NotFoundError when no row matches.
func (r *templateRepository) FindByName(ctx context.Context, kind templates.Kind, name string) (*templates.Template, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+templateColumns+` FROM templates WHERE kind = ? AND name = ?`,
		string(kind), name,
	)
	model, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &templates.NotFoundError{Kind: kind, Name: name}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find template: %w", err)
	}
	return model.toDomain(), nil
}

func (r *templateRepository) List(ctx context.Context, kind templates.Kind) ([]*templates.Template, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+templateColumns+` FROM templates WHERE kind = ? ORDER BY id`,
		string(kind),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var list []*templates.Template
	for rows.Next() {
		model, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		list = append(list, model.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate templates: %w", err)
	}
	return list, nil
}

func (r *templateRepository) Delete(ctx context.Context, kind templates.Kind, name string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM templates WHERE kind = ? AND name = ?`,
		string(kind), name,
	)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return &templates.NotFoundError{Kind: kind, Name: name}
	}
	return nil
}

func (r *templateRepository) Count(ctx context.Context, kind templates.Kind) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM templates WHERE kind = ?`, string(kind),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count templates: %w", err)
	}
	return n, nil
}
