// Package storetest sets up template stores for tests.
package storetest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SoloveyLS/xml-prompt-manager/internal/infrastructure/sqlite"
	"github.com/SoloveyLS/xml-prompt-manager/internal/templates"
)

// NewTestDB opens a migrated store in a temp directory. It is closed when
// the test ends.
func NewTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.NewDB(filepath.Join(t.TempDir(), "xpm.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// NewService returns a service over db, closed when the test ends.
func NewService(t *testing.T, db *sqlite.DB, opts ...templates.Option) *templates.Service {
	t.Helper()
	svc := templates.NewService(db.TemplateRepository(), db.SessionRepository(), opts...)
	t.Cleanup(svc.Close)
	return svc
}

// NewTestService opens a fresh store and returns its service.
func NewTestService(t *testing.T) *templates.Service {
	t.Helper()
	return NewService(t, NewTestDB(t))
}
