// Package sqlite implements the template store on an SQLite file.
package sqlite

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/SoloveyLS/xml-prompt-manager/internal/log"
	"github.com/SoloveyLS/xml-prompt-manager/internal/templates"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// DB owns the connection pool and hands out repositories.
type DB struct {
	conn *sql.DB
	path string
}

// NewDB opens (creating if needed) the database at path and applies pending
// migrations. An existing file is copied to path+".bak" first.
func NewDB(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		if err := backup(path, path+".bak"); err != nil {
			return nil, fmt.Errorf("failed to back up database: %w", err)
		}
	}

	dsn := "file:" + path +
		"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(wal)"
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := runMigrations(conn); err != nil {
		_ = conn.Close()
		return nil, err
	}

	log.Info(log.CatDB, "Opened template store", "path", path)
	return &DB{conn: conn, path: path}, nil
}

// Connection returns the underlying pool.
func (db *DB) Connection() *sql.DB {
	return db.conn
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// Close closes the pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// TemplateRepository returns the template repository.
func (db *DB) TemplateRepository() templates.Repository {
	return newTemplateRepository(db.conn)
}

// SessionRepository returns the editor session repository.
func (db *DB) SessionRepository() templates.SessionRepository {
	return newSessionRepository(db.conn)
}

// SchemaVersion returns the highest applied migration, 0 for none.
func (db *DB) SchemaVersion() (uint, error) {
	var version uint
	err := db.conn.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&version)
	return version, err
}

func backup(src, dst string) error {
	in, err := os.Open(src) //nolint:gosec // G304: path comes from config
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600) //nolint:gosec // G304
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// runMigrations applies every embedded up migration newer than the
// recorded version, each in its own transaction.
func runMigrations(conn *sql.DB) error {
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	defer func() { _ = src.Close() }()

	if _, err := conn.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at INTEGER NOT NULL
	)`); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	var current uint
	if err := conn.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	version, err := src.First()
	for ; err == nil; version, err = src.Next(version) {
		if version <= current {
			continue
		}
		r, name, err := src.ReadUp(version)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read migration %d: %w", version, err)
		}
		script, err := io.ReadAll(r)
		_ = r.Close()
		if err != nil {
			return fmt.Errorf("failed to read migration %d: %w", version, err)
		}
		if err := applyMigration(conn, version, name, string(script)); err != nil {
			return err
		}
		log.Info(log.CatDB, "Applied migration", "version", version, "name", name)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to list migrations: %w", err)
	}
	return nil
}

func applyMigration(conn *sql.DB, version uint, name, script string) error {
	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin migration %d: %w", version, err)
	}
	defer func() { _ = tx.Rollback() }()

	// The driver runs every statement of an argument-free Exec.
	if _, err := tx.Exec(script); err != nil {
		return fmt.Errorf("migration %d (%s) failed: %w", version, name, err)
	}
	if _, err := tx.Exec(
		`INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)`,
		version, name, time.Now().Unix(),
	); err != nil {
		return fmt.Errorf("failed to record migration %d: %w", version, err)
	}
	return tx.Commit()
}
