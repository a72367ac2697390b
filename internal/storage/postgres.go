// Package storage provides Note persistence: a Postgres repository for
// production and an in-memory store for tests. Both satisfy notes.Store.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"

	"github.com/kuitang/daybook/internal/errs"
	"github.com/kuitang/daybook/internal/notes"
)

// PostgresStore persists notes in a single Postgres table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an open connection pool.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Open opens and pings a Postgres connection pool. The pool is created once
// at process start and held for the process lifetime.
func Open(ctx context.Context, databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// RunMigrations applies all pending schema migrations from sourceDir.
func RunMigrations(databaseURL, sourceDir string) error {
	m, err := migrate.New("file://"+sourceDir, databaseURL)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func (s *PostgresStore) Insert(ctx context.Context, note notes.Note) error {
	query := `INSERT INTO notes (id, title, text, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := s.db.ExecContext(ctx, query, note.ID, note.Title, note.Text, note.CreatedAt); err != nil {
		return errs.Wrap(errs.Internal, "store error", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, bounds *notes.DayBounds) ([]notes.Note, error) {
	builder := sq.
		Select("id", "title", "text", "created_at").
		From("notes")

	if bounds != nil {
		builder = builder.
			Where(sq.GtOrEq{"created_at": bounds.Start}).
			Where(sq.Lt{"created_at": bounds.End})
	}

	builder = builder.
		OrderBy("created_at", "id").
		PlaceholderFormat(sq.Dollar)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "store error", err)
	}
	defer rows.Close()

	listed := make([]notes.Note, 0)
	for rows.Next() {
		var note notes.Note
		if err := rows.Scan(&note.ID, &note.Title, &note.Text, &note.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		listed = append(listed, note)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.Internal, "store error", err)
	}

	return listed, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) (notes.Note, error) {
	query := `DELETE FROM notes WHERE id = $1 RETURNING id, title, text, created_at`

	var note notes.Note
	err := s.db.QueryRowContext(ctx, query, id).
		Scan(&note.ID, &note.Title, &note.Text, &note.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return notes.Note{}, errs.Newf(errs.NotFound, "note not found: %s", id)
	}
	if err != nil {
		return notes.Note{}, errs.Wrap(errs.Internal, "store error", err)
	}
	return note, nil
}
