package comments

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Comment is a stored comment row.
type Comment struct {
	ID        int64
	PostSlug  string
	Nickname  string // empty for anonymous
	Content   string
	ParentID  int64 // 0 for top-level comments
	CreatedAt time.Time
}

// Store persists comments in SQLite.
// Uses WAL mode and a single-writer connection pool.
type Store struct {
	db *sql.DB
}

// Open creates or opens the comment database at path, creating the parent
// directory if needed. Applies pragmas and the schema; idempotent.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o775); err != nil {
			return nil, fmt.Errorf("creating database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY under concurrent comment posts.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying pragmas: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("executing %q: %w", pragma, err)
		}
	}

	return nil
}

// Create inserts a comment and returns it with ID and CreatedAt set.
// An empty nickname is stored as NULL, a zero parentID as NULL.
func (s *Store) Create(ctx context.Context, c Comment) (Comment, error) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	var nickname any
	if c.Nickname != "" {
		nickname = c.Nickname
	}
	var parent any
	if c.ParentID != 0 {
		parent = c.ParentID
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO comments (post_slug, nickname, content, parent_id, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, c.PostSlug, nickname, c.Content, parent, c.CreatedAt)
	if err != nil {
		return Comment{}, fmt.Errorf("create comment: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return Comment{}, fmt.Errorf("create comment: %w", err)
	}
	c.ID = id

	return c, nil
}

// ListByPost returns the post's comments, oldest first.
func (s *Store) ListByPost(ctx context.Context, slug string) ([]Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, post_slug, nickname, content, parent_id, created_at
		FROM comments
		WHERE post_slug = ?
		ORDER BY created_at ASC, id ASC
	`, slug)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var out []Comment
	for rows.Next() {
		var (
			c        Comment
			nickname sql.NullString
			parent   sql.NullInt64
		)
		if err := rows.Scan(&c.ID, &c.PostSlug, &nickname, &c.Content, &parent, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("list comments: %w", err)
		}
		c.Nickname = nickname.String
		c.ParentID = parent.Int64
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	return out, nil
}

// Get returns one comment by id, or sql.ErrNoRows.
func (s *Store) Get(ctx context.Context, id int64) (Comment, error) {
	var (
		c        Comment
		nickname sql.NullString
		parent   sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, post_slug, nickname, content, parent_id, created_at
		FROM comments
		WHERE id = ?
	`, id).Scan(&c.ID, &c.PostSlug, &nickname, &c.Content, &parent, &c.CreatedAt)
	if err != nil {
		return Comment{}, err
	}
	c.Nickname = nickname.String
	c.ParentID = parent.Int64
	return c, nil
}
