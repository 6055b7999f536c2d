// Package blog is the demo application: a blog post model persisted in
// sqlite, exposed to the view framework as querysets.
package blog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/viewcraft/viewcraft/internal/query"
)

// Post statuses.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// Post is a blog entry.
type Post struct {
	ID          int64
	Title       string
	Slug        string
	Body        string
	Author      string
	Status      string
	Category    string
	Tags        string // comma-separated
	ViewCount   int
	Likes       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
	PublishedAt *time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS posts (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	title        TEXT NOT NULL,
	slug         TEXT NOT NULL UNIQUE,
	body         TEXT NOT NULL,
	author       TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'draft',
	category     TEXT NOT NULL DEFAULT '',
	tags         TEXT NOT NULL DEFAULT '',
	view_count   INTEGER NOT NULL DEFAULT 0,
	likes        INTEGER NOT NULL DEFAULT 0,
	created_at   TIMESTAMP NOT NULL,
	updated_at   TIMESTAMP NOT NULL,
	published_at TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_posts_status ON posts(status);
CREATE INDEX IF NOT EXISTS idx_posts_category ON posts(category);
`

// postColumns is the select list Posts() uses; ScanPosts relies on
// this exact order.
var postColumns = []string{
	"id", "title", "slug", "body", "author", "status", "category",
	"tags", "view_count", "likes", "created_at", "updated_at", "published_at",
}

// Store wraps the sqlite database holding blog posts.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the sqlite database at path and applies the
// schema. Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database '%s': %w", path, err)
	}
	// sqlite allows a single writer; serialize at the pool level.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Posts returns the base queryset over all posts, newest first, the
// same default ordering the list view starts from.
func (s *Store) Posts() *query.Queryset {
	return query.New(s.db, "posts", postColumns...).OrderBy("created_at DESC, id DESC")
}

// Insert stores a post and fills in its ID. Zero timestamps default to
// now.
func (s *Store) Insert(ctx context.Context, p *Post) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO posts (title, slug, body, author, status, category, tags,
			view_count, likes, created_at, updated_at, published_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.Slug, p.Body, p.Author, p.Status, p.Category, p.Tags,
		p.ViewCount, p.Likes, p.CreatedAt, p.UpdatedAt, p.PublishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert post '%s': %w", p.Slug, err)
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert post '%s': %w", p.Slug, err)
	}
	return nil
}

// ScanPosts drains rows produced by a Posts()-derived queryset.
func ScanPosts(rows *sql.Rows) ([]Post, error) {
	defer rows.Close()
	var posts []Post
	for rows.Next() {
		var p Post
		var publishedAt sql.NullTime
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Slug, &p.Body, &p.Author, &p.Status,
			&p.Category, &p.Tags, &p.ViewCount, &p.Likes,
			&p.CreatedAt, &p.UpdatedAt, &publishedAt,
		); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		if publishedAt.Valid {
			t := publishedAt.Time
			p.PublishedAt = &t
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan posts: %w", err)
	}
	return posts, nil
}

// Collect materializes a queryset into posts. Shaped to plug into
// view.Options.Collect.
func Collect(ctx context.Context, qs *query.Queryset) ([]Post, error) {
	if qs.IsNone() {
		return nil, nil
	}
	rows, err := qs.Rows(ctx)
	if err != nil {
		return nil, err
	}
	return ScanPosts(rows)
}
