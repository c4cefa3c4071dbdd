// Package store provides the SQLite post catalog for postdesk.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/robertmeta/postdesk/model"
	_ "modernc.org/sqlite"
)

// ErrPostNotFound is returned when no post has the requested ID.
var ErrPostNotFound = errors.New("post not found")

// dateLayout is the on-disk format of scheduled dates.
const dateLayout = "2006-01-02"

const postColumns = `id, title, excerpt, content, cover_image, status, scheduled_date,
	category, author, views, likes, comments, conversion_rate`

// Store manages the SQLite database.
type Store struct {
	db *sql.DB
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// New creates a new Store with the given database path.
// Use ":memory:" for an in-memory database (useful for testing).
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to ":memory:" is a separate database
	db.SetMaxOpenConns(1)

	store := &Store{db: db}

	// Initialize schema
	if err := store.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// createSchema creates the database tables and indexes.
// seq records catalog order; listings are returned in seq order.
func (s *Store) createSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS posts (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT UNIQUE NOT NULL,
		title TEXT NOT NULL,
		excerpt TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL DEFAULT '',
		cover_image TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		scheduled_date TEXT,
		category TEXT NOT NULL DEFAULT '',
		author TEXT NOT NULL DEFAULT '',
		views INTEGER NOT NULL DEFAULT 0,
		likes INTEGER NOT NULL DEFAULT 0,
		comments INTEGER NOT NULL DEFAULT 0,
		conversion_rate REAL NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_posts_status ON posts(status);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SavePost inserts a post, or updates it in place if its ID already exists.
// Updated posts keep their position in the catalog. Invalid posts are
// rejected with an error wrapping model.ErrInvalidPost.
func (s *Store) SavePost(p *model.Post) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return savePost(s.db, p)
}

// SavePosts saves posts in order inside a single transaction.
// Either every post is saved or none is.
func (s *Store) SavePosts(posts []*model.Post) error {
	for _, p := range posts {
		if err := p.Validate(); err != nil {
			return err
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, p := range posts {
		if err := savePost(tx, p); err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit posts: %w", err)
	}
	return nil
}

func savePost(ex execer, p *model.Post) error {
	_, err := ex.Exec(`
		INSERT INTO posts (`+postColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			excerpt = excluded.excerpt,
			content = excluded.content,
			cover_image = excluded.cover_image,
			status = excluded.status,
			scheduled_date = excluded.scheduled_date,
			category = excluded.category,
			author = excluded.author,
			views = excluded.views,
			likes = excluded.likes,
			comments = excluded.comments,
			conversion_rate = excluded.conversion_rate`,
		p.ID, p.Title, p.Excerpt, p.Content, p.CoverImage, string(p.Status), dateToNull(p.ScheduledDate),
		p.Category, p.Author, p.Analytics.Views, p.Analytics.Likes, p.Analytics.Comments, p.Analytics.ConversionRate,
	)
	if err != nil {
		return fmt.Errorf("failed to save post %s: %w", p.ID, err)
	}
	return nil
}

// GetPost retrieves a post by ID.
func (s *Store) GetPost(id string) (*model.Post, error) {
	row := s.db.QueryRow("SELECT "+postColumns+" FROM posts WHERE id = ?", id)

	post, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrPostNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return post, nil
}

// GetAllPosts retrieves every post in catalog order.
func (s *Store) GetAllPosts() ([]*model.Post, error) {
	rows, err := s.db.Query("SELECT " + postColumns + " FROM posts ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []*model.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}

	return posts, rows.Err()
}

// Count returns the number of posts in the catalog.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM posts").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return n, nil
}

// Categories returns the distinct categories in order of first appearance.
func (s *Store) Categories() ([]string, error) {
	return s.distinct("category")
}

// Authors returns the distinct authors in order of first appearance.
func (s *Store) Authors() ([]string, error) {
	return s.distinct("author")
}

// distinct is only called with fixed column names.
func (s *Store) distinct(column string) ([]string, error) {
	rows, err := s.db.Query(
		"SELECT " + column + " FROM posts WHERE " + column + " != '' GROUP BY " + column + " ORDER BY MIN(seq)",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s values: %w", column, err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", column, err)
		}
		values = append(values, v)
	}

	return values, rows.Err()
}

func scanPost(sc scanner) (*model.Post, error) {
	post := &model.Post{}
	var status string
	var scheduled sql.NullString

	err := sc.Scan(
		&post.ID, &post.Title, &post.Excerpt, &post.Content, &post.CoverImage, &status, &scheduled,
		&post.Category, &post.Author,
		&post.Analytics.Views, &post.Analytics.Likes, &post.Analytics.Comments, &post.Analytics.ConversionRate,
	)
	if err != nil {
		return nil, err
	}

	post.Status = model.Status(status)
	if post.ScheduledDate, err = nullToDate(scheduled); err != nil {
		return nil, fmt.Errorf("post %s: %w", post.ID, err)
	}

	return post, nil
}

// Helpers to convert scheduled dates to and from their TEXT column
func dateToNull(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(dateLayout), Valid: true}
}

func nullToDate(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, ns.String)
	if err != nil {
		return nil, fmt.Errorf("invalid scheduled date %q: %w", ns.String, err)
	}
	return &t, nil
}
