// internal/database/sqlite.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"memehub/internal/models"
	"memehub/internal/utils"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS memes (
    id TEXT PRIMARY KEY,
    template_id TEXT,
    image_url TEXT NOT NULL DEFAULT '',
    top_text TEXT NOT NULL DEFAULT '',
    bottom_text TEXT NOT NULL DEFAULT '',
    creator_id TEXT NOT NULL DEFAULT '',
    creator_username TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    views INTEGER NOT NULL DEFAULT 0,
    upvotes INTEGER NOT NULL DEFAULT 0,
    downvotes INTEGER NOT NULL DEFAULT 0,
    comments INTEGER NOT NULL DEFAULT 0,
    tags TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_memes_creator ON memes(creator_id);

CREATE TABLE IF NOT EXISTS comments (
    id TEXT PRIMARY KEY,
    meme_id TEXT NOT NULL REFERENCES memes(id),
    author_id TEXT NOT NULL DEFAULT '',
    author_username TEXT NOT NULL DEFAULT '',
    text TEXT NOT NULL,
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_comments_meme ON comments(meme_id, created_at);
`

// SQLiteDB persists memes and comments in a single SQLite file.
type SQLiteDB struct {
	DB *sql.DB
}

// NewSQLiteDB opens (and creates if needed) the database at path with WAL
// journaling and foreign keys on, then creates the tables.
func NewSQLiteDB(ctx context.Context, path string) (*SQLiteDB, error) {
	params := url.Values{}
	params.Add("_journal_mode", "WAL")
	params.Add("_foreign_keys", "on")
	dsn := path
	if strings.Contains(path, "?") {
		dsn += "&" + params.Encode()
	} else {
		dsn += "?" + params.Encode()
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database %q: %w", path, err)
	}
	// A single writer connection avoids SQLITE_BUSY between our own goroutines.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database %q: %w", path, err)
	}

	s := &SQLiteDB{DB: db}
	if err := s.InitializeTables(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// InitializeTables creates all necessary tables if they don't exist
func (s *SQLiteDB) InitializeTables(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

func (s *SQLiteDB) Close(ctx context.Context) error {
	return s.DB.Close()
}

// SaveMeme upserts the full meme row.
func (s *SQLiteDB) SaveMeme(ctx context.Context, meme *models.Meme) error {
	var templateID sql.NullString
	if meme.TemplateID != nil {
		templateID = sql.NullString{String: *meme.TemplateID, Valid: true}
	}

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO memes (id, template_id, image_url, top_text, bottom_text, creator_id,
			creator_username, created_at, views, upvotes, downvotes, comments, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			views = excluded.views,
			upvotes = excluded.upvotes,
			downvotes = excluded.downvotes,
			comments = excluded.comments`,
		meme.ID, templateID, meme.ImageURL, meme.TopText, meme.BottomText, meme.CreatorID,
		meme.CreatorUsername, formatTime(meme.CreatedAt),
		meme.Stats.Views, meme.Stats.Upvotes, meme.Stats.Downvotes, meme.Stats.Comments,
		strings.Join(meme.Tags, ","),
	)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to save meme "+meme.ID, err)
	}
	return nil
}

// SaveComment inserts a comment; an existing id is ignored.
func (s *SQLiteDB) SaveComment(ctx context.Context, comment *models.Comment) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO comments (id, meme_id, author_id, author_username, text, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`,
		comment.ID, comment.MemeID, comment.AuthorID, comment.AuthorUsername, comment.Text,
		formatTime(comment.CreatedAt),
	)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to save comment "+comment.ID, err)
	}
	return nil
}

// LoadAll reads every meme and comment, oldest first.
func (s *SQLiteDB) LoadAll(ctx context.Context) ([]*models.Meme, []*models.Comment, error) {
	memes, err := s.GetAllMemes(ctx)
	if err != nil {
		return nil, nil, err
	}
	comments, err := s.GetAllComments(ctx)
	if err != nil {
		return nil, nil, err
	}
	return memes, comments, nil
}

func (s *SQLiteDB) GetAllMemes(ctx context.Context) ([]*models.Meme, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, template_id, image_url, top_text, bottom_text, creator_id, creator_username,
			created_at, views, upvotes, downvotes, comments, tags
		FROM memes ORDER BY created_at ASC, rowid ASC`)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query memes", err)
	}
	defer rows.Close()

	var memes []*models.Meme
	for rows.Next() {
		var (
			m          models.Meme
			templateID sql.NullString
			createdAt  string
			tags       string
		)
		if err := rows.Scan(&m.ID, &templateID, &m.ImageURL, &m.TopText, &m.BottomText,
			&m.CreatorID, &m.CreatorUsername, &createdAt,
			&m.Stats.Views, &m.Stats.Upvotes, &m.Stats.Downvotes, &m.Stats.Comments, &tags); err != nil {
			return nil, fmt.Errorf("failed to scan meme row: %w", err)
		}
		if templateID.Valid {
			id := templateID.String
			m.TemplateID = &id
		}
		if m.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("meme %s: %w", m.ID, err)
		}
		m.Tags = splitTags(tags)
		memes = append(memes, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating meme rows: %w", err)
	}
	return memes, nil
}

func (s *SQLiteDB) GetAllComments(ctx context.Context) ([]*models.Comment, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, meme_id, author_id, author_username, text, created_at
		FROM comments ORDER BY created_at ASC, rowid ASC`)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query comments", err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		var (
			c         models.Comment
			createdAt string
		)
		if err := rows.Scan(&c.ID, &c.MemeID, &c.AuthorID, &c.AuthorUsername, &c.Text, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment row: %w", err)
		}
		if c.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("comment %s: %w", c.ID, err)
		}
		comments = append(comments, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comment rows: %w", err)
	}
	return comments, nil
}

// Timestamps are stored as fixed-width UTC strings so that lexical order in
// SQL matches chronological order.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(sqliteTimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}

func splitTags(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}
