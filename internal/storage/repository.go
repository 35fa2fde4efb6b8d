package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"readlist/internal/feedapi"
)

const (
	keyCategoryOrder = "categoryOrder"
	keyFavorites     = "favoriteCategories"
)

// Repository is the local sqlite store: a cache of the last fetched article
// collection plus a JSON key/value table for category preferences.
type Repository struct {
	db *sql.DB
}

func NewRepository(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repository) Init(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS articles (
  link TEXT PRIMARY KEY,
  title TEXT,
  ai_title TEXT,
  summary TEXT,
  description TEXT,
  category TEXT,
  published_at TEXT NOT NULL,
  fetched_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS preferences (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// CheckWritable verifies the database accepts writes before the UI starts.
func (r *Repository) CheckWritable(ctx context.Context) error {
	const probe = "__write_check"
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO preferences (key, value) VALUES (?, '[]')
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value`, probe); err != nil {
		return fmt.Errorf("write probe: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM preferences WHERE key = ?`, probe); err != nil {
		return fmt.Errorf("write probe cleanup: %w", err)
	}
	return nil
}

func (r *Repository) SaveArticles(ctx context.Context, articles []feedapi.Article) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO articles (link, title, ai_title, summary, description, category, published_at, fetched_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(link) DO UPDATE SET
  title=excluded.title,
  ai_title=excluded.ai_title,
  summary=excluded.summary,
  description=excluded.description,
  category=excluded.category,
  published_at=excluded.published_at,
  fetched_at=excluded.fetched_at
`)
	if err != nil {
		return fmt.Errorf("prepare save statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, article := range articles {
		if article.Link == "" {
			continue
		}
		_, err := stmt.ExecContext(
			ctx,
			article.Link,
			article.Title,
			article.AITitle,
			article.Summary,
			article.Description,
			article.Category,
			formatPublishedAt(article.PublishedAt),
			now,
		)
		if err != nil {
			return fmt.Errorf("save article %s: %w", article.Link, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *Repository) ListArticles(ctx context.Context, limit int) ([]feedapi.Article, error) {
	if limit < 1 {
		limit = 100
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT link, title, ai_title, summary, description, category, published_at
FROM articles
ORDER BY published_at DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	articles := make([]feedapi.Article, 0, limit)
	for rows.Next() {
		var article feedapi.Article
		var publishedAt string
		if err := rows.Scan(
			&article.Link,
			&article.Title,
			&article.AITitle,
			&article.Summary,
			&article.Description,
			&article.Category,
			&publishedAt,
		); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}

		article.PublishedAt, err = parsePublishedAt(publishedAt)
		if err != nil {
			return nil, fmt.Errorf("parse article published_at %q: %w", publishedAt, err)
		}
		articles = append(articles, article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return articles, nil
}

// formatPublishedAt stores the zero time as an empty string so missing dates
// survive a cache round trip.
func formatPublishedAt(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parsePublishedAt(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, raw)
}

// CategoryOrder loads the persisted ordered category list. A missing key is
// an empty list, not an error.
func (r *Repository) CategoryOrder(ctx context.Context) ([]string, error) {
	return r.stringList(ctx, keyCategoryOrder)
}

func (r *Repository) SaveCategoryOrder(ctx context.Context, order []string) error {
	return r.saveStringList(ctx, keyCategoryOrder, order)
}

// FavoriteCategories loads the persisted favorite set.
func (r *Repository) FavoriteCategories(ctx context.Context) ([]string, error) {
	return r.stringList(ctx, keyFavorites)
}

func (r *Repository) SaveFavoriteCategories(ctx context.Context, favorites []string) error {
	return r.saveStringList(ctx, keyFavorites, favorites)
}

func (r *Repository) stringList(ctx context.Context, key string) ([]string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load preference %s: %w", key, err)
	}

	var list []string
	if err := json.Unmarshal([]byte(value), &list); err != nil {
		return nil, fmt.Errorf("decode preference %s: %w", key, err)
	}
	return list, nil
}

func (r *Repository) saveStringList(ctx context.Context, key string, list []string) error {
	if list == nil {
		list = []string{}
	}
	encoded, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode preference %s: %w", key, err)
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO preferences (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value
`, key, string(encoded))
	if err != nil {
		return fmt.Errorf("save preference %s: %w", key, err)
	}
	return nil
}
