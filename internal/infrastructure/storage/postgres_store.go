package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"technewsbot/internal/domain"
	"technewsbot/internal/ports"
)

// PostgresStore persists articles, categories, and the scrape-log ledger.
type PostgresStore struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.Store = (*PostgresStore)(nil)

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return New(db), nil
}

// New wraps an existing connection pool.
func New(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Close releases the underlying pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Ensure creates the schema if missing and seeds the default categories.
func (s *PostgresStore) Ensure(ctx context.Context, categorySlugs []string) error {
	_, err := s.db.ExecContext(ctx, `
CREATE EXTENSION IF NOT EXISTS pgcrypto;
CREATE TABLE IF NOT EXISTS categories (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    slug TEXT UNIQUE NOT NULL,
    name_kn TEXT,
    name_en TEXT,
    color TEXT
);
CREATE TABLE IF NOT EXISTS articles (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    title_kn TEXT NOT NULL,
    title_en TEXT NOT NULL,
    summary_kn TEXT NOT NULL,
    summary_en TEXT NOT NULL,
    source_url TEXT UNIQUE NOT NULL,
    source_name TEXT NOT NULL,
    thumbnail_url TEXT,
    category_id UUID REFERENCES categories(id),
    slug TEXT UNIQUE NOT NULL,
    meta_description TEXT NOT NULL DEFAULT '',
    is_published BOOLEAN NOT NULL DEFAULT false,
    original_published_at TEXT,
    published_at TIMESTAMP NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS scrape_log (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    source_url TEXT NOT NULL,
    status TEXT NOT NULL,
    error_message TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS scrape_log_source_url_idx ON scrape_log (source_url);
`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	for _, slug := range categorySlugs {
		query, args, err := s.builder.
			Insert("categories").
			Columns("slug").
			Values(slug).
			Suffix("ON CONFLICT (slug) DO NOTHING").
			ToSql()
		if err != nil {
			return fmt.Errorf("build category seed: %w", err)
		}
		if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("seed category %s: %w", slug, err)
		}
	}

	return nil
}

// HasSeen reports whether the URL has any scrape-log row, success or failed.
func (s *PostgresStore) HasSeen(ctx context.Context, sourceURL string) (bool, error) {
	query, args, err := s.builder.
		Select("1").
		From("scrape_log").
		Where(sq.Eq{"source_url": sourceURL}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build has-seen query: %w", err)
	}

	var one int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query scrape log: %w", err)
	}
	return true, nil
}

// Record appends one scrape-log row.
func (s *PostgresStore) Record(ctx context.Context, entry domain.LedgerEntry) error {
	query, args, err := s.builder.
		Insert("scrape_log").
		Columns("source_url", "status", "error_message").
		Values(entry.SourceURL, string(entry.Status), nullable(entry.ErrorMessage)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build scrape-log insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert scrape log: %w", err)
	}
	return nil
}

// InsertArticle writes the finished localized record.
func (s *PostgresStore) InsertArticle(ctx context.Context, a domain.TranslatedArticle) error {
	query, args, err := s.builder.
		Insert("articles").
		Columns(
			"title_kn", "title_en", "summary_kn", "summary_en",
			"source_url", "source_name", "thumbnail_url", "category_id",
			"slug", "meta_description", "is_published", "original_published_at",
		).
		Values(
			a.TitleKN, a.Title, a.SummaryKN, a.Summary,
			a.SourceURL, a.SourceName, nullable(a.ThumbnailURL), nullable(a.CategoryID),
			a.Slug, a.MetaDescription, a.IsPublished, nullable(a.OriginalPublishedAt),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build article insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert article: %w", err)
	}
	return nil
}

// LookupCategoryID resolves a slug to its category id; unknown or empty
// slugs yield "" without error.
func (s *PostgresStore) LookupCategoryID(ctx context.Context, slug string) (string, error) {
	if slug == "" {
		return "", nil
	}

	query, args, err := s.builder.
		Select("id").
		From("categories").
		Where(sq.Eq{"slug": slug}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build category query: %w", err)
	}

	var id string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query category: %w", err)
	}
	return id, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
