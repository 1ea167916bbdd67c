package ports

import (
	"context"

	"technewsbot/internal/domain"
)

// FeedSource pulls fresh articles from the configured syndication feeds.
type FeedSource interface {
	FetchAll(ctx context.Context) ([]domain.RawArticle, error)
}

// Store is the persistence surface consumed by the pipeline: the scrape-log
// ledger, the articles table, and the category lookup.
type Store interface {
	// HasSeen reports whether any scrape-log row exists for the URL,
	// regardless of its status.
	HasSeen(ctx context.Context, sourceURL string) (bool, error)
	// Record appends one scrape-log row for an attempted item.
	Record(ctx context.Context, entry domain.LedgerEntry) error
	InsertArticle(ctx context.Context, article domain.TranslatedArticle) error
	// LookupCategoryID resolves a category slug to its row id; an unknown
	// or empty slug yields "" without error.
	LookupCategoryID(ctx context.Context, slug string) (string, error)
}

// Translator localizes a title/summary pair in a single call.
type Translator interface {
	Translate(ctx context.Context, title, summary string) (domain.Translation, error)
}
