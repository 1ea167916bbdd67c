package domain

// RawArticle is a normalized feed entry as produced by the ingestor.
type RawArticle struct {
	Title               string
	Summary             string
	SourceURL           string
	SourceName          string
	ThumbnailURL        string
	OriginalPublishedAt string
}

// Translation holds the localized fields returned by the translator.
type Translation struct {
	TitleKN         string
	SummaryKN       string
	MetaDescription string
}

// TranslatedArticle is the finished record handed to the store.
// Assembled once per item and never mutated afterwards.
type TranslatedArticle struct {
	RawArticle
	Translation
	CategoryID  string
	Slug        string
	IsPublished bool
}

// LedgerStatus marks the outcome of one processing attempt.
type LedgerStatus string

const (
	StatusSuccess LedgerStatus = "success"
	StatusFailed  LedgerStatus = "failed"
)

// LedgerEntry records an attempted source URL in the scrape log.
type LedgerEntry struct {
	SourceURL    string
	Status       LedgerStatus
	ErrorMessage string
}
