package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"technewsbot/internal/classify"
	"technewsbot/internal/domain"
	"technewsbot/internal/ports"
	"technewsbot/internal/slug"
)

// PipelineDeps wires all driven adapters and run settings into the pipeline.
type PipelineDeps struct {
	Source     ports.FeedSource
	Store      ports.Store
	Translator ports.Translator
	Taxonomy   []classify.Category
	Logger     *slog.Logger

	ArticlesPerRun int
	PaceDelay      time.Duration
}

// Pipeline runs one fetch-translate-publish pass over the configured feeds.
type Pipeline struct {
	source         ports.FeedSource
	store          ports.Store
	translator     ports.Translator
	taxonomy       []classify.Category
	logger         *slog.Logger
	articlesPerRun int
	paceDelay      time.Duration
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		source:         deps.Source,
		store:          deps.Store,
		translator:     deps.Translator,
		taxonomy:       deps.Taxonomy,
		logger:         deps.Logger,
		articlesPerRun: deps.ArticlesPerRun,
		paceDelay:      deps.PaceDelay,
	}
}

// Run fetches the batch, filters out URLs already in the scrape log, caps
// the remainder, and processes each surviving item in order. One item's
// failure never aborts the run; every attempted item gets exactly one
// scrape-log entry.
func (p *Pipeline) Run(ctx context.Context) error {
	articles, err := p.source.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("fetch feeds: %w", err)
	}

	fresh := make([]domain.RawArticle, 0, len(articles))
	for _, article := range articles {
		seen, err := p.store.HasSeen(ctx, article.SourceURL)
		if err != nil {
			return fmt.Errorf("check scrape log for %s: %w", article.SourceURL, err)
		}
		if !seen {
			fresh = append(fresh, article)
		}
	}
	p.logger.Info("new unscraped articles", "count", len(fresh))

	if len(fresh) == 0 {
		p.logger.Info("no new articles to process")
		return nil
	}

	if len(fresh) > p.articlesPerRun {
		fresh = fresh[:p.articlesPerRun]
	}

	posted := 0
	for _, article := range fresh {
		p.logger.Info("processing", "title", article.Title, "source", article.SourceName)

		if err := p.processItem(ctx, article); err != nil {
			p.logger.Error("item failed", "url", article.SourceURL, "error", err)
			p.record(ctx, article.SourceURL, domain.StatusFailed, err.Error())
			continue
		}

		p.record(ctx, article.SourceURL, domain.StatusSuccess, "")
		posted++
	}

	p.logger.Info("run complete", "posted", posted, "attempted", len(fresh))
	return nil
}

// processItem carries one article from translation through publication.
func (p *Pipeline) processItem(ctx context.Context, article domain.RawArticle) error {
	translation, err := p.translator.Translate(ctx, article.Title, article.Summary)
	if err != nil {
		return fmt.Errorf("translate: %w", err)
	}

	// Fixed pacing between translation calls, keeps the API under its
	// rate limit. Not a backoff.
	if p.paceDelay > 0 {
		time.Sleep(p.paceDelay)
	}

	categorySlug := classify.Classify(article.Title, article.Summary, p.taxonomy)
	categoryID, err := p.store.LookupCategoryID(ctx, categorySlug)
	if err != nil {
		return fmt.Errorf("lookup category %s: %w", categorySlug, err)
	}

	record := domain.TranslatedArticle{
		RawArticle:  article,
		Translation: translation,
		CategoryID:  categoryID,
		Slug:        slug.Make(article.Title, article.SourceURL),
		IsPublished: true,
	}

	if err := p.store.InsertArticle(ctx, record); err != nil {
		return fmt.Errorf("insert article: %w", err)
	}

	p.logger.Info("posted", "title_kn", translation.TitleKN, "slug", record.Slug)
	return nil
}

func (p *Pipeline) record(ctx context.Context, url string, status domain.LedgerStatus, errMsg string) {
	entry := domain.LedgerEntry{SourceURL: url, Status: status, ErrorMessage: errMsg}
	if err := p.store.Record(ctx, entry); err != nil {
		p.logger.Error("scrape log write failed", "url", url, "error", err)
	}
}
