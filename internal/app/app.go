package app

import (
	"context"
	"log/slog"
	"time"

	"technewsbot/internal/classify"
	"technewsbot/internal/config"
	"technewsbot/internal/infrastructure/feed"
	"technewsbot/internal/infrastructure/storage"
	"technewsbot/internal/infrastructure/translator"
	"technewsbot/internal/logging"
	"technewsbot/internal/usecase"
)

// Application wires configuration to adapters and the pipeline.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	store    *storage.PostgresStore
	pipeline *usecase.Pipeline
	taxonomy []classify.Category
}

// New connects to the store and builds a runnable application instance.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	store, err := storage.Open(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	taxonomy := taxonomyFromConfig(cfg.Categories)
	source := feed.NewFetcher(nil, cfg.Feeds, cfg.Pipeline, baseLogger.With("component", "feed"))

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:         source,
		Store:          store,
		Translator:     translator.NewClient(cfg.Translator),
		Taxonomy:       taxonomy,
		Logger:         baseLogger.With("component", "pipeline"),
		ArticlesPerRun: cfg.Pipeline.ArticlesPerRun,
		PaceDelay:      time.Duration(cfg.Pipeline.PaceDelaySeconds) * time.Second,
	})

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		store:    store,
		pipeline: pipeline,
		taxonomy: taxonomy,
	}, nil
}

// Run bootstraps the schema and executes a single pipeline pass.
func (a *Application) Run(ctx context.Context) error {
	defer a.store.Close()

	slugs := make([]string, 0, len(a.taxonomy))
	for _, cat := range a.taxonomy {
		slugs = append(slugs, cat.Slug)
	}
	if err := a.store.Ensure(ctx, slugs); err != nil {
		return err
	}

	a.logger.Info("run started", "at", time.Now().UTC().Format(time.RFC3339), "feeds", len(a.cfg.Feeds))
	return a.pipeline.Run(ctx)
}

func taxonomyFromConfig(overrides []config.CategoryConfig) []classify.Category {
	if len(overrides) == 0 {
		return classify.DefaultTaxonomy()
	}

	taxonomy := make([]classify.Category, 0, len(overrides))
	for _, cat := range overrides {
		taxonomy = append(taxonomy, classify.Category{Slug: cat.Slug, Keywords: cat.Keywords})
	}
	return taxonomy
}
