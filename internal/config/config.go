package config

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv      = "TECHNEWSBOT_CONFIG"
	databaseDSNEnv     = "DATABASE_DSN"
	translatorKeyEnv   = "TRANSLATOR_API_KEY"
	translatorModelEnv = "TRANSLATOR_MODEL"
	translatorURLEnv   = "TRANSLATOR_ENDPOINT"
)

// Config holds all settings required across the application.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Database   DatabaseConfig   `yaml:"database"`
	Translator TranslatorConfig `yaml:"translator"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Feeds      []FeedConfig     `yaml:"feeds"`
	Categories []CategoryConfig `yaml:"categories"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DatabaseConfig describes Postgres connection details.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// TranslatorConfig defines how to contact the translation API.
type TranslatorConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Model     string `yaml:"model"`
	APIKey    string `yaml:"apiKey"`
	MaxTokens int    `yaml:"maxTokens"`
}

// PipelineConfig bounds one pipeline run.
type PipelineConfig struct {
	ArticlesPerRun   int `yaml:"articlesPerRun"`
	EntriesPerFeed   int `yaml:"entriesPerFeed"`
	MinSummaryChars  int `yaml:"minSummaryChars"`
	MaxSummaryChars  int `yaml:"maxSummaryChars"`
	PaceDelaySeconds int `yaml:"paceDelaySeconds"`
}

// FeedConfig describes a single syndication source.
type FeedConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// CategoryConfig overrides one taxonomy entry; order in the file is the
// classification order.
type CategoryConfig struct {
	Slug     string   `yaml:"slug"`
	Keywords []string `yaml:"keywords"`
}

// Load reads YAML configuration (if present), applies environment overrides,
// and validates that the required credentials are set.
func Load() (Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	if len(cfg.Feeds) == 0 {
		cfg.Feeds = defaultConfig().Feeds
	}

	if cfg.Database.DSN == "" {
		return Config{}, fmt.Errorf("config: %s is required", databaseDSNEnv)
	}
	if cfg.Translator.APIKey == "" {
		return Config{}, fmt.Errorf("config: %s is required", translatorKeyEnv)
	}

	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(translatorKeyEnv); v != "" {
		c.Translator.APIKey = v
	}

	if v := os.Getenv(translatorModelEnv); v != "" {
		c.Translator.Model = v
	}

	if v := os.Getenv(translatorURLEnv); v != "" {
		c.Translator.Endpoint = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Translator.Endpoint != "" {
		base.Translator.Endpoint = override.Translator.Endpoint
	}
	if override.Translator.Model != "" {
		base.Translator.Model = override.Translator.Model
	}
	if override.Translator.APIKey != "" {
		base.Translator.APIKey = override.Translator.APIKey
	}
	if override.Translator.MaxTokens > 0 {
		base.Translator.MaxTokens = override.Translator.MaxTokens
	}

	if override.Pipeline.ArticlesPerRun > 0 {
		base.Pipeline.ArticlesPerRun = override.Pipeline.ArticlesPerRun
	}
	if override.Pipeline.EntriesPerFeed > 0 {
		base.Pipeline.EntriesPerFeed = override.Pipeline.EntriesPerFeed
	}
	if override.Pipeline.MinSummaryChars > 0 {
		base.Pipeline.MinSummaryChars = override.Pipeline.MinSummaryChars
	}
	if override.Pipeline.MaxSummaryChars > 0 {
		base.Pipeline.MaxSummaryChars = override.Pipeline.MaxSummaryChars
	}
	if override.Pipeline.PaceDelaySeconds > 0 {
		base.Pipeline.PaceDelaySeconds = override.Pipeline.PaceDelaySeconds
	}

	if len(override.Feeds) > 0 {
		base.Feeds = override.Feeds
	}
	if len(override.Categories) > 0 {
		base.Categories = override.Categories
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging:  LoggingConfig{Level: "info"},
		Database: DatabaseConfig{DSN: ""},
		Translator: TranslatorConfig{
			Endpoint:  "https://api.anthropic.com/v1/messages",
			Model:     "claude-sonnet-4-6",
			APIKey:    "",
			MaxTokens: 1024,
		},
		Pipeline: PipelineConfig{
			ArticlesPerRun:   5,
			EntriesPerFeed:   15,
			MinSummaryChars:  50,
			MaxSummaryChars:  800,
			PaceDelaySeconds: 1,
		},
		Feeds: []FeedConfig{
			{Name: "TechCrunch", URL: "https://techcrunch.com/feed/"},
			{Name: "Wired", URL: "https://feeds.wired.com/wired/index"},
			{Name: "The Verge", URL: "https://www.theverge.com/rss/index.xml"},
			{Name: "Ars Technica", URL: "https://feeds.arstechnica.com/arstechnica/index"},
			{Name: "NYT Tech", URL: "https://rss.nytimes.com/services/xml/rss/nyt/Technology.xml"},
		},
	}
}
