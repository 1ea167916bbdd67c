package feed

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"technewsbot/internal/config"
	"technewsbot/internal/domain"
	"technewsbot/internal/ports"
)

// Fetcher pulls configured syndication feeds and normalizes their entries.
type Fetcher struct {
	client          *http.Client
	feeds           []config.FeedConfig
	entriesPerFeed  int
	minSummaryChars int
	maxSummaryChars int
	logger          *slog.Logger
}

var _ ports.FeedSource = (*Fetcher)(nil)

// NewFetcher wires an HTTP client; a nil client gets a 20s timeout default.
func NewFetcher(client *http.Client, feeds []config.FeedConfig, pipeline config.PipelineConfig, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Fetcher{
		client:          client,
		feeds:           feeds,
		entriesPerFeed:  pipeline.EntriesPerFeed,
		minSummaryChars: pipeline.MinSummaryChars,
		maxSummaryChars: pipeline.MaxSummaryChars,
		logger:          logger,
	}
}

// FetchAll walks the configured feeds in order, newest entries first per
// feed, and deduplicates the combined batch by source URL (first seen wins).
// A failing feed is logged and skipped, never aborts the batch.
func (f *Fetcher) FetchAll(ctx context.Context) ([]domain.RawArticle, error) {
	var batch []domain.RawArticle
	seen := map[string]struct{}{}

	for _, feedCfg := range f.feeds {
		f.logger.Info("fetching feed", "feed", feedCfg.Name)

		entries, err := f.fetchFeed(ctx, feedCfg.URL)
		if err != nil {
			f.logger.Error("feed fetch failed", "feed", feedCfg.Name, "error", err)
			continue
		}

		if len(entries) > f.entriesPerFeed {
			entries = entries[:f.entriesPerFeed]
		}

		for _, e := range entries {
			article, ok := f.normalize(e, feedCfg.Name)
			if !ok {
				continue
			}
			if _, dup := seen[article.SourceURL]; dup {
				continue
			}
			seen[article.SourceURL] = struct{}{}
			batch = append(batch, article)
		}
	}

	f.logger.Info("total unique articles found", "count", len(batch))
	return batch, nil
}

func (f *Fetcher) fetchFeed(ctx context.Context, feedURL string) ([]entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "technewsbot/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned %s", resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read feed body: %w", err)
	}

	return parseFeed(raw)
}

// normalize cleans one entry into a RawArticle; returns false for entries
// missing a URL or title, or whose cleaned summary is too thin to translate.
func (f *Fetcher) normalize(e entry, sourceName string) (domain.RawArticle, bool) {
	title := strings.TrimSpace(e.Title)
	link := strings.TrimSpace(e.Link)
	summary := stripMarkup(e.Summary)

	if runes := []rune(summary); len(runes) > f.maxSummaryChars {
		summary = strings.TrimSpace(string(runes[:f.maxSummaryChars]))
	}

	if link == "" || title == "" || utf8.RuneCountInString(summary) < f.minSummaryChars {
		return domain.RawArticle{}, false
	}

	return domain.RawArticle{
		Title:               title,
		Summary:             summary,
		SourceURL:           link,
		SourceName:          sourceName,
		ThumbnailURL:        e.Thumbnail,
		OriginalPublishedAt: e.Published,
	}, true
}

// stripMarkup drops HTML tags and decodes entities, leaving plain text.
func stripMarkup(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// entry is a codec-neutral feed item before normalization.
type entry struct {
	Title     string
	Link      string
	Summary   string
	Thumbnail string
	Published string
}

type rssDoc struct {
	Channel struct {
		Item []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string       `xml:"title"`
	Link        string       `xml:"link"`
	Description string       `xml:"description"`
	PubDate     string       `xml:"pubDate"`
	Thumbnail   rssThumbnail `xml:"thumbnail"`
}

type rssThumbnail struct {
	URL string `xml:"url,attr"`
}

type atomDoc struct {
	Entry []atomEntry `xml:"entry"`
}

type atomEntry struct {
	Title     string       `xml:"title"`
	Link      []atomLink   `xml:"link"`
	Summary   string       `xml:"summary"`
	Content   string       `xml:"content"`
	Published string       `xml:"published"`
	Updated   string       `xml:"updated"`
	Thumbnail rssThumbnail `xml:"thumbnail"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
}

// parseFeed decodes RSS 2.0 or Atom based on the document's root element.
func parseFeed(raw []byte) ([]entry, error) {
	root, err := rootElement(raw)
	if err != nil {
		return nil, err
	}

	switch root {
	case "rss", "RDF":
		var doc rssDoc
		if err := xml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode rss: %w", err)
		}
		entries := make([]entry, 0, len(doc.Channel.Item))
		for _, it := range doc.Channel.Item {
			entries = append(entries, entry{
				Title:     it.Title,
				Link:      it.Link,
				Summary:   it.Description,
				Thumbnail: it.Thumbnail.URL,
				Published: it.PubDate,
			})
		}
		return entries, nil
	case "feed":
		var doc atomDoc
		if err := xml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode atom: %w", err)
		}
		entries := make([]entry, 0, len(doc.Entry))
		for _, it := range doc.Entry {
			summary := it.Summary
			if summary == "" {
				summary = it.Content
			}
			published := it.Published
			if published == "" {
				published = it.Updated
			}
			entries = append(entries, entry{
				Title:     it.Title,
				Link:      atomHref(it.Link),
				Summary:   summary,
				Thumbnail: it.Thumbnail.URL,
				Published: published,
			})
		}
		return entries, nil
	default:
		return nil, fmt.Errorf("unsupported feed format %q", root)
	}
}

// atomHref prefers the alternate link, falling back to the first one.
func atomHref(links []atomLink) string {
	for _, l := range links {
		if l.Rel == "" || l.Rel == "alternate" {
			return l.Href
		}
	}
	if len(links) > 0 {
		return links[0].Href
	}
	return ""
}

func rootElement(raw []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", fmt.Errorf("read feed root: %w", err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start.Name.Local, nil
		}
	}
}
