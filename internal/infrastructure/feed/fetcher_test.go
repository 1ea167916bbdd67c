package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"technewsbot/internal/config"
)

const longSummary = "This summary is comfortably longer than the fifty character minimum threshold used by the ingestor."

func testPipelineConfig() config.PipelineConfig {
	return config.PipelineConfig{
		ArticlesPerRun:   5,
		EntriesPerFeed:   15,
		MinSummaryChars:  50,
		MaxSummaryChars:  800,
		PaceDelaySeconds: 0,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func rssServer(t *testing.T, items string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<?xml version="1.0"?><rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/"><channel>%s</channel></rss>`, items)
	}))
}

func TestFetchAllNormalizesEntries(t *testing.T) {
	t.Parallel()

	server := rssServer(t, fmt.Sprintf(`
<item>
  <title> Apple unveils new AI chip </title>
  <link>https://example.com/ai-chip</link>
  <description><![CDATA[<p>%s</p>]]></description>
  <pubDate>Mon, 31 Aug 2026 07:00:00 +0000</pubDate>
  <media:thumbnail url="https://example.com/thumb.jpg"/>
</item>
<item>
  <title>Too thin</title>
  <link>https://example.com/thin</link>
  <description>short</description>
</item>
<item>
  <title>No link at all</title>
  <description>%s</description>
</item>`, longSummary, longSummary))
	defer server.Close()

	f := NewFetcher(server.Client(), []config.FeedConfig{{Name: "Example", URL: server.URL}}, testPipelineConfig(), discardLogger())

	articles, err := f.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll error: %v", err)
	}

	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}

	got := articles[0]
	if got.Title != "Apple unveils new AI chip" {
		t.Fatalf("unexpected title: %q", got.Title)
	}
	if got.Summary != longSummary {
		t.Fatalf("markup not stripped: %q", got.Summary)
	}
	if got.SourceName != "Example" {
		t.Fatalf("unexpected source name: %q", got.SourceName)
	}
	if got.ThumbnailURL != "https://example.com/thumb.jpg" {
		t.Fatalf("unexpected thumbnail: %q", got.ThumbnailURL)
	}
	if got.OriginalPublishedAt != "Mon, 31 Aug 2026 07:00:00 +0000" {
		t.Fatalf("unexpected published date: %q", got.OriginalPublishedAt)
	}
}

func TestFetchAllDeduplicatesByURL(t *testing.T) {
	t.Parallel()

	item := fmt.Sprintf(`
<item>
  <title>%%s</title>
  <link>%%s</link>
  <description>%s</description>
</item>`, longSummary)

	server := rssServer(t,
		fmt.Sprintf(item, "First occurrence", "https://example.com/dup")+
			fmt.Sprintf(item, "Unique story", "https://example.com/unique")+
			fmt.Sprintf(item, "Duplicate dup", "https://example.com/dup"))
	defer server.Close()

	f := NewFetcher(server.Client(), []config.FeedConfig{{Name: "Example", URL: server.URL}}, testPipelineConfig(), discardLogger())

	articles, err := f.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll error: %v", err)
	}

	if len(articles) != 2 {
		t.Fatalf("expected 2 unique articles, got %d", len(articles))
	}
	if articles[0].Title != "First occurrence" {
		t.Fatalf("expected first occurrence kept, got %q", articles[0].Title)
	}
}

func TestFetchAllCapsEntriesPerFeed(t *testing.T) {
	t.Parallel()

	var items strings.Builder
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&items, `
<item>
  <title>Story %d</title>
  <link>https://example.com/story-%d</link>
  <description>%s</description>
</item>`, i, i, longSummary)
	}

	server := rssServer(t, items.String())
	defer server.Close()

	cfg := testPipelineConfig()
	cfg.EntriesPerFeed = 3

	f := NewFetcher(server.Client(), []config.FeedConfig{{Name: "Example", URL: server.URL}}, cfg, discardLogger())

	articles, err := f.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll error: %v", err)
	}

	if len(articles) != 3 {
		t.Fatalf("expected per-feed cap of 3, got %d", len(articles))
	}
	if articles[0].Title != "Story 0" {
		t.Fatalf("expected newest-first order preserved, got %q", articles[0].Title)
	}
}

func TestFetchAllSkipsFailingSource(t *testing.T) {
	t.Parallel()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	healthy := rssServer(t, fmt.Sprintf(`
<item>
  <title>Still here</title>
  <link>https://example.com/ok</link>
  <description>%s</description>
</item>`, longSummary))
	defer healthy.Close()

	feeds := []config.FeedConfig{
		{Name: "Broken", URL: broken.URL},
		{Name: "Healthy", URL: healthy.URL},
	}

	f := NewFetcher(healthy.Client(), feeds, testPipelineConfig(), discardLogger())

	articles, err := f.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll error: %v", err)
	}

	if len(articles) != 1 || articles[0].SourceName != "Healthy" {
		t.Fatalf("expected only the healthy feed's article, got %+v", articles)
	}
}

func TestParseFeedAtom(t *testing.T) {
	t.Parallel()

	raw := fmt.Sprintf(`<?xml version="1.0"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <title>Atom entry</title>
    <link rel="alternate" href="https://example.com/atom"/>
    <summary>%s</summary>
    <published>2026-08-30T10:00:00Z</published>
  </entry>
</feed>`, longSummary)

	entries, err := parseFeed([]byte(raw))
	if err != nil {
		t.Fatalf("parseFeed error: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Link != "https://example.com/atom" {
		t.Fatalf("unexpected link: %q", entries[0].Link)
	}
	if entries[0].Published != "2026-08-30T10:00:00Z" {
		t.Fatalf("unexpected published: %q", entries[0].Published)
	}
}

func TestParseFeedUnsupportedRoot(t *testing.T) {
	t.Parallel()

	if _, err := parseFeed([]byte(`<html><body>not a feed</body></html>`)); err == nil {
		t.Fatal("expected error for non-feed document")
	}
}
