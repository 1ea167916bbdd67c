package classify

import "testing"

func TestClassifyMatchesKeyword(t *testing.T) {
	t.Parallel()

	got := Classify("SpaceX launches Starship", "Another orbital test flight.", DefaultTaxonomy())
	if got != "space-tech" {
		t.Fatalf("expected space-tech, got %q", got)
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	t.Parallel()

	got := Classify("RANSOMWARE Gang Strikes Hospitals", "", DefaultTaxonomy())
	if got != "cybersecurity" {
		t.Fatalf("expected cybersecurity, got %q", got)
	}
}

func TestClassifyNoMatch(t *testing.T) {
	t.Parallel()

	got := Classify("Quarterly gardening tips", "Roses and tulips.", DefaultTaxonomy())
	if got != "" {
		t.Fatalf("expected no category, got %q", got)
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	t.Parallel()

	taxonomy := []Category{
		{Slug: "first", Keywords: []string{"shared"}},
		{Slug: "second", Keywords: []string{"shared", "other"}},
	}

	got := Classify("a shared other keyword", "", taxonomy)
	if got != "first" {
		t.Fatalf("expected taxonomy order to break the tie, got %q", got)
	}
}

func TestClassifySearchesTitleAndSummary(t *testing.T) {
	t.Parallel()

	got := Classify("Big announcement today", "The new iPhone ships in March.", DefaultTaxonomy())
	if got != "smartphones" {
		t.Fatalf("expected smartphones via summary keyword, got %q", got)
	}
}
