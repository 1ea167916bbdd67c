package slug

import (
	"regexp"
	"strings"
	"testing"
)

func TestMakeDeterministic(t *testing.T) {
	t.Parallel()

	first := Make("Apple unveils new AI chip", "https://example.com/a")
	second := Make("Apple unveils new AI chip", "https://example.com/a")

	if first != second {
		t.Fatalf("expected stable slug, got %q and %q", first, second)
	}
}

func TestMakeDistinguishesURLs(t *testing.T) {
	t.Parallel()

	a := Make("Same Title", "https://example.com/a")
	b := Make("Same Title", "https://example.com/b")

	if a == b {
		t.Fatalf("expected different slugs for different URLs, both %q", a)
	}
	if !strings.HasPrefix(a, "same-title-") || !strings.HasPrefix(b, "same-title-") {
		t.Fatalf("expected shared base, got %q and %q", a, b)
	}
}

func TestMakeURLSafe(t *testing.T) {
	t.Parallel()

	got := Make("C++ & Go: 100% faster?!", "https://example.com/x")

	safe := regexp.MustCompile(`^[a-z0-9-]+$`)
	if !safe.MatchString(got) {
		t.Fatalf("slug contains unsafe characters: %q", got)
	}
	if strings.HasPrefix(got, "-") || strings.Contains(got, "--") {
		t.Fatalf("slug not normalized: %q", got)
	}
}

func TestMakeTruncatesLongTitles(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("verylongword ", 20)
	got := Make(long, "https://example.com/long")

	// 60-char base plus "-" plus 6 hash chars.
	if len(got) > 67 {
		t.Fatalf("slug too long (%d): %q", len(got), got)
	}
}

func TestMakeEmptyTitle(t *testing.T) {
	t.Parallel()

	got := Make("???", "https://example.com/q")
	if len(got) != 6 {
		t.Fatalf("expected bare hash suffix, got %q", got)
	}
}
