package classify

import "strings"

// Category pairs a slug with its keyword triggers. Taxonomy order matters:
// the first category with a matching keyword wins.
type Category struct {
	Slug     string
	Keywords []string
}

// DefaultTaxonomy returns the built-in category mapping.
func DefaultTaxonomy() []Category {
	return []Category{
		{Slug: "artificial-intelligence", Keywords: []string{"ai", "artificial intelligence", "machine learning", "gpt", "llm", "chatgpt", "gemini", "claude", "openai", "deepmind", "neural"}},
		{Slug: "smartphones", Keywords: []string{"iphone", "android", "smartphone", "samsung", "pixel", "oneplus", "mobile phone"}},
		{Slug: "startups", Keywords: []string{"startup", "funding", "series a", "series b", "venture", "ipo", "unicorn", "valuation"}},
		{Slug: "cybersecurity", Keywords: []string{"hack", "breach", "ransomware", "malware", "vulnerability", "security", "phishing", "cyber"}},
		{Slug: "space-tech", Keywords: []string{"spacex", "nasa", "rocket", "satellite", "mars", "moon", "space", "orbit", "starship"}},
		{Slug: "gaming", Keywords: []string{"game", "gaming", "playstation", "xbox", "nintendo", "steam", "esports"}},
		{Slug: "electric-vehicles", Keywords: []string{"electric vehicle", "tesla", "ev ", "battery", "charging", "self-driving", "autonomous"}},
		{Slug: "social-media", Keywords: []string{"twitter", "x.com", "meta", "instagram", "tiktok", "youtube", "facebook", "linkedin"}},
	}
}

// Classify returns the slug of the first category whose keywords appear in
// the lowercased title+summary text, or "" when nothing matches. Pure and
// deterministic.
func Classify(title, summary string, taxonomy []Category) string {
	text := strings.ToLower(title + " " + summary)
	for _, cat := range taxonomy {
		for _, kw := range cat.Keywords {
			if strings.Contains(text, kw) {
				return cat.Slug
			}
		}
	}
	return ""
}
