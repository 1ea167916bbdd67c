package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"technewsbot/internal/config"
	"technewsbot/internal/domain"
	"technewsbot/internal/ports"
)

const apiVersion = "2023-06-01"

// FormatError means the raw model response contained no JSON object.
type FormatError struct {
	Raw string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("no JSON found in translation response: %s", e.Raw)
}

// ParseError means the extracted JSON object could not be decoded.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid JSON in translation response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Client implements ports.Translator against an Anthropic-style messages API.
type Client struct {
	endpoint   string
	model      string
	apiKey     string
	maxTokens  int
	httpClient *http.Client
}

var _ ports.Translator = (*Client)(nil)

// NewClient builds a translation client from configuration.
func NewClient(cfg config.TranslatorConfig) *Client {
	return &Client{
		endpoint:   cfg.Endpoint,
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
		maxTokens:  cfg.MaxTokens,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type translationPayload struct {
	TitleKN         string `json:"title_kn"`
	SummaryKN       string `json:"summary_kn"`
	MetaDescription string `json:"meta_description"`
}

// Translate sends one generation request and parses the localized result.
// meta_description may be absent from the response; it comes back empty then.
// No retry happens here, failures propagate to the caller.
func (c *Client) Translate(ctx context.Context, title, summary string) (domain.Translation, error) {
	body, err := json.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages:  []message{{Role: "user", Content: buildPrompt(title, summary)}},
	})
	if err != nil {
		return domain.Translation{}, fmt.Errorf("marshal translation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.Translation{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Translation{}, fmt.Errorf("send translation request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return domain.Translation{}, fmt.Errorf("translation API error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var decoded messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Translation{}, fmt.Errorf("decode translation response: %w", err)
	}

	var raw string
	for _, block := range decoded.Content {
		if block.Type == "text" {
			raw = strings.TrimSpace(block.Text)
			break
		}
	}

	return parseTranslation(raw)
}

// parseTranslation extracts the first balanced JSON object from the raw
// model output and decodes the three localized fields.
func parseTranslation(raw string) (domain.Translation, error) {
	obj, ok := firstJSONObject(raw)
	if !ok {
		snippet := raw
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return domain.Translation{}, &FormatError{Raw: snippet}
	}

	var payload translationPayload
	if err := json.Unmarshal([]byte(obj), &payload); err != nil {
		return domain.Translation{}, &ParseError{Err: err}
	}

	return domain.Translation{
		TitleKN:         payload.TitleKN,
		SummaryKN:       payload.SummaryKN,
		MetaDescription: payload.MetaDescription,
	}, nil
}

// firstJSONObject scans for the first '{' and returns the substring up to
// its balancing '}', honoring string literals and escapes.
func firstJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = inString
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}

	return "", false
}

func buildPrompt(title, summary string) string {
	return fmt.Sprintf(`You are a professional Kannada journalist. Translate the following tech news article title and summary into natural, readable Kannada that a general Kannada-speaking audience would enjoy reading.

Guidelines:
- Write in clear, journalistic Kannada (not overly literary or academic)
- Keep proper nouns, brand names, and tech terms in English or transliterate them naturally (e.g., AI, iPhone, ChatGPT, Samsung)
- Numbers stay as digits
- The tone should be informative and engaging
- Do NOT add your own opinions or extra information

Return ONLY a JSON object with these exact keys:
{
  "title_kn": "Kannada translation of the title",
  "summary_kn": "Kannada translation of the summary",
  "meta_description": "A short 1-sentence Kannada SEO description (max 120 chars)"
}

Title: %s

Summary: %s`, title, summary)
}
