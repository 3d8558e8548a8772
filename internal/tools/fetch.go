package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"
	"github.com/microcosm-cc/bluemonday"

	"github.com/anish/priceguard/internal/bridge"
)

const maxFetchChars = 50000

// FetchTool fetches a page through the configured scraping bridge and
// reduces it to clean readable text for the LLM.
type FetchTool struct {
	Fetcher bridge.Fetcher
}

func NewFetchTool(f bridge.Fetcher) *FetchTool {
	return &FetchTool{Fetcher: f}
}

func (t *FetchTool) Name() string {
	return "fetch_page"
}

func (t *FetchTool) Description() string {
	return "Fetch a webpage URL through the scraping bridge and return its main content as clean text."
}

func (t *FetchTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url": map[string]any{
				"type":        "string",
				"description": "The full URL of the page to fetch (e.g. https://www.amazon.com/dp/B0ABC123)",
			},
		},
		"required": []string{"url"},
	}
}

func (t *FetchTool) Execute(ctx context.Context, input string) (string, error) {
	var args struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal([]byte(input), &args); err != nil {
		return "", fmt.Errorf("invalid input: %v", err)
	}

	parsedURL, err := url.Parse(args.URL)
	if err != nil {
		return "", fmt.Errorf("failed to parse URL: %v", err)
	}

	html, err := t.Fetcher.Fetch(ctx, args.URL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL: %v", err)
	}

	article, err := readability.FromReader(strings.NewReader(html), parsedURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse page: %v", err)
	}

	// Strip any markup readability let through.
	sanitized := bluemonday.StrictPolicy().Sanitize(article.TextContent)

	output := fmt.Sprintf("TITLE: %s\n", article.Title)
	if article.Excerpt != "" {
		output += fmt.Sprintf("EXCERPT: %s\n", article.Excerpt)
	}
	output += "\n-- CONTENT --\n"

	content := sanitized
	if len(content) > maxFetchChars {
		content = content[:maxFetchChars] + "\n... (content truncated) ..."
	}
	output += content

	return output, nil
}
