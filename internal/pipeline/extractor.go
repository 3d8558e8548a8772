package pipeline

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"

	"github.com/anish/priceguard/internal/agent"
	"github.com/anish/priceguard/internal/observability"
)

const extractorSystemPrompt = `You are a price extraction specialist. Extract accurate price information from product pages.

For each URL provided:
1. Use the relevant tool to fetch the product page
2. Find the current price
3. Extract the product title
4. Note availability status

IMPORTANT:
For Amazon - use the amazon_product tool
For Walmart - use the walmart_product tool
For Best Buy - use the bestbuy_product tool

Be precise with price extraction - look for the main selling price, not MSRP or crossed-out prices.`

const extractorPromptTemplate = `Extract price information from this product page: %s

Find and return:
1. Current price (as a number)
2. Product title
3. Availability status

Platform: %s
URL: %s`

// extractedPrice is the record shape of the per-platform structured
// extraction.
type extractedPrice struct {
	Price        *float64 `json:"price"`
	Title        string   `json:"title"`
	Availability string   `json:"availability"`
}

var extractedPriceSpec = agent.ExtractSpec{
	Name:        "record_price",
	Description: "Record the price information extracted from a product page.",
	Schema: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"price": map[string]any{
				"type":        "number",
				"description": "Product price as a number (no currency symbols)",
			},
			"title": map[string]any{
				"type":        "string",
				"description": "Product name/title",
			},
			"availability": map[string]any{
				"type":        "string",
				"description": "Availability status (in stock, out of stock, etc.)",
			},
		},
	},
}

// Extractor is stage 2: one extraction attempt per resolved URL, in
// canonical platform order. A failure on one platform is recorded inline
// and does not affect the others.
type Extractor struct {
	Model  llms.Model
	Agents AgentFactory
	Logger *observability.Logger
}

func NewExtractor(model llms.Model, agents AgentFactory, logger *observability.Logger) *Extractor {
	return &Extractor{Model: model, Agents: agents, Logger: logger}
}

func (e *Extractor) Name() string { return "extract" }

func (e *Extractor) Run(ctx context.Context, st State) State {
	out := st

	if len(st.SearchResults) == 0 {
		out.PriceData = []PriceRecord{}
		out.Error = "No product URLs found to extract prices from"
		return out
	}

	// The agent and its tools are built once and reused across platforms.
	// A construction failure here aborts the whole step.
	ag, err := e.Agents()
	if err != nil {
		out.PriceData = []PriceRecord{}
		out.Error = fmt.Sprintf("Price extraction failed: %v", err)
		return out
	}

	records := make([]PriceRecord, 0, len(st.SearchResults))
	for _, platform := range st.OrderedPlatforms() {
		url := st.SearchResults[platform]
		rec, err := e.extractOne(ctx, ag, platform, url)
		if err != nil {
			records = append(records, PriceRecord{
				Platform:     platform,
				Price:        nil,
				Title:        "",
				URL:          url,
				Availability: "Error extracting",
				Err:          err.Error(),
			})
			continue
		}
		records = append(records, rec)
	}

	out.PriceData = records
	return out
}

func (e *Extractor) extractOne(ctx context.Context, ag ToolAgent, platform Platform, url string) (PriceRecord, error) {
	answer, err := ag.Run(ctx, extractorSystemPrompt, fmt.Sprintf(extractorPromptTemplate, url, platform, url))
	if err != nil {
		return PriceRecord{}, err
	}

	var rec extractedPrice
	prompt := fmt.Sprintf("Extract price, title, and availability from this product page data for %s:\n\n%s", platform, answer)
	if err := agent.Extract(ctx, e.Model, extractedPriceSpec, prompt, &rec); err != nil {
		return PriceRecord{}, err
	}

	availability := rec.Availability
	if availability == "" {
		availability = "Unknown"
	}

	return PriceRecord{
		Platform:     platform,
		Price:        rec.Price,
		Title:        rec.Title,
		URL:          url,
		Availability: availability,
	}, nil
}
