package pipeline

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"

	"github.com/anish/priceguard/internal/agent"
	"github.com/anish/priceguard/internal/observability"
)

// ToolAgent runs one tool-using agent invocation and returns its final
// free-text answer.
type ToolAgent interface {
	Run(ctx context.Context, system, prompt string) (string, error)
}

// AgentFactory builds the tool-using agent a stage needs. Construction
// happens inside the stage so a failure becomes a step-wide error.
type AgentFactory func() (ToolAgent, error)

const resolverSystemPrompt = `You are a product search specialist. Find product pages on major retail platforms.

Your goal: find direct product pages for the given product on:
- Amazon
- Walmart
- Best Buy

Return the actual product page URLs, not search result pages.
Focus on finding exact matches for the product.`

const resolverPromptTemplate = `Find product pages for: %s

Search on these platforms and return direct product page URLs:
1. Amazon - find the specific product page
2. Walmart - find the specific product page
3. Best Buy - find the specific product page

For each platform, provide the direct URL to the product page (not search results).`

// productURLs is the record shape of the resolver's structured extraction.
// Absent fields mean no URL was found on that platform.
type productURLs struct {
	Amazon  *string `json:"amazon"`
	Walmart *string `json:"walmart"`
	BestBuy *string `json:"bestbuy"`
}

var productURLsSpec = agent.ExtractSpec{
	Name:        "record_product_urls",
	Description: "Record the direct product page URLs found for each retail platform.",
	Schema: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"amazon": map[string]any{
				"type":        "string",
				"description": "Amazon product page URL",
			},
			"walmart": map[string]any{
				"type":        "string",
				"description": "Walmart product page URL",
			},
			"bestbuy": map[string]any{
				"type":        "string",
				"description": "Best Buy product page URL",
			},
		},
	},
}

// Resolver is stage 1: it asks a tool-using agent to locate direct product
// pages for the query on each supported platform, then coerces the agent's
// free-text answer into per-platform URLs.
type Resolver struct {
	Model  llms.Model
	Agents AgentFactory
	Logger *observability.Logger
}

func NewResolver(model llms.Model, agents AgentFactory, logger *observability.Logger) *Resolver {
	return &Resolver{Model: model, Agents: agents, Logger: logger}
}

func (r *Resolver) Name() string { return "search" }

func (r *Resolver) Run(ctx context.Context, st State) State {
	out := st
	urls, err := r.resolve(ctx, st.ProductQuery)
	if err != nil {
		// Total failure: no partial results survive.
		out.SearchResults = map[Platform]string{}
		out.Error = fmt.Sprintf("Product search failed: %v", err)
		return out
	}
	out.SearchResults = urls
	return out
}

func (r *Resolver) resolve(ctx context.Context, query string) (map[Platform]string, error) {
	ag, err := r.Agents()
	if err != nil {
		return nil, err
	}

	answer, err := ag.Run(ctx, resolverSystemPrompt, fmt.Sprintf(resolverPromptTemplate, query))
	if err != nil {
		return nil, err
	}

	var rec productURLs
	prompt := fmt.Sprintf("Extract product URLs from these search results. Only include direct product page URLs, not search results:\n\n%s", answer)
	if err := agent.Extract(ctx, r.Model, productURLsSpec, prompt, &rec); err != nil {
		return nil, err
	}

	return rec.filter(), nil
}

// filter drops absent and empty fields so only platforms with a real URL
// appear in the result.
func (u productURLs) filter() map[Platform]string {
	out := map[Platform]string{}
	if u.Amazon != nil && *u.Amazon != "" {
		out[PlatformAmazon] = *u.Amazon
	}
	if u.Walmart != nil && *u.Walmart != "" {
		out[PlatformWalmart] = *u.Walmart
	}
	if u.BestBuy != nil && *u.BestBuy != "" {
		out[PlatformBestBuy] = *u.BestBuy
	}
	return out
}
