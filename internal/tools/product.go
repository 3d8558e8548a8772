package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anish/priceguard/internal/bridge"
)

const maxProductChars = 50000

// ProductTool exposes one platform's structured product collector. Each
// supported platform gets its own tool instance ("amazon_product",
// "walmart_product", "bestbuy_product") so the extraction agent can be told
// exactly which tool to use for which URL.
type ProductTool struct {
	Platform  string
	DatasetID string
	Client    *bridge.Client
}

func NewProductTool(platform, datasetID string, client *bridge.Client) *ProductTool {
	return &ProductTool{Platform: platform, DatasetID: datasetID, Client: client}
}

func (t *ProductTool) Name() string {
	return t.Platform + "_product"
}

func (t *ProductTool) Description() string {
	return fmt.Sprintf("Fetch structured product data (price, title, availability) for a %s product page URL.", t.Platform)
}

func (t *ProductTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url": map[string]any{
				"type":        "string",
				"description": fmt.Sprintf("The %s product page URL", t.Platform),
			},
		},
		"required": []string{"url"},
	}
}

func (t *ProductTool) Execute(ctx context.Context, input string) (string, error) {
	var args struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal([]byte(input), &args); err != nil {
		return "", fmt.Errorf("invalid input: %v", err)
	}
	if args.URL == "" {
		return "", fmt.Errorf("url is required")
	}

	data, err := t.Client.Product(ctx, t.DatasetID, args.URL)
	if err != nil {
		return "", fmt.Errorf("product lookup failed: %v", err)
	}

	if len(data) > maxProductChars {
		data = data[:maxProductChars] + "\n... (truncated) ..."
	}
	return data, nil
}
