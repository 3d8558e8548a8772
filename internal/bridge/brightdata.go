package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.brightdata.com"

// Client talks to the Bright Data API: the Web Unlocker for generic page
// fetches and the dataset scrape endpoint for per-platform structured
// product lookups.
type Client struct {
	Token   string
	Zone    string
	BaseURL string
	HTTP    *http.Client
}

func NewClient(token, zone string) *Client {
	return &Client{
		Token:   token,
		Zone:    zone,
		BaseURL: defaultBaseURL,
		HTTP:    &http.Client{Timeout: 90 * time.Second},
	}
}

type unlockRequest struct {
	Zone   string `json:"zone"`
	URL    string `json:"url"`
	Format string `json:"format"`
}

// Fetch retrieves a page through the Web Unlocker zone and returns the raw
// response body.
func (c *Client) Fetch(ctx context.Context, pageURL string) (string, error) {
	body, err := json.Marshal(unlockRequest{Zone: c.Zone, URL: pageURL, Format: "raw"})
	if err != nil {
		return "", err
	}
	return c.post(ctx, c.BaseURL+"/request", body)
}

type scrapeInput struct {
	URL string `json:"url"`
}

// Product fetches structured product data for a URL through the synchronous
// dataset scrape endpoint. The dataset ID selects the platform-specific
// collector (amazon, walmart or bestbuy).
func (c *Client) Product(ctx context.Context, datasetID, productURL string) (string, error) {
	if datasetID == "" {
		return "", fmt.Errorf("no dataset configured for this platform")
	}
	body, err := json.Marshal([]scrapeInput{{URL: productURL}})
	if err != nil {
		return "", err
	}
	endpoint := fmt.Sprintf("%s/datasets/v3/scrape?dataset_id=%s&format=json", c.BaseURL, datasetID)
	return c.post(ctx, endpoint, body)
}

func (c *Client) post(ctx context.Context, endpoint string, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("bright data request failed: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("bright data returned status %d: %s", resp.StatusCode, truncate(string(data), 200))
	}
	return string(data), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
