// Package bridge provides the scraping backends the agent tools fetch
// pages through: the Bright Data API for production use and a local
// headless browser for development.
package bridge

import "context"

// Fetcher retrieves the raw HTML of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}
