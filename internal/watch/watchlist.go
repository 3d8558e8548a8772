// Package watch re-runs the price pipeline for a list of tracked products
// on a schedule and notifies when a target price is hit.
package watch

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Entry is one tracked product. An entry without a target price is checked
// and archived but never alerts.
type Entry struct {
	Query       string  `yaml:"query"`
	TargetPrice float64 `yaml:"target_price,omitempty"`
	ChatID      string  `yaml:"chat_id,omitempty"`
}

// Watchlist is the parsed watch file.
type Watchlist struct {
	Products []Entry `yaml:"products"`
}

// LoadWatchlist reads the YAML watch file. A missing file yields an empty
// list, not an error, so serve mode works without one.
func LoadWatchlist(path string) (*Watchlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Watchlist{}, nil
		}
		return nil, fmt.Errorf("failed to read watchlist: %v", err)
	}

	var wl Watchlist
	if err := yaml.Unmarshal(data, &wl); err != nil {
		return nil, fmt.Errorf("failed to parse watchlist: %v", err)
	}

	for i, e := range wl.Products {
		if e.Query == "" {
			return nil, fmt.Errorf("watchlist entry %d has no query", i+1)
		}
	}
	return &wl, nil
}
