package store

import (
	"path/filepath"
	"testing"

	"github.com/anish/priceguard/internal/pipeline"
)

func newTestStore(t *testing.T) *RunStore {
	t.Helper()
	s, err := NewRunStore(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func ptr(f float64) *float64 { return &f }

func TestRunStore_SaveAndRecent(t *testing.T) {
	s := newTestStore(t)

	conf := 10.0
	st := pipeline.State{
		ProductQuery: "MacBook Air M3",
		FinalReport:  "the report",
		Confidence:   &conf,
		PriceData: []pipeline.PriceRecord{
			{Platform: pipeline.PlatformAmazon, Price: ptr(1299.99), Title: "MacBook", URL: "https://a", Availability: "In stock"},
			{Platform: pipeline.PlatformWalmart, Availability: "Error extracting", URL: "https://w", Err: "timeout"},
		},
	}

	runID, err := s.SaveRun(st)
	if err != nil {
		t.Fatal(err)
	}

	runs, err := s.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].Query != "MacBook Air M3" || runs[0].Confidence != 10.0 || runs[0].Report != "the report" {
		t.Errorf("unexpected run: %+v", runs[0])
	}

	prices, err := s.Prices(runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(prices) != 2 {
		t.Fatalf("expected 2 price rows, got %d", len(prices))
	}
	if prices[0].Price == nil || *prices[0].Price != 1299.99 {
		t.Errorf("amazon price lost: %v", prices[0].Price)
	}
	if prices[1].Price != nil {
		t.Errorf("nil price must stay nil, got %v", *prices[1].Price)
	}
	if prices[1].Err != "timeout" {
		t.Errorf("per-item error lost: %q", prices[1].Err)
	}
}

func TestRunStore_RecentOrdersNewestFirst(t *testing.T) {
	s := newTestStore(t)

	for _, q := range []string{"first", "second", "third"} {
		if _, err := s.SaveRun(pipeline.State{ProductQuery: q}); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := s.Recent(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Query != "third" || runs[1].Query != "second" {
		t.Errorf("unexpected order: %q, %q", runs[0].Query, runs[1].Query)
	}
}

func TestRunStore_SavesFailedRuns(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.SaveRun(pipeline.State{
		ProductQuery: "q",
		Error:        "Product search failed: boom",
	}); err != nil {
		t.Fatal(err)
	}

	runs, err := s.Recent(1)
	if err != nil {
		t.Fatal(err)
	}
	if runs[0].Error != "Product search failed: boom" {
		t.Errorf("error not archived: %q", runs[0].Error)
	}
	if runs[0].Confidence != 0 {
		t.Errorf("confidence should default to 0, got %v", runs[0].Confidence)
	}
}
