package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tmc/langchaingo/llms"
)

func TestResolver_FiltersAbsentPlatforms(t *testing.T) {
	model := &fakeModel{
		generate: func(ctx context.Context, messages []llms.MessageContent, opts ...llms.CallOption) (*llms.ContentResponse, error) {
			return toolCallResponse("record_product_urls", `{"amazon":"https://www.amazon.com/dp/B0ABC123","walmart":null,"bestbuy":null}`), nil
		},
	}
	ag := &fakeAgent{run: func(ctx context.Context, system, prompt string) (string, error) {
		return "Found it on Amazon: https://www.amazon.com/dp/B0ABC123", nil
	}}

	r := NewResolver(model, agentFactory(ag, nil), nil)
	st := r.Run(context.Background(), State{ProductQuery: "MacBook Air M3"})

	if st.Failed() {
		t.Fatalf("unexpected error: %s", st.Error)
	}
	if len(st.SearchResults) != 1 {
		t.Fatalf("expected 1 entry, got %d: %v", len(st.SearchResults), st.SearchResults)
	}
	if st.SearchResults[PlatformAmazon] != "https://www.amazon.com/dp/B0ABC123" {
		t.Errorf("unexpected amazon URL: %s", st.SearchResults[PlatformAmazon])
	}
}

func TestResolver_EmptyStringTreatedAsAbsent(t *testing.T) {
	model := &fakeModel{
		generate: func(ctx context.Context, messages []llms.MessageContent, opts ...llms.CallOption) (*llms.ContentResponse, error) {
			return toolCallResponse("record_product_urls", `{"amazon":"","walmart":"https://www.walmart.com/ip/123"}`), nil
		},
	}
	ag := &fakeAgent{run: func(ctx context.Context, system, prompt string) (string, error) {
		return "answer", nil
	}}

	r := NewResolver(model, agentFactory(ag, nil), nil)
	st := r.Run(context.Background(), State{ProductQuery: "q"})

	if _, ok := st.SearchResults[PlatformAmazon]; ok {
		t.Error("empty amazon URL should have been dropped")
	}
	if st.SearchResults[PlatformWalmart] != "https://www.walmart.com/ip/123" {
		t.Errorf("walmart URL missing: %v", st.SearchResults)
	}
}

func TestResolver_AgentFailureIsTotal(t *testing.T) {
	model := &fakeModel{
		generate: func(ctx context.Context, messages []llms.MessageContent, opts ...llms.CallOption) (*llms.ContentResponse, error) {
			t.Fatal("extraction model should not be called when the agent fails")
			return nil, nil
		},
	}
	ag := &fakeAgent{run: func(ctx context.Context, system, prompt string) (string, error) {
		return "", errors.New("service unreachable")
	}}

	r := NewResolver(model, agentFactory(ag, nil), nil)
	st := r.Run(context.Background(), State{ProductQuery: "q"})

	if !st.Failed() {
		t.Fatal("expected step-wide error")
	}
	if !strings.HasPrefix(st.Error, "Product search failed: ") {
		t.Errorf("unexpected error message: %s", st.Error)
	}
	if len(st.SearchResults) != 0 {
		t.Errorf("expected empty results after failure, got %v", st.SearchResults)
	}
}

func TestResolver_AgentConstructionFailure(t *testing.T) {
	model := &fakeModel{
		generate: func(ctx context.Context, messages []llms.MessageContent, opts ...llms.CallOption) (*llms.ContentResponse, error) {
			return textResponse("unused"), nil
		},
	}

	r := NewResolver(model, agentFactory(nil, errors.New("no credentials")), nil)
	st := r.Run(context.Background(), State{ProductQuery: "q"})

	if !strings.HasPrefix(st.Error, "Product search failed: ") {
		t.Errorf("unexpected error message: %s", st.Error)
	}
}

func TestResolver_ExtractionRefusal(t *testing.T) {
	// Model answers in text instead of calling the extraction function.
	model := &fakeModel{
		generate: func(ctx context.Context, messages []llms.MessageContent, opts ...llms.CallOption) (*llms.ContentResponse, error) {
			return textResponse("I could not find any URLs"), nil
		},
	}
	ag := &fakeAgent{run: func(ctx context.Context, system, prompt string) (string, error) {
		return "answer", nil
	}}

	r := NewResolver(model, agentFactory(ag, nil), nil)
	st := r.Run(context.Background(), State{ProductQuery: "q"})

	if !strings.HasPrefix(st.Error, "Product search failed: ") {
		t.Errorf("unexpected error message: %s", st.Error)
	}
}
