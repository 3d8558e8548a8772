package agent

import (
	"context"
	"testing"

	"github.com/tmc/langchaingo/llms"
)

var urlsSpec = ExtractSpec{
	Name:        "record_product_urls",
	Description: "Record product URLs per platform.",
	Schema: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"amazon":  map[string]any{"type": "string"},
			"walmart": map[string]any{"type": "string"},
		},
	},
}

func TestExtract_ParsesToolCallArguments(t *testing.T) {
	model := &fakeModel{responses: []*llms.ContentResponse{
		toolCallResp("record_product_urls", `{"amazon":"https://www.amazon.com/dp/B0ABC123"}`),
	}}

	var out struct {
		Amazon  *string `json:"amazon"`
		Walmart *string `json:"walmart"`
	}
	if err := Extract(context.Background(), model, urlsSpec, "some text", &out); err != nil {
		t.Fatal(err)
	}
	if out.Amazon == nil || *out.Amazon != "https://www.amazon.com/dp/B0ABC123" {
		t.Errorf("amazon not extracted: %v", out.Amazon)
	}
	if out.Walmart != nil {
		t.Errorf("walmart should be absent, got %v", *out.Walmart)
	}
}

func TestExtract_ErrorsWhenModelAnswersInText(t *testing.T) {
	model := &fakeModel{responses: []*llms.ContentResponse{textResp("no structured data")}}

	var out map[string]any
	if err := Extract(context.Background(), model, urlsSpec, "some text", &out); err == nil {
		t.Fatal("expected an error when the model does not call the function")
	}
}

func TestExtract_ErrorsOnMalformedArguments(t *testing.T) {
	model := &fakeModel{responses: []*llms.ContentResponse{
		toolCallResp("record_product_urls", `{"amazon": not-json`),
	}}

	var out map[string]any
	if err := Extract(context.Background(), model, urlsSpec, "some text", &out); err == nil {
		t.Fatal("expected an error on malformed function arguments")
	}
}
