package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/anish/priceguard/internal/observability"
)

const reportSystemPrompt = `Create a clean, professional price analysis report.

Format with clear sections:
- Product name as header
- Price summary with median, average, range
- Platform breakdown with individual prices
- Confidence score and summary

Make it easy to read and actionable.`

const reportPromptTemplate = `Create a price analysis report:

Product: %s
Median Price: $%.2f
Average Price: $%.2f
Price Range: $%.2f - $%.2f
Confidence Score: %.1f/10

Platform Data:
%s`

// Reporter is stage 3: it computes aggregate statistics and the confidence
// score over the extracted prices and asks the LLM to render them as prose.
type Reporter struct {
	Model  llms.Model
	Logger *observability.Logger
}

func NewReporter(model llms.Model, logger *observability.Logger) *Reporter {
	return &Reporter{Model: model, Logger: logger}
}

func (r *Reporter) Name() string { return "report" }

func (r *Reporter) Run(ctx context.Context, st State) State {
	out := st

	valid := st.ValidPrices()
	if len(valid) == 0 {
		score := 0.0
		out.FinalReport = fmt.Sprintf("❌ No prices found for %s", st.ProductQuery)
		out.Confidence = &score
		return out
	}

	stats := summarize(valid)
	score := confidence(len(valid))
	out.Confidence = &score

	prompt := fmt.Sprintf(reportPromptTemplate,
		st.ProductQuery, stats.Median, stats.Mean, stats.Min, stats.Max, score,
		breakdown(st.PriceData))

	report, err := r.render(ctx, prompt)
	if err != nil {
		out.Error = fmt.Sprintf("Report generation failed: %v", err)
		return out
	}
	out.FinalReport = report
	return out
}

func (r *Reporter) render(ctx context.Context, prompt string) (string, error) {
	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(reportSystemPrompt)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(prompt)},
		},
	}

	resp, err := r.Model.GenerateContent(ctx, messages)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Content == "" {
		return "", fmt.Errorf("model returned an empty report")
	}
	if r.Logger != nil {
		r.Logger.LogLLM(prompt, resp.Choices[0].Content)
	}
	return resp.Choices[0].Content, nil
}

// breakdown renders one line per extraction attempt, successful or not, so
// every platform that was tried appears in the report.
func breakdown(records []PriceRecord) string {
	var b strings.Builder
	for _, rec := range records {
		name := titleCase(string(rec.Platform))
		if rec.Price != nil {
			title := rec.Title
			if title == "" {
				title = "N/A"
			}
			fmt.Fprintf(&b, "• %s: $%.2f - %s\n", name, *rec.Price, title)
		} else {
			fmt.Fprintf(&b, "• %s: No price found\n", name)
		}
	}
	return b.String()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
