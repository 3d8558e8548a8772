package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tmc/langchaingo/llms"
)

// ExtractSpec declares the record shape a structured extraction must return.
// The shape is presented to the model as a single function tool; Schema is
// the JSON schema of its arguments.
type ExtractSpec struct {
	Name        string
	Description string
	Schema      map[string]any
}

// Extract performs a tool-free structured extraction: the model is given one
// function tool describing the target record and must respond by calling it.
// The call's arguments are unmarshalled into out.
func Extract(ctx context.Context, model llms.Model, spec ExtractSpec, prompt string, out any) error {
	extractTools := []llms.Tool{
		{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        spec.Name,
				Description: spec.Description,
				Parameters:  spec.Schema,
			},
		},
	}

	messages := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(fmt.Sprintf(
				"You are a data extraction assistant. Respond only by calling the %s function with values extracted from the text. Leave fields you cannot determine unset.", spec.Name))},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(prompt)},
		},
	}

	resp, err := model.GenerateContent(ctx, messages, llms.WithTools(extractTools))
	if err != nil {
		return err
	}
	if len(resp.Choices) == 0 {
		return fmt.Errorf("model returned no choices")
	}

	for _, tc := range resp.Choices[0].ToolCalls {
		if tc.FunctionCall.Name != spec.Name {
			continue
		}
		if err := json.Unmarshal([]byte(tc.FunctionCall.Arguments), out); err != nil {
			return fmt.Errorf("failed to parse %s arguments: %v", spec.Name, err)
		}
		return nil
	}

	return fmt.Errorf("model did not call %s", spec.Name)
}
