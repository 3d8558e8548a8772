package agent

import (
	"context"
	"fmt"

	"github.com/anish/priceguard/internal/governance"
	"github.com/anish/priceguard/internal/observability"
	"github.com/anish/priceguard/internal/tools"
	"github.com/tmc/langchaingo/llms"
)

const defaultMaxSteps = 10

// Agent runs a tool-using reasoning loop over an LLM: the model is offered
// the registry's tools, tool calls are dispatched and their results fed back
// as tool messages, and the loop ends when the model answers in plain text.
type Agent struct {
	Model    llms.Model
	Registry *tools.Registry
	Policy   governance.PolicyEngine
	Logger   *observability.Logger
	MaxSteps int
}

func New(model llms.Model, registry *tools.Registry, policy governance.PolicyEngine, logger *observability.Logger) *Agent {
	return &Agent{
		Model:    model,
		Registry: registry,
		Policy:   policy,
		Logger:   logger,
		MaxSteps: defaultMaxSteps,
	}
}

// Run executes the loop with the given system instruction and user prompt
// and returns the model's final free-text answer.
func (a *Agent) Run(ctx context.Context, system, prompt string) (string, error) {
	messages := []llms.MessageContent{}
	if system != "" {
		messages = append(messages, llms.MessageContent{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(system)},
		})
	}
	messages = append(messages, llms.MessageContent{
		Role:  llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextPart(prompt)},
	})

	var llmTools []llms.Tool
	for _, t := range a.Registry.All() {
		llmTools = append(llmTools, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}

	maxSteps := a.MaxSteps
	if maxSteps <= 0 {
		maxSteps = defaultMaxSteps
	}

	for i := 0; i < maxSteps; i++ {
		resp, err := a.Model.GenerateContent(ctx, messages, llms.WithTools(llmTools))
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("model returned no choices")
		}
		choice := resp.Choices[0]

		var assistantParts []llms.ContentPart
		if choice.Content != "" {
			assistantParts = append(assistantParts, llms.TextContent{Text: choice.Content})
		}
		for _, tc := range choice.ToolCalls {
			assistantParts = append(assistantParts, tc)
		}
		messages = append(messages, llms.MessageContent{
			Role:  llms.ChatMessageTypeAI,
			Parts: assistantParts,
		})

		// No tool calls means the model produced its final answer.
		if len(choice.ToolCalls) == 0 {
			if a.Logger != nil {
				a.Logger.LogLLM(prompt, choice.Content)
			}
			return choice.Content, nil
		}

		for _, tc := range choice.ToolCalls {
			result := a.executeTool(ctx, i+1, tc)
			messages = append(messages, llms.MessageContent{
				Role: llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{
					llms.ToolCallResponse{
						ToolCallID: tc.ID,
						Name:       tc.FunctionCall.Name,
						Content:    result,
					},
				},
			})
		}
	}

	return "", fmt.Errorf("no final answer after %d reasoning steps", maxSteps)
}

func (a *Agent) executeTool(ctx context.Context, step int, tc llms.ToolCall) string {
	name := tc.FunctionCall.Name
	args := tc.FunctionCall.Arguments

	tool := a.Registry.Get(name)
	if tool == nil {
		return fmt.Sprintf("Error: tool %s not found", name)
	}

	if a.Policy != nil {
		verdict, err := a.Policy.Evaluate(ctx, governance.Request{Tool: name, Arguments: args})
		if err != nil {
			return fmt.Sprintf("Error: policy evaluation failed: %v", err)
		}
		if a.Logger != nil {
			a.Logger.LogPolicyCheck(name, string(verdict.Effect), verdict.Reason)
		}
		if verdict.Effect == governance.EffectDeny {
			return fmt.Sprintf("Error: tool call denied by policy: %s", verdict.Reason)
		}
	}

	if a.Logger != nil {
		a.Logger.LogToolCall(name, args)
	}
	result, err := tool.Execute(ctx, args)
	if err != nil {
		result = fmt.Sprintf("Error: %v", err)
	}
	if a.Logger != nil {
		a.Logger.LogToolResult(name, result, step)
	}
	return result
}
