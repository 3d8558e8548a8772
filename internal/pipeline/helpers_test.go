package pipeline

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
)

// fakeModel is a scripted llms.Model for deterministic stage tests.
type fakeModel struct {
	generate func(ctx context.Context, messages []llms.MessageContent, opts ...llms.CallOption) (*llms.ContentResponse, error)
	calls    int
}

func (m *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, opts ...llms.CallOption) (*llms.ContentResponse, error) {
	m.calls++
	return m.generate(ctx, messages, opts...)
}

func (m *fakeModel) Call(ctx context.Context, prompt string, opts ...llms.CallOption) (string, error) {
	return "", fmt.Errorf("not implemented")
}

// toolCallResponse builds a response in which the model calls the named
// function with the given JSON arguments.
func toolCallResponse(name, args string) *llms.ContentResponse {
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{
			{
				ToolCalls: []llms.ToolCall{
					{
						ID:   "call-1",
						Type: "function",
						FunctionCall: &llms.FunctionCall{
							Name:      name,
							Arguments: args,
						},
					},
				},
			},
		},
	}
}

func textResponse(text string) *llms.ContentResponse {
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: text}},
	}
}

// fakeAgent is a scripted ToolAgent.
type fakeAgent struct {
	run func(ctx context.Context, system, prompt string) (string, error)
}

func (a *fakeAgent) Run(ctx context.Context, system, prompt string) (string, error) {
	return a.run(ctx, system, prompt)
}

func agentFactory(a ToolAgent, err error) AgentFactory {
	return func() (ToolAgent, error) { return a, err }
}

func ptr(f float64) *float64 { return &f }
