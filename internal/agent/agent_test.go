package agent

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/tmc/langchaingo/llms"

	"github.com/anish/priceguard/internal/governance"
	"github.com/anish/priceguard/internal/tools"
)

type fakeModel struct {
	responses []*llms.ContentResponse
	calls     int
	lastMsgs  []llms.MessageContent
}

func (m *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, opts ...llms.CallOption) (*llms.ContentResponse, error) {
	m.lastMsgs = messages
	if m.calls >= len(m.responses) {
		return nil, fmt.Errorf("no scripted response for call %d", m.calls)
	}
	resp := m.responses[m.calls]
	m.calls++
	return resp, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, opts ...llms.CallOption) (string, error) {
	return "", fmt.Errorf("not implemented")
}

type echoTool struct {
	name     string
	lastArgs string
	err      error
}

func (t *echoTool) Name() string { return t.name }

func (t *echoTool) Description() string { return "echoes its input" }

func (t *echoTool) Parameters() map[string]any { return map[string]any{"type": "object"} }
func (t *echoTool) Execute(ctx context.Context, input string) (string, error) {
	t.lastArgs = input
	if t.err != nil {
		return "", t.err
	}
	return "echo: " + input, nil
}

func toolCallResp(name, args string) *llms.ContentResponse {
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{
			ToolCalls: []llms.ToolCall{{
				ID:           "call-1",
				Type:         "function",
				FunctionCall: &llms.FunctionCall{Name: name, Arguments: args},
			}},
		}},
	}
}

func textResp(text string) *llms.ContentResponse {
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: text}}}
}

func TestAgent_ToolLoopProducesFinalAnswer(t *testing.T) {
	tool := &echoTool{name: "fetch_page"}
	model := &fakeModel{responses: []*llms.ContentResponse{
		toolCallResp("fetch_page", `{"url":"https://example.com"}`),
		textResp("final answer"),
	}}

	ag := New(model, tools.NewRegistry(tool), nil, nil)
	answer, err := ag.Run(context.Background(), "system", "prompt")
	if err != nil {
		t.Fatal(err)
	}
	if answer != "final answer" {
		t.Errorf("unexpected answer: %q", answer)
	}
	if tool.lastArgs != `{"url":"https://example.com"}` {
		t.Errorf("tool not invoked with call arguments: %q", tool.lastArgs)
	}

	// The tool result must have been fed back as a tool message.
	var sawToolMsg bool
	for _, m := range model.lastMsgs {
		if m.Role == llms.ChatMessageTypeTool {
			sawToolMsg = true
		}
	}
	if !sawToolMsg {
		t.Error("tool result was not appended to the conversation")
	}
}

func TestAgent_ToolErrorSurfacesToModel(t *testing.T) {
	tool := &echoTool{name: "fetch_page", err: fmt.Errorf("connection refused")}
	model := &fakeModel{responses: []*llms.ContentResponse{
		toolCallResp("fetch_page", `{"url":"https://example.com"}`),
		textResp("degraded answer"),
	}}

	ag := New(model, tools.NewRegistry(tool), nil, nil)
	if _, err := ag.Run(context.Background(), "", "prompt"); err != nil {
		t.Fatalf("a tool error must not abort the loop: %v", err)
	}

	var toolResult string
	for _, m := range model.lastMsgs {
		if m.Role != llms.ChatMessageTypeTool {
			continue
		}
		for _, p := range m.Parts {
			if tr, ok := p.(llms.ToolCallResponse); ok {
				toolResult = tr.Content
			}
		}
	}
	if !strings.Contains(toolResult, "connection refused") {
		t.Errorf("tool error not surfaced to model: %q", toolResult)
	}
}

func TestAgent_PolicyDenialBlocksTool(t *testing.T) {
	tool := &echoTool{name: "fetch_page"}
	model := &fakeModel{responses: []*llms.ContentResponse{
		toolCallResp("fetch_page", `{"url":"file:///etc/passwd"}`),
		textResp("done"),
	}}

	ag := New(model, tools.NewRegistry(tool), governance.NewFetchPolicyEngine(), nil)
	if _, err := ag.Run(context.Background(), "", "prompt"); err != nil {
		t.Fatal(err)
	}
	if tool.lastArgs != "" {
		t.Error("denied tool call must not execute")
	}
}

func TestAgent_MaxStepsExceeded(t *testing.T) {
	tool := &echoTool{name: "fetch_page"}
	responses := make([]*llms.ContentResponse, 0, 3)
	for i := 0; i < 3; i++ {
		responses = append(responses, toolCallResp("fetch_page", `{"url":"https://example.com"}`))
	}
	model := &fakeModel{responses: responses}

	ag := New(model, tools.NewRegistry(tool), nil, nil)
	ag.MaxSteps = 3

	if _, err := ag.Run(context.Background(), "", "prompt"); err == nil {
		t.Fatal("expected an error when the step limit is exhausted")
	}
}
