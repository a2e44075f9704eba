package agent

import (
	"context"
	"encoding/json"
	"testing"

	"scout-cli/internal/config"
	"scout-cli/internal/llm"
	"scout-cli/internal/tools"
	"scout-cli/internal/workspace"

	"go.uber.org/zap"
)

type fakeBashTool struct{}

func (f fakeBashTool) Name() string        { return "bash" }
func (f fakeBashTool) Description() string { return "fake shell tool" }
func (f fakeBashTool) Schema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{"command": map[string]any{"type": "string"}},
		"required":   []string{"command"},
	}
}
func (f fakeBashTool) Execute(ctx context.Context, input json.RawMessage, meta tools.Meta) (tools.Result, error) {
	text := "README.md\nmain.go"
	return tools.Result{ToolName: "bash", Text: text, Preview: text, LineCount: 2, ByteCount: len(text)}, nil
}

func testConfig(maxSteps int) config.Config {
	return config.Config{
		Model:    config.DefaultModel,
		MaxSteps: maxSteps,
		ToolLimits: config.ToolLimits{
			ReadMaxBytes: 1024, ReadMaxLines: 100,
			ShellMaxBytes: 1024, ShellMaxLines: 100,
			SearchMaxBytes: 1024, SearchMaxLines: 100, SearchMaxResults: 10,
			ContextMaxBytes: 4096,
		},
	}
}

func newTestAgent(t *testing.T, client llm.Client, maxSteps int) *Agent {
	t.Helper()
	dispatcher := tools.NewDispatcher(tools.NewRegistry(fakeBashTool{}), t.TempDir(), tools.Limits{}, zap.NewNop())
	wsCtx := workspace.Context{BaseDir: "/tmp", Preamble: "test preamble"}
	return NewAgent(client, dispatcher, nil, nil, nil, zap.NewNop(), testConfig(maxSteps), wsCtx)
}

func TestRunTurnWithMock(t *testing.T) {
	ag := newTestAgent(t, llm.NewMockClient(), 4)

	result, err := ag.RunTurn(context.Background(), "what files are here?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != "success" {
		t.Fatalf("expected success, got %q", result.Status)
	}
	if result.FinalAnswer == "" {
		t.Fatal("expected final answer")
	}
	if len(result.ToolCalls) != 1 {
		t.Fatalf("expected one tool call, got %d", len(result.ToolCalls))
	}
	if result.ToolCalls[0].ToolName != "bash" || result.ToolCalls[0].Status != "success" {
		t.Fatalf("unexpected tool call record %+v", result.ToolCalls[0])
	}
	if result.StepsUsed != 2 {
		t.Fatalf("expected 2 steps, got %d", result.StepsUsed)
	}
}

func TestRunTurnRecordsUsageOncePerProviderTurn(t *testing.T) {
	ag := newTestAgent(t, llm.NewMockClient(), 4)

	result, err := ag.RunTurn(context.Background(), "question")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Two provider turns at 120 in / 40 out / 16 cached each.
	if result.Usage.InputTokens != 240 || result.Usage.OutputTokens != 80 || result.Usage.CachedInputTokens != 32 {
		t.Fatalf("unexpected usage totals %+v", result.Usage)
	}
}

type alwaysToolClient struct{ calls int }

func (c *alwaysToolClient) Create(ctx context.Context, req llm.Request) (llm.Response, error) {
	c.calls++
	if len(req.Tools) == 0 {
		return llm.Response{Content: "partial summary", Usage: llm.Usage{InputTokens: 10}}, nil
	}
	args, _ := json.Marshal(map[string]any{"command": "ls"})
	return llm.Response{
		ToolCalls: []llm.ToolCall{{ID: "call_n", Name: "bash", Arguments: args}},
		Usage:     llm.Usage{InputTokens: 10, OutputTokens: 5},
	}, nil
}

func TestRunTurnStepCeiling(t *testing.T) {
	client := &alwaysToolClient{}
	ag := newTestAgent(t, client, 3)

	result, err := ag.RunTurn(context.Background(), "loop forever")
	if err == nil {
		t.Fatal("expected max steps error")
	}
	if result.Status != "partial" {
		t.Fatalf("expected partial status, got %q", result.Status)
	}
	if result.StepsUsed != 3 {
		t.Fatalf("expected 3 steps, got %d", result.StepsUsed)
	}
	if result.FinalAnswer == "" {
		t.Fatal("expected a wrap-up answer")
	}
}

type failingClient struct{}

func (failingClient) Create(ctx context.Context, req llm.Request) (llm.Response, error) {
	return llm.Response{}, context.DeadlineExceeded
}

func TestRunTurnModelError(t *testing.T) {
	ag := newTestAgent(t, failingClient{}, 4)

	result, err := ag.RunTurn(context.Background(), "question")
	if err == nil {
		t.Fatal("expected error")
	}
	if result.Status != "failure" {
		t.Fatalf("expected failure status, got %q", result.Status)
	}
}

func TestHistoryCarriesAcrossTurns(t *testing.T) {
	ag := newTestAgent(t, llm.NewMockClient(), 4)

	before := len(ag.messages)
	if _, err := ag.RunTurn(context.Background(), "first"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// user + assistant(tool calls) + tool result + final assistant
	if len(ag.messages) != before+4 {
		t.Fatalf("expected history to grow by 4, got %d -> %d", before, len(ag.messages))
	}
}
