package tools

import (
	"context"
	"encoding/json"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

type countingTool struct {
	executions atomic.Int64
}

func (c *countingTool) Name() string        { return "bash" }
func (c *countingTool) Description() string { return "counting fake" }
func (c *countingTool) Schema() map[string]any {
	return map[string]any{"type": "object", "properties": map[string]any{}}
}

func (c *countingTool) Execute(ctx context.Context, input json.RawMessage, meta Meta) (Result, error) {
	c.executions.Add(1)
	return Result{ToolName: "bash", Text: "ok", LineCount: 1, ByteCount: 2}, nil
}

func testLimits() Limits {
	return Limits{
		Timeout:       time.Second,
		ReadMaxBytes:  1024,
		ReadMaxLines:  100,
		ShellMaxBytes: 1024,
		ShellMaxLines: 100,
	}
}

func TestDispatchUnknownTool(t *testing.T) {
	d := NewDispatcher(NewRegistry(), t.TempDir(), testLimits(), nil)

	res := d.Dispatch(context.Background(), Call{ID: "c1", Name: "write_file"})
	if !res.IsError {
		t.Fatalf("expected error result")
	}
	if !strings.Contains(res.Text, "unknown tool") {
		t.Fatalf("unexpected text %q", res.Text)
	}
}

func TestDispatchExecutesExactlyOnce(t *testing.T) {
	tool := &countingTool{}
	d := NewDispatcher(NewRegistry(tool), t.TempDir(), testLimits(), nil)

	res := d.Dispatch(context.Background(), Call{ID: "c1", Name: "bash", Arguments: json.RawMessage(`{}`)})
	if res.IsError {
		t.Fatalf("unexpected error result %q", res.Text)
	}
	if got := tool.executions.Load(); got != 1 {
		t.Fatalf("expected exactly one execution, got %d", got)
	}
	if res.CallID != "c1" || res.ToolName != "bash" {
		t.Fatalf("result must echo call identity: %+v", res)
	}
}

func TestDispatchRejectionIsErrorResult(t *testing.T) {
	d := NewDispatcher(NewRegistry(NewBashTool()), t.TempDir(), testLimits(), nil)

	res := d.Dispatch(context.Background(), Call{
		ID:        "c2",
		Name:      "bash",
		Arguments: json.RawMessage(`{"command":"rg pattern | wc -l"}`),
	})
	if !res.IsError {
		t.Fatalf("expected rejection to surface as error result")
	}
	if !strings.Contains(res.Text, "forbidden operator") {
		t.Fatalf("expected operator rejection text, got %q", res.Text)
	}
}

func TestDispatchPerToolLimits(t *testing.T) {
	limits := testLimits()
	limits.SearchMaxResults = 42
	d := NewDispatcher(NewRegistry(), t.TempDir(), limits, nil)

	meta := d.metaFor("search_docs")
	if meta.MaxResults != 42 {
		t.Fatalf("expected search limits to apply, got %+v", meta)
	}
	if d.metaFor("bash").MaxBytes != limits.ShellMaxBytes {
		t.Fatalf("expected shell limits for bash")
	}
}
