package agent

import (
	"context"
	"strings"
	"testing"

	"scout-cli/internal/llm"
)

func TestReplRunsTurnAndExitsOnEOF(t *testing.T) {
	ag := newTestAgent(t, llm.NewMockClient(), 4)
	in := strings.NewReader("what is in this directory?\n")
	var out strings.Builder

	repl := NewRepl(ag, in, &out)
	if err := repl.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "in 0, out 0> ") {
		t.Fatalf("expected initial zero prompt, got %q", got)
	}
	if !strings.Contains(got, "in 240 (32 cached), out 80> ") {
		t.Fatalf("expected usage-annotated prompt after turn, got %q", got)
	}
	if !strings.Contains(got, ">> Goodbye!") {
		t.Fatalf("expected goodbye on EOF, got %q", got)
	}
}

func TestReplSkipsEmptyLines(t *testing.T) {
	client := llm.NewMockClient()
	ag := newTestAgent(t, client, 4)
	in := strings.NewReader("\n   \nexit\n")
	var out strings.Builder

	repl := NewRepl(ag, in, &out)
	if err := repl.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ag.Usage().Snapshot(); got.InputTokens != 0 {
		t.Fatalf("empty lines must not reach the model, usage %+v", got)
	}
}

func TestReplStopsOnCancelledContext(t *testing.T) {
	ag := newTestAgent(t, llm.NewMockClient(), 4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repl := NewRepl(ag, strings.NewReader("question\n"), &strings.Builder{})
	if err := repl.Run(ctx); err == nil {
		t.Fatal("expected context error")
	}
}
