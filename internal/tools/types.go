package tools

import (
	"context"
	"encoding/json"
	"time"
)

// Meta provides execution context to tools. BaseDir and the limits are fixed
// for the process lifetime.
type Meta struct {
	BaseDir    string
	Timeout    time.Duration
	MaxBytes   int
	MaxLines   int
	MaxResults int
}

// Result is a structured tool execution result. Text is what goes back to the
// model; the remaining fields feed rendering and telemetry.
type Result struct {
	ToolName   string
	Text       string
	Preview    string
	LineCount  int
	ByteCount  int
	Truncated  bool
	DurationMs int64
}

// Tool describes a callable tool.
type Tool interface {
	Name() string
	Description() string
	Schema() map[string]any
	Execute(ctx context.Context, input json.RawMessage, meta Meta) (Result, error)
}
