package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Call is one tool-call request received from the model.
type Call struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

// ToolResult is the uniform outcome shape handed back to the agent loop,
// regardless of tool identity: either the full bounded output text or a short
// error string, never partial data.
type ToolResult struct {
	CallID     string
	ToolName   string
	Text       string
	IsError    bool
	Preview    string
	LineCount  int
	ByteCount  int
	Truncated  bool
	DurationMs int64
}

// Limits carries the per-tool output bounds applied by the dispatcher.
type Limits struct {
	Timeout          time.Duration
	ReadMaxBytes     int
	ReadMaxLines     int
	ShellMaxBytes    int
	ShellMaxLines    int
	SearchMaxBytes   int
	SearchMaxLines   int
	SearchMaxResults int
}

// Dispatcher routes a call to the matching tool and normalizes the outcome.
// Each call executes at most once; retries belong to the caller.
type Dispatcher struct {
	registry *Registry
	baseDir  string
	limits   Limits
	logger   *zap.Logger
}

// NewDispatcher constructs a dispatcher over a fixed tool set.
func NewDispatcher(registry *Registry, baseDir string, limits Limits, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{registry: registry, baseDir: baseDir, limits: limits, logger: logger}
}

// Registry exposes the underlying tool set for schema export.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Dispatch validates, executes, and reports one tool call. Rejections and
// execution failures come back as error-flavored ToolResults so the agent
// loop has a single result shape to forward to the model.
func (d *Dispatcher) Dispatch(ctx context.Context, call Call) ToolResult {
	tool, ok := d.registry.Get(call.Name)
	if !ok {
		text := fmt.Sprintf("unknown tool: %s", call.Name)
		d.logger.Warn("tool call rejected", zap.String("tool", call.Name), zap.String("reason", "unknown tool"))
		return ToolResult{CallID: call.ID, ToolName: call.Name, Text: text, IsError: true, LineCount: 1, ByteCount: len(text)}
	}

	d.logger.Debug("tool call started", zap.String("tool", call.Name))
	start := time.Now()
	res, err := tool.Execute(ctx, call.Arguments, d.metaFor(call.Name))
	duration := time.Since(start).Milliseconds()
	if err != nil {
		text := err.Error()
		d.logger.Warn("tool call failed",
			zap.String("tool", call.Name),
			zap.Int64("duration_ms", duration),
			zap.Error(err))
		return ToolResult{
			CallID:     call.ID,
			ToolName:   call.Name,
			Text:       text,
			IsError:    true,
			Preview:    text,
			LineCount:  1,
			ByteCount:  len(text),
			DurationMs: duration,
		}
	}

	d.logger.Debug("tool call finished",
		zap.String("tool", call.Name),
		zap.Int64("duration_ms", duration),
		zap.Bool("truncated", res.Truncated))
	return ToolResult{
		CallID:     call.ID,
		ToolName:   call.Name,
		Text:       res.Text,
		Preview:    res.Preview,
		LineCount:  res.LineCount,
		ByteCount:  res.ByteCount,
		Truncated:  res.Truncated,
		DurationMs: duration,
	}
}

func (d *Dispatcher) metaFor(name string) Meta {
	meta := Meta{BaseDir: d.baseDir, Timeout: d.limits.Timeout}
	switch name {
	case "read_file":
		meta.MaxBytes = d.limits.ReadMaxBytes
		meta.MaxLines = d.limits.ReadMaxLines
	case "bash":
		meta.MaxBytes = d.limits.ShellMaxBytes
		meta.MaxLines = d.limits.ShellMaxLines
	case "search_docs":
		meta.MaxBytes = d.limits.SearchMaxBytes
		meta.MaxLines = d.limits.SearchMaxLines
		meta.MaxResults = d.limits.SearchMaxResults
	}
	return meta
}
