package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"scout-cli/internal/sandbox"
	"scout-cli/internal/util"
)

const outputTruncationMarker = "\n[truncated]"

// BashTool runs a single allow-listed read-only command inside the base
// directory. Validation happens before any process is spawned, and the argv
// is executed directly, so the operator scan cannot be sidestepped by shell
// re-parsing.
type BashTool struct{}

// NewBashTool constructs a bash tool.
func NewBashTool() *BashTool {
	return &BashTool{}
}

func (t *BashTool) Name() string { return "bash" }

func (t *BashTool) Description() string {
	return fmt.Sprintf("Execute a read-only bash command. Only the following commands are allowed: %s. "+
		"Pipes, redirects, and command chaining with ;, &&, || are not allowed.",
		sandbox.AllowedCommandList())
}

func (t *BashTool) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"command": map[string]any{
				"type":        "string",
				"description": "The bash command to execute",
			},
		},
		"required":             []string{"command"},
		"additionalProperties": false,
	}
}

type bashInput struct {
	Command string `json:"command"`
}

func (t *BashTool) Execute(ctx context.Context, input json.RawMessage, meta Meta) (Result, error) {
	var args bashInput
	if err := json.Unmarshal(input, &args); err != nil {
		return Result{}, err
	}

	if err := sandbox.Validate(args.Command).Err(); err != nil {
		return Result{}, err
	}
	argv, err := splitArgv(args.Command)
	if err != nil {
		return Result{}, err
	}
	if len(argv) == 0 {
		return Result{}, &sandbox.ValidationError{Reason: sandbox.ReasonEmptyCommand}
	}

	executor := &sandbox.Executor{
		Dir:      meta.BaseDir,
		Timeout:  meta.Timeout,
		MaxBytes: meta.MaxBytes,
		MaxLines: meta.MaxLines,
	}
	start := time.Now()
	outcome, err := executor.Run(ctx, argv...)
	duration := time.Since(start).Milliseconds()
	if err != nil {
		return Result{}, err
	}

	switch {
	case outcome.ExitCode == 0:
	case outcome.ExitCode == 1 && sandbox.SearchStyle(argv[0]):
		// grep-style tools exit 1 on an empty result set.
		return Result{
			ToolName:   t.Name(),
			Text:       "No matches found",
			Preview:    "No matches found",
			LineCount:  1,
			ByteCount:  len("No matches found"),
			DurationMs: duration,
		}, nil
	case outcome.ExitCode == 127:
		return Result{}, &sandbox.NotInstalledError{Tool: argv[0]}
	default:
		detail := strings.TrimSpace(outcome.Stderr)
		if detail == "" {
			detail = strings.TrimSpace(outcome.Stdout)
		}
		return Result{}, fmt.Errorf("command failed with exit code %d: %s", outcome.ExitCode, util.RedactSecrets(detail))
	}

	text := util.RedactSecrets(outcome.Stdout)
	if stderr := strings.TrimSpace(outcome.Stderr); stderr != "" {
		if text != "" {
			text += "\n--- stderr ---\n"
		}
		text += util.RedactSecrets(stderr)
	}
	if outcome.Truncated {
		text += outputTruncationMarker
	}

	lineCount := 0
	if text != "" {
		lineCount = strings.Count(text, "\n") + 1
	}
	return Result{
		ToolName:   t.Name(),
		Text:       text,
		Preview:    util.Preview(text, 12, 2000),
		LineCount:  lineCount,
		ByteCount:  len(text),
		Truncated:  outcome.Truncated,
		DurationMs: duration,
	}, nil
}
