package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"scout-cli/internal/sandbox"
	"scout-cli/internal/util"
	"scout-cli/internal/workspace"
)

const readTruncationMarker = "\n\n[truncated - file exceeds 50KB or 1000 lines limit]"

// ReadFileTool reads a file inside the base directory, optionally limited to
// a 1-indexed inclusive line range.
type ReadFileTool struct{}

// NewReadFileTool constructs a read_file tool.
func NewReadFileTool() *ReadFileTool {
	return &ReadFileTool{}
}

func (t *ReadFileTool) Name() string { return "read_file" }

func (t *ReadFileTool) Description() string {
	return "Read the contents of a file. Paths are relative to the working directory. " +
		"Use start_line and end_line to read specific portions of large files."
}

func (t *ReadFileTool) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"path": map[string]any{
				"type":        "string",
				"description": "The path to the file to read, relative to the working directory",
			},
			"start_line": map[string]any{
				"type":        "integer",
				"description": "Optional starting line number (1-indexed)",
			},
			"end_line": map[string]any{
				"type":        "integer",
				"description": "Optional ending line number (1-indexed, inclusive)",
			},
		},
		"required":             []string{"path"},
		"additionalProperties": false,
	}
}

type readFileInput struct {
	Path      string `json:"path"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
}

func (t *ReadFileTool) Execute(ctx context.Context, input json.RawMessage, meta Meta) (Result, error) {
	var args readFileInput
	if err := json.Unmarshal(input, &args); err != nil {
		return Result{}, err
	}
	if strings.TrimSpace(args.Path) == "" {
		return Result{}, fmt.Errorf("path is required")
	}

	start := time.Now()
	resolved, err := sandbox.Resolve(meta.BaseDir, args.Path)
	if err != nil {
		return Result{}, err
	}
	if workspace.IsDenylisted(resolved) {
		return Result{}, fmt.Errorf("access to sensitive file denied: %s", args.Path)
	}

	raw, err := os.ReadFile(resolved)
	if err != nil {
		return Result{}, err
	}

	lines := strings.Split(string(raw), "\n")
	total := len(lines)
	from := 0
	if args.StartLine > 0 {
		from = args.StartLine - 1
	}
	to := total
	if args.EndLine > 0 && args.EndLine < total {
		to = args.EndLine
	}
	if from > total {
		from = total
	}
	if from > to {
		from = to
	}
	selected := lines[from:to]

	maxBytes := meta.MaxBytes
	if maxBytes <= 0 {
		maxBytes = sandbox.ReadMaxBytes
	}
	maxLines := meta.MaxLines
	if maxLines <= 0 {
		maxLines = sandbox.ReadMaxLines
	}

	kept, truncated, byteCount := util.TruncateLinesAndBytes(selected, maxLines, maxBytes)
	text := util.RedactSecrets(strings.Join(kept, "\n"))
	if truncated {
		text += readTruncationMarker
	}

	rel, relErr := filepath.Rel(meta.BaseDir, resolved)
	if relErr != nil {
		rel = args.Path
	}
	return Result{
		ToolName:   t.Name(),
		Text:       text,
		Preview:    util.Preview(rel+"\n"+text, 12, 2000),
		LineCount:  len(kept),
		ByteCount:  byteCount,
		Truncated:  truncated,
		DurationMs: time.Since(start).Milliseconds(),
	}, nil
}
