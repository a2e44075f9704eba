package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"scout-cli/internal/sandbox"
	"scout-cli/internal/util"
)

const rgaInstallHint = "Please install ripgrep-all: https://github.com/phiresky/ripgrep-all"

// SearchDocsTool searches document formats (PDF, Word, Excel, archives)
// through ripgrep-all. The binary is located once at construction; a missing
// install surfaces as an actionable error, never a crash.
type SearchDocsTool struct {
	rgaPath string
}

// NewSearchDocsTool constructs a search_docs tool.
func NewSearchDocsTool() *SearchDocsTool {
	path, _ := exec.LookPath("rga")
	return &SearchDocsTool{rgaPath: path}
}

func (t *SearchDocsTool) Name() string { return "search_docs" }

func (t *SearchDocsTool) Description() string {
	return "Search through documents (PDFs, Word docs, Excel, etc.) using ripgrep-all. " +
		"Automatically handles binary formats and extracts text. " +
		"Use this when you need to find content in non-text files."
}

func (t *SearchDocsTool) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "The search query/pattern to find in documents",
			},
			"path": map[string]any{
				"type":        "string",
				"description": "Optional path or glob pattern to search in (defaults to current directory)",
			},
		},
		"required":             []string{"query"},
		"additionalProperties": false,
	}
}

type searchDocsInput struct {
	Query string `json:"query"`
	Path  string `json:"path"`
}

func (t *SearchDocsTool) Execute(ctx context.Context, input json.RawMessage, meta Meta) (Result, error) {
	var args searchDocsInput
	if err := json.Unmarshal(input, &args); err != nil {
		return Result{}, err
	}
	if strings.TrimSpace(args.Query) == "" {
		return Result{}, &sandbox.ValidationError{Reason: sandbox.ReasonEmptyQuery}
	}

	searchPath := args.Path
	if strings.TrimSpace(searchPath) == "" {
		searchPath = "."
	}
	clean := filepath.Clean(searchPath)
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return Result{}, fmt.Errorf("%w: %s", sandbox.ErrPathEscape, searchPath)
	}

	if t.rgaPath == "" {
		return Result{}, &sandbox.NotInstalledError{Tool: "rga", Hint: rgaInstallHint}
	}

	maxCount := meta.MaxResults
	if maxCount <= 0 {
		maxCount = sandbox.SearchMaxCount
	}
	executor := &sandbox.Executor{
		Dir:      meta.BaseDir,
		Timeout:  meta.Timeout,
		MaxBytes: meta.MaxBytes,
		MaxLines: meta.MaxLines,
	}

	start := time.Now()
	outcome, err := executor.Run(ctx,
		t.rgaPath,
		"-i",
		"--max-count", strconv.Itoa(maxCount),
		"--context", strconv.Itoa(sandbox.SearchContextLines),
		"--color", "never",
		args.Query,
		searchPath,
	)
	duration := time.Since(start).Milliseconds()
	if err != nil {
		var notInstalled *sandbox.NotInstalledError
		if errors.As(err, &notInstalled) {
			return Result{}, &sandbox.NotInstalledError{Tool: "rga", Hint: rgaInstallHint}
		}
		return Result{}, err
	}

	var text string
	switch outcome.ExitCode {
	case 0:
		text = util.RedactSecrets(outcome.Stdout)
		if outcome.Truncated {
			text += outputTruncationMarker
		}
	case 1:
		text = "No matches found"
	case 127:
		return Result{}, &sandbox.NotInstalledError{Tool: "rga", Hint: rgaInstallHint}
	default:
		return Result{}, fmt.Errorf("search failed with exit code %d: %s",
			outcome.ExitCode, util.RedactSecrets(strings.TrimSpace(outcome.Stderr)))
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
