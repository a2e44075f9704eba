package workspace

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"scout-cli/internal/sandbox"
	"scout-cli/internal/util"
)

const defaultPreamble = "You are a helpful search assistant. You can read files and execute safe " +
	"read-only shell commands to help users explore and understand the contents " +
	"of the working directory."

// Context carries the prompt-ready description of the base directory.
type Context struct {
	BaseDir     string
	Preamble    string
	FileListing string
	FromAgents  bool
}

// BuildContext assembles the session preamble: AGENTS.md from the base dir
// when present, the default preamble otherwise, plus a shallow file listing
// gathered through the sandboxed executor.
func BuildContext(ctx context.Context, baseDir string, maxBytes int) Context {
	out := Context{BaseDir: baseDir, Preamble: defaultPreamble}

	agentsPath := filepath.Join(baseDir, "AGENTS.md")
	if raw, err := os.ReadFile(agentsPath); err == nil {
		preamble := util.RedactSecrets(string(raw))
		if maxBytes > 0 {
			preamble, _ = util.TruncateBytes(preamble, maxBytes)
		}
		if strings.TrimSpace(preamble) != "" {
			out.Preamble = preamble
			out.FromAgents = true
		}
	}

	out.FileListing = gatherFileListing(ctx, baseDir, maxBytes)
	return out
}

// Summary renders the preamble with the directory listing appended, matching
// what the model sees as its system context.
func (c Context) Summary() string {
	var b strings.Builder
	b.WriteString(c.Preamble)
	if c.FileListing != "" {
		b.WriteString("\n\n## Available Files\n\n")
		b.WriteString("The following files are available in the working directory:\n\n")
		b.WriteString(c.FileListing)
	}
	return b.String()
}

func gatherFileListing(ctx context.Context, baseDir string, maxBytes int) string {
	executor := &sandbox.Executor{Dir: baseDir, Timeout: sandbox.DefaultTimeout, MaxBytes: maxBytes}
	out, err := executor.Run(ctx, "find", ".", "-maxdepth", "3", "-type", "f")
	if err != nil || out.ExitCode != 0 {
		return ""
	}
	return strings.TrimSpace(out.Stdout)
}
