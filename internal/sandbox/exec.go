package sandbox

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"time"

	"scout-cli/internal/util"
)

// Outcome captures the bounded output of one finished child process. Nonzero
// exit codes are data, not errors: callers interpret them per tool.
type Outcome struct {
	Stdout    string
	Stderr    string
	ExitCode  int
	Truncated bool
}

// Executor runs an argv vector directly (no shell interpretation) with a
// fixed working directory, a hard timeout, and byte/line output ceilings.
type Executor struct {
	Dir      string
	Timeout  time.Duration
	MaxBytes int
	MaxLines int
}

// Run spawns argv[0] with the remaining arguments. On timeout the child is
// killed before Run returns, so no process outlives the request. Errors are
// one of TimeoutError, NotInstalledError, or SpawnError.
func (e *Executor) Run(ctx context.Context, argv ...string) (Outcome, error) {
	if len(argv) == 0 {
		return Outcome{}, &ValidationError{Reason: ReasonEmptyCommand}
	}

	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = e.Dir
	cmd.Env = minimalEnv()
	// Close pipes and reap the child even if it ignores the kill briefly.
	cmd.WaitDelay = 2 * time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return Outcome{}, &TimeoutError{Seconds: int(timeout.Seconds())}
	}

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.As(err, &exitErr):
			exitCode = exitErr.ExitCode()
		case errors.Is(err, exec.ErrNotFound):
			return Outcome{}, &NotInstalledError{Tool: argv[0]}
		default:
			return Outcome{}, &SpawnError{Tool: argv[0], Err: err}
		}
	}

	out := Outcome{ExitCode: exitCode}
	out.Stdout, out.Stderr, out.Truncated = e.bound(stdout.String(), stderr.String())
	return out, nil
}

// bound applies the line ceiling per stream and the byte ceiling across both
// streams, stdout first, so the combined output never exceeds MaxBytes.
func (e *Executor) bound(stdout, stderr string) (string, string, bool) {
	truncated := false
	if e.MaxBytes <= 0 && e.MaxLines <= 0 {
		return stdout, stderr, false
	}

	var did bool
	stdout, did = util.TruncateOutput(stdout, e.MaxLines, e.MaxBytes)
	truncated = truncated || did

	stderrBytes := e.MaxBytes
	if stderrBytes > 0 {
		stderrBytes -= len(stdout)
	}
	if e.MaxBytes > 0 && stderrBytes <= 0 {
		if stderr != "" {
			truncated = true
		}
		return stdout, "", truncated
	}
	stderr, did = util.TruncateOutput(stderr, e.MaxLines, stderrBytes)
	truncated = truncated || did
	return stdout, stderr, truncated
}

// minimalEnv passes through only what child processes need to behave sanely;
// credentials and provider keys in the parent environment stay invisible.
func minimalEnv() []string {
	env := make([]string, 0, 5)
	for _, key := range []string{"PATH", "HOME", "LANG", "LC_ALL", "TMPDIR"} {
		if value, ok := os.LookupEnv(key); ok {
			env = append(env, key+"="+value)
		}
	}
	return env
}
