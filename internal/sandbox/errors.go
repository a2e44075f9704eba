package sandbox

import (
	"errors"
	"fmt"
)

// RejectReason classifies why a request was refused before execution.
type RejectReason string

const (
	ReasonDisallowedCommand  RejectReason = "disallowed_command"
	ReasonDisallowedOperator RejectReason = "disallowed_operator"
	ReasonEmptyCommand       RejectReason = "empty_command"
	ReasonEmptyQuery         RejectReason = "empty_query"
)

// ErrPathEscape is returned when a resolved path lands outside the base
// directory, including escapes via ".." or symlinks.
var ErrPathEscape = errors.New("path escapes base directory")

// ErrNotFound is returned when a guarded path does not exist.
var ErrNotFound = errors.New("path not found")

// ValidationError rejects a command string before any process is spawned.
type ValidationError struct {
	Reason    RejectReason
	Offending string
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonDisallowedCommand:
		return fmt.Sprintf("command not in allowlist: %s (allowed: %s)", e.Offending, AllowedCommandList())
	case ReasonDisallowedOperator:
		return fmt.Sprintf("forbidden operator in command: %s", e.Offending)
	case ReasonEmptyQuery:
		return "search query is empty"
	default:
		return "empty command"
	}
}

// TimeoutError reports a child process that was killed at the deadline.
type TimeoutError struct {
	Seconds int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("command timed out after %d seconds", e.Seconds)
}

// NotInstalledError reports a missing external executable.
type NotInstalledError struct {
	Tool string
	Hint string
}

func (e *NotInstalledError) Error() string {
	if e.Hint == "" {
		return fmt.Sprintf("%s: executable not found", e.Tool)
	}
	return fmt.Sprintf("%s: executable not found. %s", e.Tool, e.Hint)
}

// SpawnError wraps a failure to start the child process at all.
type SpawnError struct {
	Tool string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to spawn %s: %v", e.Tool, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }
