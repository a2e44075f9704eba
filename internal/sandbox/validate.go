package sandbox

import (
	"slices"
	"strings"
)

// allowedCommands is the fixed allow-list of read-only inspection commands.
// Matching is exact and case-sensitive.
var allowedCommands = []string{
	"cat", "file", "find", "grep", "head", "ls", "rg", "tail", "tree", "wc",
}

// deniedOperators are shell metacharacters that enable chaining, substitution,
// or redirection. Any occurrence anywhere in the raw command rejects it, even
// when the first token is allow-listed; otherwise "ls; rm -rf /" would pass.
// Multi-character operators come first so the reported offender is precise.
var deniedOperators = []string{"&&", "||", "$(", "|", ";", "`", ">", "<"}

// Verdict is the outcome of validating one raw command string.
type Verdict struct {
	Allowed   bool
	Reason    RejectReason
	Offending string
}

// Err converts a rejection into its ValidationError, nil when allowed.
func (v Verdict) Err() error {
	if v.Allowed {
		return nil
	}
	return &ValidationError{Reason: v.Reason, Offending: v.Offending}
}

// Validate applies the dual control: operator denial over the whole string,
// then allow-list match on the first whitespace token. Purely syntactic and
// side-effect free; the executor never hands the string to a shell, so
// quoting beyond whitespace splitting does not need to be interpreted here.
func Validate(raw string) Verdict {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Verdict{Reason: ReasonEmptyCommand}
	}

	for _, op := range deniedOperators {
		if strings.Contains(trimmed, op) {
			return Verdict{Reason: ReasonDisallowedOperator, Offending: op}
		}
	}

	first := strings.Fields(trimmed)[0]
	if !slices.Contains(allowedCommands, first) {
		return Verdict{Reason: ReasonDisallowedCommand, Offending: first}
	}
	return Verdict{Allowed: true}
}

// SearchStyle reports whether a command name follows the grep convention of
// exiting 1 on "no matches". Exit-code semantics are tool-specific; only
// these are given the benign reading. find is not here: it exits 0 on an
// empty result set and 1 on a real error.
func SearchStyle(name string) bool {
	switch name {
	case "grep", "rg", "rga":
		return true
	}
	return false
}

// AllowedCommandList returns the allow-list as a comma-separated string for
// diagnostics and tool descriptions.
func AllowedCommandList() string {
	return strings.Join(allowedCommands, ", ")
}
