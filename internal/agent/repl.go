package agent

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Repl drives the interactive session loop: read a question, run a turn,
// repeat. The prompt carries the running token totals so cost stays visible
// between queries.
type Repl struct {
	agent *Agent
	in    io.Reader
	out   io.Writer
}

// NewRepl builds a REPL over the given agent and streams.
func NewRepl(agent *Agent, in io.Reader, out io.Writer) *Repl {
	return &Repl{agent: agent, in: in, out: out}
}

// Run loops until EOF, "exit", or context cancellation. Turn-level errors are
// already rendered by the agent and do not end the session.
func (r *Repl) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(r.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(r.out, r.agent.Usage().PromptString())
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			fmt.Fprintln(r.out, ">> Goodbye!")
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			fmt.Fprintln(r.out, ">> Goodbye!")
			return nil
		}

		if _, err := r.agent.RunTurn(ctx, line); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
		}
	}
}
