package render

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"scout-cli/internal/events"
)

// StdoutRenderer streams events to a plain text writer.
type StdoutRenderer struct {
	w       io.Writer
	mu      sync.Mutex
	verbose bool
	quiet   bool
}

// NewStdoutRenderer creates a renderer for plain text streaming.
func NewStdoutRenderer(w io.Writer, verbose bool, quiet bool) *StdoutRenderer {
	return &StdoutRenderer{w: w, verbose: verbose, quiet: quiet}
}

func (r *StdoutRenderer) Emit(event events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch event.Type {
	case events.SessionStarted:
		if payload, ok := event.Payload.(events.SessionStartedPayload); ok {
			if r.quiet {
				return
			}
			fmt.Fprintf(r.w, "scout v%s | dir: %s | model: %s\n", payload.Version, payload.BaseDir, payload.Model)
			fmt.Fprintln(r.w, ">> Ready! Type your queries (Ctrl+C or Ctrl+D to exit)")
			fmt.Fprintln(r.w)
		}
	case events.ToolCallStarted:
		if payload, ok := event.Payload.(events.ToolCallStartedPayload); ok {
			if r.quiet {
				return
			}
			fmt.Fprintf(r.w, "\n>> %s(%v)\n", payload.ToolName, payload.Input)
		}
	case events.ToolCallFinished, events.ToolCallFailed:
		if payload, ok := event.Payload.(events.ToolCallFinishedPayload); ok {
			if r.quiet {
				return
			}
			status := "ok"
			if event.Type == events.ToolCallFailed {
				status = "err"
			}
			trunc := ""
			if payload.Truncated {
				trunc = ", truncated"
			}
			fmt.Fprintf(r.w, ">> %s %s (%dms, %d lines, %d bytes%s)\n",
				payload.ToolName, status, payload.DurationMs, payload.LineCount, payload.ByteCount, trunc)
			if r.verbose && payload.Preview != "" {
				for _, line := range strings.Split(payload.Preview, "\n") {
					fmt.Fprintf(r.w, "   %s\n", line)
				}
			}
		}
	case events.AnswerReady:
		if payload, ok := event.Payload.(events.AnswerPayload); ok {
			fmt.Fprintf(r.w, "\n%s\n\n", payload.Answer)
		}
	case events.UsageUpdated:
		if payload, ok := event.Payload.(events.UsagePayload); ok {
			if !r.verbose || r.quiet {
				return
			}
			fmt.Fprintf(r.w, ">> usage: in %d (%d cached), out %d\n",
				payload.InputTokens, payload.CachedInputTokens, payload.OutputTokens)
		}
	case events.TurnError:
		if payload, ok := event.Payload.(events.TurnErrorPayload); ok {
			fmt.Fprintf(r.w, "\n>> Error: %s\n", payload.Message)
		}
	}
}

func (r *StdoutRenderer) Close() error {
	return nil
}
