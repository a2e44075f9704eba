package agent

import (
	"fmt"
	"sync"

	"scout-cli/internal/llm"
)

// UsageAccumulator aggregates token usage across the REPL session. It is
// shared between the turn loop and rendering; all mutation goes through the
// mutex and no I/O happens while it is held. Totals reset only at process
// start.
type UsageAccumulator struct {
	mu    sync.Mutex
	total llm.Usage
}

// NewUsageAccumulator returns a zeroed accumulator.
func NewUsageAccumulator() *UsageAccumulator {
	return &UsageAccumulator{}
}

// Record adds one provider turn's usage to the session totals.
func (a *UsageAccumulator) Record(delta llm.Usage) {
	a.mu.Lock()
	a.total.InputTokens += delta.InputTokens
	a.total.OutputTokens += delta.OutputTokens
	a.total.CachedInputTokens += delta.CachedInputTokens
	a.mu.Unlock()
}

// Snapshot returns a consistent copy of the session totals.
func (a *UsageAccumulator) Snapshot() llm.Usage {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.total
}

// PromptString renders the usage-annotated REPL prompt, e.g.
// "in 1.2k (300 cached), out 450> ".
func (a *UsageAccumulator) PromptString() string {
	usage := a.Snapshot()
	in := formatTokenCount(usage.InputTokens)
	out := formatTokenCount(usage.OutputTokens)
	if usage.CachedInputTokens > 0 {
		return fmt.Sprintf("in %s (%s cached), out %s> ", in, formatTokenCount(usage.CachedInputTokens), out)
	}
	return fmt.Sprintf("in %s, out %s> ", in, out)
}

func formatTokenCount(count int64) string {
	if count < 1000 {
		return fmt.Sprintf("%d", count)
	}
	return fmt.Sprintf("%.1fk", float64(count)/1000.0)
}
