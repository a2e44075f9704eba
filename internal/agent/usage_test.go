package agent

import (
	"sync"
	"testing"

	"scout-cli/internal/llm"
)

func TestUsageAccumulatorRecord(t *testing.T) {
	acc := NewUsageAccumulator()
	acc.Record(llm.Usage{InputTokens: 100, OutputTokens: 20, CachedInputTokens: 10})
	acc.Record(llm.Usage{InputTokens: 50, OutputTokens: 5})

	got := acc.Snapshot()
	if got.InputTokens != 150 || got.OutputTokens != 25 || got.CachedInputTokens != 10 {
		t.Fatalf("unexpected totals %+v", got)
	}
}

func TestUsageAccumulatorConcurrent(t *testing.T) {
	acc := NewUsageAccumulator()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			acc.Record(llm.Usage{InputTokens: 1, OutputTokens: 2, CachedInputTokens: 3})
		}()
	}
	wg.Wait()

	got := acc.Snapshot()
	if got.InputTokens != 50 || got.OutputTokens != 100 || got.CachedInputTokens != 150 {
		t.Fatalf("lost updates: %+v", got)
	}
}

func TestPromptString(t *testing.T) {
	acc := NewUsageAccumulator()
	if got := acc.PromptString(); got != "in 0, out 0> " {
		t.Fatalf("unexpected empty prompt %q", got)
	}

	acc.Record(llm.Usage{InputTokens: 1234, OutputTokens: 456, CachedInputTokens: 300})
	if got := acc.PromptString(); got != "in 1.2k (300 cached), out 456> " {
		t.Fatalf("unexpected prompt %q", got)
	}
}

func TestFormatTokenCount(t *testing.T) {
	cases := map[int64]string{
		0:     "0",
		999:   "999",
		1000:  "1.0k",
		1500:  "1.5k",
		12345: "12.3k",
	}
	for in, want := range cases {
		if got := formatTokenCount(in); got != want {
			t.Fatalf("formatTokenCount(%d) = %q, want %q", in, got, want)
		}
	}
}
