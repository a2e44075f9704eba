package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockClient is a deterministic client for tests and offline demos. The first
// call asks to list the directory; the second produces a final answer.
type MockClient struct {
	mu    sync.Mutex
	calls int
}

// NewMockClient returns a simple mock.
func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Create(ctx context.Context, req Request) (Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	usage := Usage{InputTokens: 120, OutputTokens: 40, CachedInputTokens: 16}
	if m.calls == 1 {
		args, _ := json.Marshal(map[string]any{"command": "ls -la"})
		return Response{
			ToolCalls: []ToolCall{{ID: "call_1", Name: "bash", Arguments: args}},
			Usage:     usage,
		}, nil
	}
	return Response{
		Content: "The directory listing above shows the available files.",
		Usage:   usage,
	}, nil
}
