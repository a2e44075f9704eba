package events

import "time"

// Type represents an emitted event type.
type Type string

const (
	SessionStarted   Type = "SessionStarted"
	TurnStarted      Type = "TurnStarted"
	ToolCallStarted  Type = "ToolCallStarted"
	ToolCallFinished Type = "ToolCallFinished"
	ToolCallFailed   Type = "ToolCallFailed"
	AnswerReady      Type = "AnswerReady"
	UsageUpdated     Type = "UsageUpdated"
	TurnFinished     Type = "TurnFinished"
	TurnError        Type = "TurnError"
)

// Event is the common envelope for renderer events.
type Event struct {
	Type      Type      `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// SessionStartedPayload is emitted once per process.
type SessionStartedPayload struct {
	Version   string    `json:"version"`
	BaseDir   string    `json:"base_dir"`
	Model     string    `json:"model"`
	SessionID string    `json:"session_id"`
	StartedAt time.Time `json:"started_at"`
}

// TurnStartedPayload marks the start of one user query.
type TurnStartedPayload struct {
	Question  string    `json:"question"`
	StartedAt time.Time `json:"started_at"`
}

// ToolCallStartedPayload marks tool call start.
type ToolCallStartedPayload struct {
	ToolName  string    `json:"tool_name"`
	Input     any       `json:"input"`
	StartedAt time.Time `json:"started_at"`
}

// ToolCallFinishedPayload marks tool call end, successful or not.
type ToolCallFinishedPayload struct {
	ToolName   string `json:"tool_name"`
	Status     string `json:"status"`
	Preview    string `json:"preview"`
	LineCount  int    `json:"line_count"`
	ByteCount  int    `json:"byte_count"`
	Truncated  bool   `json:"truncated"`
	DurationMs int64  `json:"duration_ms"`
}

// AnswerPayload carries the final answer for one turn.
type AnswerPayload struct {
	Answer string `json:"answer"`
}

// UsagePayload reports running session token totals.
type UsagePayload struct {
	InputTokens       int64 `json:"input_tokens"`
	OutputTokens      int64 `json:"output_tokens"`
	CachedInputTokens int64 `json:"cached_input_tokens"`
}

// TurnFinishedPayload closes one turn.
type TurnFinishedPayload struct {
	Status     string    `json:"status"`
	StepsUsed  int       `json:"steps_used"`
	FinishedAt time.Time `json:"finished_at"`
}

// TurnErrorPayload records a turn-level error.
type TurnErrorPayload struct {
	Message string `json:"message"`
}
