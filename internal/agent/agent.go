package agent

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"scout-cli/internal/config"
	"scout-cli/internal/events"
	"scout-cli/internal/llm"
	"scout-cli/internal/render"
	"scout-cli/internal/tools"
	"scout-cli/internal/util"
	"scout-cli/internal/workspace"

	"github.com/google/uuid"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/packages/param"
	"github.com/openai/openai-go/v3/shared/constant"
	"go.uber.org/zap"
)

// TurnResult captures one question/answer turn for JSON mode and run
// persistence.
type TurnResult struct {
	TurnID      string           `json:"turn_id"`
	StartedAt   time.Time        `json:"timestamp_start"`
	FinishedAt  time.Time        `json:"timestamp_end"`
	BaseDir     string           `json:"base_dir"`
	Question    string           `json:"question"`
	Model       string           `json:"model"`
	StepsUsed   int              `json:"steps_used"`
	Status      string           `json:"status"`
	FinalAnswer string           `json:"final_answer"`
	ToolCalls   []ToolCallRecord `json:"tool_calls"`
	Usage       llm.Usage        `json:"usage"`
	Events      []events.Event   `json:"events"`
}

// ToolCallRecord records tool call history.
type ToolCallRecord struct {
	ToolName   string    `json:"tool_name"`
	Input      any       `json:"input"`
	Output     string    `json:"output"`
	Status     string    `json:"status"`
	StartedAt  time.Time `json:"started_at"`
	DurationMs int64     `json:"duration_ms"`
}

// Agent runs the orchestration loop. It owns the conversation history, so a
// REPL session carries earlier questions and tool results into later turns.
type Agent struct {
	client     llm.Client
	dispatcher *tools.Dispatcher
	renderer   render.Renderer
	tracker    *render.Tracker
	usage      *UsageAccumulator
	logger     *zap.Logger
	cfg        config.Config
	baseDir    string
	messages   []openai.ChatCompletionMessageParamUnion
}

// NewAgent constructs an Agent with the conversation seeded from the
// workspace context.
func NewAgent(client llm.Client, dispatcher *tools.Dispatcher, renderer render.Renderer, tracker *render.Tracker, usage *UsageAccumulator, logger *zap.Logger, cfg config.Config, wsCtx workspace.Context) *Agent {
	if logger == nil {
		logger = zap.NewNop()
	}
	if usage == nil {
		usage = NewUsageAccumulator()
	}
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(systemPrompt()),
		openai.DeveloperMessage(developerPrompt(dispatcher.Registry().Names())),
		openai.DeveloperMessage("Working directory context:\n" + wsCtx.Summary()),
	}
	return &Agent{
		client:     client,
		dispatcher: dispatcher,
		renderer:   renderer,
		tracker:    tracker,
		usage:      usage,
		logger:     logger,
		cfg:        cfg,
		baseDir:    wsCtx.BaseDir,
		messages:   messages,
	}
}

// Usage exposes the session accumulator for prompt rendering.
func (a *Agent) Usage() *UsageAccumulator {
	return a.usage
}

// RunTurn executes one question against the model until a final answer, the
// step ceiling, or an error. Conversation history is retained for the next
// turn either way.
func (a *Agent) RunTurn(ctx context.Context, question string) (TurnResult, error) {
	started := time.Now()
	result := TurnResult{
		TurnID:    uuid.NewString(),
		StartedAt: started,
		BaseDir:   a.baseDir,
		Question:  question,
		Model:     a.cfg.Model,
		Status:    "failure",
	}

	emit := func(event events.Event) {
		result.Events = append(result.Events, event)
		if a.renderer != nil {
			a.renderer.Emit(event)
		}
	}

	emit(events.Event{Type: events.TurnStarted, Timestamp: started, Payload: events.TurnStartedPayload{Question: question, StartedAt: started}})

	a.messages = append(a.messages, openai.UserMessage(question))

	toolDefs := a.dispatcher.Registry().OpenAITools()
	toolChoice := openai.ChatCompletionToolChoiceOptionUnionParam{}
	if len(toolDefs) > 0 {
		toolChoice = openai.ChatCompletionToolChoiceOptionUnionParam{OfAuto: param.NewOpt("auto")}
	}

	steps := 0
	for steps < a.cfg.MaxSteps {
		steps++
		response, err := a.createWithProgress(ctx, llm.Request{Model: a.cfg.Model, Messages: a.messages, Tools: toolDefs, ToolChoice: toolChoice}, emit)
		if err != nil {
			a.logger.Error("model request failed", zap.Error(err))
			emit(events.Event{Type: events.TurnError, Timestamp: time.Now(), Payload: events.TurnErrorPayload{Message: err.Error()}})
			result.StepsUsed = steps
			result.FinishedAt = time.Now()
			result.Usage = a.usage.Snapshot()
			return result, err
		}

		if len(response.ToolCalls) == 0 {
			final := strings.TrimSpace(response.Content)
			a.messages = append(a.messages, openai.AssistantMessage(final))
			result.FinalAnswer = final
			result.Status = "success"
			result.StepsUsed = steps
			result.FinishedAt = time.Now()
			result.Usage = a.usage.Snapshot()
			emit(events.Event{Type: events.AnswerReady, Timestamp: time.Now(), Payload: events.AnswerPayload{Answer: final}})
			emit(events.Event{Type: events.TurnFinished, Timestamp: result.FinishedAt, Payload: events.TurnFinishedPayload{Status: result.Status, StepsUsed: steps, FinishedAt: result.FinishedAt}})
			return result, nil
		}

		a.messages = append(a.messages, assistantToolCallMessage(response.ToolCalls))

		for _, call := range response.ToolCalls {
			record := a.runToolCall(ctx, call, emit)
			result.ToolCalls = append(result.ToolCalls, record)
		}
	}

	// Step ceiling reached. Ask for a best-effort wrap-up without tools so the
	// turn still ends with an answer.
	a.messages = append(a.messages, openai.DeveloperMessage("Step limit reached. Provide the best possible partial answer and include a warning."))
	final := "Max steps reached; unable to complete."
	if response, err := a.createWithProgress(ctx, llm.Request{Model: a.cfg.Model, Messages: a.messages}, emit); err == nil && strings.TrimSpace(response.Content) != "" {
		final = strings.TrimSpace(response.Content)
	}
	if !strings.Contains(strings.ToLower(final), "max steps") {
		final = "Max steps reached. " + final
	}
	a.messages = append(a.messages, openai.AssistantMessage(final))

	result.FinalAnswer = final
	result.Status = "partial"
	result.StepsUsed = steps
	result.FinishedAt = time.Now()
	result.Usage = a.usage.Snapshot()
	emit(events.Event{Type: events.AnswerReady, Timestamp: time.Now(), Payload: events.AnswerPayload{Answer: final}})
	emit(events.Event{Type: events.TurnFinished, Timestamp: result.FinishedAt, Payload: events.TurnFinishedPayload{Status: result.Status, StepsUsed: steps, FinishedAt: result.FinishedAt}})
	return result, errors.New("max steps reached")
}

// createWithProgress wraps one provider call in a progress indicator and
// records its usage exactly once on success.
func (a *Agent) createWithProgress(ctx context.Context, req llm.Request, emit func(events.Event)) (llm.Response, error) {
	spin := a.tracker.Begin("Thinking...")
	defer spin.Stop()

	response, err := a.client.Create(ctx, req)
	if err != nil {
		return llm.Response{}, err
	}
	spin.Stop()

	a.usage.Record(response.Usage)
	totals := a.usage.Snapshot()
	emit(events.Event{Type: events.UsageUpdated, Timestamp: time.Now(), Payload: events.UsagePayload{
		InputTokens:       totals.InputTokens,
		OutputTokens:      totals.OutputTokens,
		CachedInputTokens: totals.CachedInputTokens,
	}})
	return response, nil
}

// runToolCall dispatches one tool call and appends its outcome to the
// conversation. Rejections and failures are reported to the model as tool
// output rather than aborting the turn.
func (a *Agent) runToolCall(ctx context.Context, call llm.ToolCall, emit func(events.Event)) ToolCallRecord {
	input := sanitizeInput(call.Arguments)
	start := time.Now()
	emit(events.Event{Type: events.ToolCallStarted, Timestamp: start, Payload: events.ToolCallStartedPayload{ToolName: call.Name, Input: input, StartedAt: start}})

	spin := a.tracker.Begin("Running " + call.Name + "...")
	res := a.dispatcher.Dispatch(ctx, tools.Call{ID: call.ID, Name: call.Name, Arguments: call.Arguments})
	spin.Stop()

	status := "success"
	eventType := events.ToolCallFinished
	text := res.Text
	if res.IsError {
		status = "error"
		eventType = events.ToolCallFailed
		text = "Error: " + res.Text
	}
	emit(events.Event{Type: eventType, Timestamp: time.Now(), Payload: events.ToolCallFinishedPayload{
		ToolName:   call.Name,
		Status:     status,
		Preview:    res.Preview,
		LineCount:  res.LineCount,
		ByteCount:  res.ByteCount,
		Truncated:  res.Truncated,
		DurationMs: res.DurationMs,
	}})

	a.messages = append(a.messages, openai.ToolMessage(text, call.ID))
	return ToolCallRecord{
		ToolName:   call.Name,
		Input:      input,
		Output:     text,
		Status:     status,
		StartedAt:  start,
		DurationMs: res.DurationMs,
	}
}

func assistantToolCallMessage(calls []llm.ToolCall) openai.ChatCompletionMessageParamUnion {
	params := make([]openai.ChatCompletionMessageToolCallUnionParam, 0, len(calls))
	for _, call := range calls {
		params = append(params, openai.ChatCompletionMessageToolCallUnionParam{
			OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
				ID: call.ID,
				Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
					Name:      call.Name,
					Arguments: string(call.Arguments),
				},
				Type: constant.Function("function"),
			},
		})
	}
	assistant := openai.ChatCompletionAssistantMessageParam{ToolCalls: params}
	return openai.ChatCompletionMessageParamUnion{OfAssistant: &assistant}
}

func sanitizeInput(args json.RawMessage) any {
	if len(args) == 0 {
		return map[string]any{}
	}
	var data any
	if err := json.Unmarshal(args, &data); err != nil {
		return map[string]any{"raw": util.RedactSecrets(string(args))}
	}
	if raw, err := json.Marshal(data); err == nil {
		return util.RedactSecrets(string(raw))
	}
	return data
}
