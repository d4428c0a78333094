// Package toolloop drives an autonomous LLM tool-calling loop: the model is
// repeatedly offered a tool set and every tool call it makes is executed and
// fed back, until it stops calling tools or the iteration budget runs out.
package toolloop

import (
	"context"
	"errors"
	"fmt"
	"time"

	"scaffolder/pkg/agent/llm"
	"scaffolder/pkg/contextmgr"
	"scaffolder/pkg/logx"
	"scaffolder/pkg/metrics"
	"scaffolder/pkg/tools"
)

// ErrIterationLimit is returned when the loop hits its iteration ceiling
// before the model finished.
var ErrIterationLimit = errors.New("tool loop iteration limit reached")

// Provider is what the loop needs from a tool provider.
type Provider interface {
	Get(name string) (tools.Tool, error)
	List() []tools.ToolMeta
}

// ToolCallRecord is one executed tool call in the transcript.
type ToolCallRecord struct {
	Args   map[string]any `json:"args"`
	Name   string         `json:"name"`
	Result string         `json:"result"`
}

// Turn is one assistant response plus the tool calls it triggered.
type Turn struct {
	Assistant string           `json:"assistant,omitempty"`
	ToolCalls []ToolCallRecord `json:"tool_calls,omitempty"`
}

// Transcript is the complete record of one tool loop run.
type Transcript struct {
	Turns []Turn `json:"turns"`
}

// FinalContent returns the assistant text of the last turn.
func (tr *Transcript) FinalContent() string {
	if len(tr.Turns) == 0 {
		return ""
	}
	return tr.Turns[len(tr.Turns)-1].Assistant
}

// ToolLoop manages LLM interactions with tool calling.
type ToolLoop struct {
	client llm.Client
	logger *logx.Logger
}

// New creates a new ToolLoop instance.
func New(client llm.Client) *ToolLoop {
	return &ToolLoop{
		client: client,
		logger: logx.NewLogger("toolloop"),
	}
}

// Config defines how the tool loop behaves.
type Config struct {
	// Provider supplies tool definitions and executes tool calls.
	Provider Provider

	// SystemPrompt seeds the conversation; required.
	SystemPrompt string

	// UserPrompt is the task-specific instruction; required.
	UserPrompt string

	// MaxIterations bounds the number of LLM round trips (default 10).
	MaxIterations int

	// MaxTokens bounds each completion (default llm.DefaultMaxTokens).
	MaxTokens int

	// CompactThreshold triggers context compaction when the conversation
	// exceeds this many tokens (0 disables compaction).
	CompactThreshold int
}

// Run executes the tool loop and returns the transcript. Backend errors
// propagate unwrapped so the caller's retry policy can classify them.
func (tl *ToolLoop) Run(ctx context.Context, cfg *Config) (*Transcript, error) {
	if cfg.Provider == nil {
		return nil, fmt.Errorf("tool provider is required")
	}
	maxIterations := cfg.MaxIterations
	if maxIterations <= 0 {
		maxIterations = 10
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = llm.DefaultMaxTokens
	}

	cm := contextmgr.NewContextManager()
	cm.AddMessage(string(llm.RoleSystem), cfg.SystemPrompt)
	cm.AddMessage(string(llm.RoleUser), cfg.UserPrompt)

	toolDefs := tl.toolDefinitions(cfg.Provider)
	transcript := &Transcript{}
	backend := tl.client.GetModelName()

	for iteration := 0; iteration < maxIterations; iteration++ {
		if cfg.CompactThreshold > 0 {
			cm.CompactIfNeeded(cfg.CompactThreshold)
		}

		req := llm.CompletionRequest{
			Messages:    buildMessages(cm),
			Tools:       toolDefs,
			MaxTokens:   maxTokens,
			Temperature: llm.TemperatureDeterministic,
		}

		tl.logger.Info("LLM call to %s: %d messages, %d tools (iteration %d/%d)",
			backend, len(req.Messages), len(toolDefs), iteration+1, maxIterations)
		metrics.LLMTokens.WithLabelValues("prompt").Add(float64(cm.CountTokens()))

		start := time.Now()
		resp, err := tl.client.Complete(ctx, req)
		if err != nil {
			metrics.LLMRequests.WithLabelValues(backend, "error").Inc()
			return nil, err
		}
		metrics.LLMRequests.WithLabelValues(backend, "ok").Inc()
		tl.logger.Info("LLM call completed in %.3gs: %d chars, %d tool calls",
			time.Since(start).Seconds(), len(resp.Content), len(resp.ToolCalls))

		turn := Turn{Assistant: resp.Content}

		if len(resp.ToolCalls) == 0 {
			cm.AddMessage(string(llm.RoleAssistant), resp.Content)
			transcript.Turns = append(transcript.Turns, turn)
			return transcript, nil
		}

		cm.AddMessage(string(llm.RoleAssistant), describeToolCalls(resp))

		// Execute every tool call in the turn; the model expects one result
		// per call, so failures are encoded as textual results, never skipped.
		for i := range resp.ToolCalls {
			call := &resp.ToolCalls[i]
			result := tl.execute(ctx, cfg.Provider, call)
			turn.ToolCalls = append(turn.ToolCalls, ToolCallRecord{
				Name:   call.Name,
				Args:   call.Parameters,
				Result: result,
			})
			cm.AddMessage(string(llm.RoleUser),
				fmt.Sprintf("Tool %s returned:\n%s", call.Name, result))
		}
		transcript.Turns = append(transcript.Turns, turn)
	}

	return transcript, fmt.Errorf("%w after %d iterations", ErrIterationLimit, maxIterations)
}

func (tl *ToolLoop) execute(ctx context.Context, provider Provider, call *llm.ToolCall) string {
	tool, err := provider.Get(call.Name)
	if err != nil {
		tl.logger.Error("tool %s unavailable: %v", call.Name, err)
		metrics.ToolCalls.WithLabelValues(call.Name, "error").Inc()
		return fmt.Sprintf("ERROR: %v", err)
	}

	result, err := tool.Exec(ctx, call.Parameters)
	if err != nil || result == nil {
		tl.logger.Error("tool %s failed: %v", call.Name, err)
		metrics.ToolCalls.WithLabelValues(call.Name, "error").Inc()
		return fmt.Sprintf("ERROR: tool %s failed: %v", call.Name, err)
	}
	metrics.ToolCalls.WithLabelValues(call.Name, "ok").Inc()
	return result.Content
}

func (tl *ToolLoop) toolDefinitions(provider Provider) []tools.ToolDefinition {
	metas := provider.List()
	defs := make([]tools.ToolDefinition, len(metas))
	for i := range metas {
		defs[i] = tools.ToolDefinition{
			Name:        metas[i].Name,
			Description: metas[i].Description,
			InputSchema: metas[i].InputSchema,
		}
	}
	return defs
}

func buildMessages(cm *contextmgr.ContextManager) []llm.CompletionMessage {
	msgs := cm.Messages()
	out := make([]llm.CompletionMessage, len(msgs))
	for i := range msgs {
		out[i] = llm.CompletionMessage{
			Role:    llm.CompletionRole(msgs[i].Role),
			Content: msgs[i].Content,
		}
	}
	return out
}

// describeToolCalls renders an assistant turn with tool calls for the plain
// text context. Backends that need structured tool history rebuild it from
// their own wire format.
func describeToolCalls(resp llm.CompletionResponse) string {
	desc := resp.Content
	for i := range resp.ToolCalls {
		if desc != "" {
			desc += "\n"
		}
		desc += fmt.Sprintf("[tool call] %s(%v)", resp.ToolCalls[i].Name, resp.ToolCalls[i].Parameters)
	}
	return desc
}
