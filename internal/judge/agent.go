package judge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/JaimeStill/cohort/pkg/contract"
)

// maxToolRounds bounds the tool-dispatch loop for a single invocation.
const maxToolRounds = 8

// Agent is the go-agents backed Invoker. Each Invoke creates a fresh agent
// from the configured template so invocations never share conversation
// state.
type Agent struct {
	cfg    gaconfig.AgentConfig
	logger *slog.Logger
}

func NewAgent(cfg gaconfig.AgentConfig, logger *slog.Logger) *Agent {
	return &Agent{cfg: cfg, logger: logger}
}

// toolCall is the envelope the model emits when it wants a tool executed
// instead of answering directly.
type toolCall struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args"`
}

// Invoke composes the prompt, sends it, and services tool requests until
// the model produces a final answer or the round budget runs out.
func (j *Agent) Invoke(ctx context.Context, req Request) (string, error) {
	cfg := j.cfg
	if req.ModelHint != "" && cfg.Model != nil {
		model := *cfg.Model
		model.Name = req.ModelHint
		cfg.Model = &model
	}

	a, err := agent.New(&cfg)
	if err != nil {
		return "", fmt.Errorf("%w: create agent: %w", ErrInvokeFailed, err)
	}

	prompt := composePrompt(req)

	for round := 0; round < maxToolRounds; round++ {
		resp, err := a.Chat(ctx, prompt)
		if err != nil {
			return "", fmt.Errorf("%w: chat call: %w", ErrInvokeFailed, err)
		}

		content := resp.Content()

		call, ok := parseToolCall(content)
		if !ok || len(req.Tools) == 0 {
			return content, nil
		}

		result := dispatch(ctx, req.Tools, call)

		j.logger.DebugContext(
			ctx, "tool dispatched",
			"tool", call.Tool,
			"round", round+1,
		)

		prompt = appendToolResult(prompt, call, result)
	}

	return "", ErrToolBudgetExceeded
}

func composePrompt(req Request) string {
	var b strings.Builder

	if req.Role != "" {
		fmt.Fprintf(&b, "You are %s.\n\n", req.Role)
	}

	b.WriteString(req.Instructions)
	b.WriteString("\n")

	if len(req.Tools) > 0 {
		b.WriteString("\nAvailable tools:\n")
		for _, t := range req.Tools {
			fmt.Fprintf(&b, "- %s: %s\n", t.Name(), t.Description())
		}
		b.WriteString("\nTo use a tool, respond with only a JSON object of the form " +
			`{"tool": "<name>", "args": {...}}` +
			". The result will be appended to this conversation. " +
			"When you have everything you need, respond with your final answer instead.\n")
	}

	if req.Content != "" {
		b.WriteString("\n---\n\n")
		b.WriteString(req.Content)
	}

	return b.String()
}

// parseToolCall reports whether the response is a tool-call envelope rather
// than a final answer.
func parseToolCall(content string) (toolCall, bool) {
	call, err := contract.Parse[toolCall](content)
	if err != nil || call.Tool == "" {
		return toolCall{}, false
	}
	return call, true
}

func dispatch(ctx context.Context, tools []Tool, call toolCall) any {
	for _, t := range tools {
		if t.Name() != call.Tool {
			continue
		}

		result, err := t.Call(ctx, call.Args)
		if err != nil {
			return map[string]any{"error": err.Error()}
		}
		return result
	}

	return map[string]any{"error": fmt.Sprintf("unknown tool: %s", call.Tool)}
}

func appendToolResult(prompt string, call toolCall, result any) string {
	payload, err := json.Marshal(result)
	if err != nil {
		payload = []byte(fmt.Sprintf(`{"error": %q}`, err.Error()))
	}

	return fmt.Sprintf("%s\n\nTool %s returned:\n%s\n", prompt, call.Tool, payload)
}
