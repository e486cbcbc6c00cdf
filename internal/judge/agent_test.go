package judge

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type echoTool struct {
	name string
	err  error
	last map[string]any
}

func (t *echoTool) Name() string        { return t.name }
func (t *echoTool) Description() string { return "echoes its arguments" }

func (t *echoTool) Call(ctx context.Context, args map[string]any) (any, error) {
	t.last = args
	if t.err != nil {
		return nil, t.err
	}
	return args, nil
}

func TestComposePrompt(t *testing.T) {
	req := Request{
		Role:         "a senior admissions officer",
		Instructions: "Score the applicant from 0 to 10.",
		Content:      "Applicant profile goes here.",
		Tools:        []Tool{&echoTool{name: "list_documents"}},
	}

	prompt := composePrompt(req)

	if !strings.HasPrefix(prompt, "You are a senior admissions officer.") {
		t.Errorf("prompt missing role line:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Score the applicant from 0 to 10.") {
		t.Error("prompt missing instructions")
	}
	if !strings.Contains(prompt, "- list_documents: echoes its arguments") {
		t.Error("prompt missing tool listing")
	}
	if !strings.Contains(prompt, `{"tool": "<name>", "args": {...}}`) {
		t.Error("prompt missing tool-call protocol")
	}
	if !strings.Contains(prompt, "Applicant profile goes here.") {
		t.Error("prompt missing content")
	}
}

func TestComposePromptWithoutTools(t *testing.T) {
	prompt := composePrompt(Request{
		Instructions: "Return strict JSON.",
		Content:      "payload",
	})

	if strings.Contains(prompt, "Available tools") {
		t.Error("prompt should not advertise tools when none are provided")
	}
	if strings.Contains(prompt, "You are") {
		t.Error("prompt should omit the role line when role is empty")
	}
}

func TestParseToolCall(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantTool string
		wantOK   bool
	}{
		{
			name:     "plain envelope",
			content:  `{"tool": "read_document", "args": {"doc_id": "abc"}}`,
			wantTool: "read_document",
			wantOK:   true,
		},
		{
			name:     "fenced envelope",
			content:  "```json\n{\"tool\": \"list_documents\", \"args\": {}}\n```",
			wantTool: "list_documents",
			wantOK:   true,
		},
		{
			name:    "final answer json",
			content: `{"score": 7.5, "evidence": []}`,
			wantOK:  false,
		},
		{
			name:    "prose answer",
			content: "The applicant meets the requirement.",
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call, ok := parseToolCall(tt.content)
			if ok != tt.wantOK {
				t.Fatalf("parseToolCall() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && call.Tool != tt.wantTool {
				t.Errorf("tool = %q, want %q", call.Tool, tt.wantTool)
			}
		})
	}
}

func TestDispatch(t *testing.T) {
	tool := &echoTool{name: "search_documents"}

	result := dispatch(context.Background(), []Tool{tool},
		toolCall{Tool: "search_documents", Args: map[string]any{"query": "IELTS"}})

	args, ok := result.(map[string]any)
	if !ok {
		t.Fatalf("dispatch() = %T, want args map", result)
	}
	if args["query"] != "IELTS" {
		t.Errorf("query = %v, want IELTS", args["query"])
	}
	if tool.last == nil {
		t.Error("tool was not invoked")
	}
}

func TestDispatchUnknownTool(t *testing.T) {
	result := dispatch(context.Background(), []Tool{&echoTool{name: "read_document"}},
		toolCall{Tool: "delete_everything"})

	fields, ok := result.(map[string]any)
	if !ok {
		t.Fatalf("dispatch() = %T, want error map", result)
	}
	if !strings.Contains(fields["error"].(string), "unknown tool") {
		t.Errorf("error = %v, want unknown tool", fields["error"])
	}
}

func TestDispatchToolError(t *testing.T) {
	tool := &echoTool{name: "read_document", err: errors.New("document not found")}

	result := dispatch(context.Background(), []Tool{tool},
		toolCall{Tool: "read_document", Args: map[string]any{"doc_id": "missing"}})

	fields, ok := result.(map[string]any)
	if !ok {
		t.Fatalf("dispatch() = %T, want error map", result)
	}
	if fields["error"] != "document not found" {
		t.Errorf("error = %v, want tool error text", fields["error"])
	}
}

func TestAppendToolResult(t *testing.T) {
	prompt := appendToolResult("base prompt",
		toolCall{Tool: "list_documents"},
		[]map[string]any{{"filename": "cv.pdf"}},
	)

	if !strings.HasPrefix(prompt, "base prompt") {
		t.Error("original prompt should be preserved")
	}
	if !strings.Contains(prompt, "Tool list_documents returned:") {
		t.Error("result header missing")
	}
	if !strings.Contains(prompt, `"filename":"cv.pdf"`) {
		t.Errorf("result payload missing:\n%s", prompt)
	}
}
