package node

import (
	"context"
	"errors"
	"testing"
	"time"

	contractx "oneprompt/agent/contract"
)

type stubComposer struct {
	reply string
	err   error
	got   contractx.ComposeRequest
}

func (c *stubComposer) Compose(_ context.Context, req contractx.ComposeRequest) (string, error) {
	c.got = req
	return c.reply, c.err
}

type stubRegistry struct {
	composer *stubComposer
}

func (r *stubRegistry) Planner() contractx.Planner   { return nil }
func (r *stubRegistry) Composer() contractx.Composer { return r.composer }

func TestValidatePrompt(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	state, err := ValidatePrompt(GraphInput{Prompt: "  what is 7*6  "}, func() time.Time { return now })
	if err != nil {
		t.Fatalf("ValidatePrompt() error = %v", err)
	}
	if state.Prompt != "what is 7*6" {
		t.Fatalf("prompt not trimmed: %q", state.Prompt)
	}
	if !state.Now.Equal(now) {
		t.Fatalf("now = %v, want %v", state.Now, now)
	}
}

func TestValidatePromptEmpty(t *testing.T) {
	t.Parallel()

	for _, prompt := range []string{"", "   ", "\t\n"} {
		if _, err := ValidatePrompt(GraphInput{Prompt: prompt}, time.Now); !errors.Is(err, contractx.ErrValidation) {
			t.Fatalf("prompt %q: expected ErrValidation, got %v", prompt, err)
		}
	}
}

func TestComposeReplyDirectAnswer(t *testing.T) {
	t.Parallel()

	composer := &stubComposer{reply: "should not be used"}
	state := &GraphState{
		Prompt:   "hello",
		Decision: contractx.RouteDecision{Answer: "hi there"},
	}

	out, err := ComposeReply(context.Background(), state, &stubRegistry{composer: composer})
	if err != nil {
		t.Fatalf("ComposeReply() error = %v", err)
	}
	if out.Response != "hi there" {
		t.Fatalf("response = %q", out.Response)
	}
	if composer.got.Prompt != "" {
		t.Fatal("composer should not run on a direct answer")
	}
}

func TestComposeReplyWithToolResults(t *testing.T) {
	t.Parallel()

	composer := &stubComposer{reply: "the answer is 4"}
	state := &GraphState{
		Prompt: "2+2",
		Decision: contractx.RouteDecision{
			ToolRequests: []contractx.ToolRequest{{Tool: "math.evaluate"}},
		},
		ToolResults: []contractx.ToolResult{{Tool: "math.evaluate", Result: 4.0}},
	}

	out, err := ComposeReply(context.Background(), state, &stubRegistry{composer: composer})
	if err != nil {
		t.Fatalf("ComposeReply() error = %v", err)
	}
	if out.Response != "the answer is 4" {
		t.Fatalf("response = %q", out.Response)
	}
	if len(composer.got.ToolResults) != 1 {
		t.Fatalf("composer saw %d tool results", len(composer.got.ToolResults))
	}
}

func TestComposeReplyDirectWithoutAnswer(t *testing.T) {
	t.Parallel()

	state := &GraphState{Prompt: "hello", Decision: contractx.RouteDecision{Answer: "  "}}
	_, err := ComposeReply(context.Background(), state, &stubRegistry{composer: &stubComposer{}})
	if !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation, got %v", err)
	}
}

func TestFinalizeReply(t *testing.T) {
	t.Parallel()

	out, err := FinalizeReply(&GraphState{Response: "  42  "})
	if err != nil {
		t.Fatalf("FinalizeReply() error = %v", err)
	}
	if out.Response != "42" {
		t.Fatalf("response = %q", out.Response)
	}
}

func TestFinalizeReplyEmpty(t *testing.T) {
	t.Parallel()

	if _, err := FinalizeReply(&GraphState{Response: "   "}); !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation, got %v", err)
	}
	if _, err := FinalizeReply(nil); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation for nil state, got %v", err)
	}
}
