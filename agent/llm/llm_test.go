package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	contractx "oneprompt/agent/contract"
	toolx "oneprompt/agent/tool"
)

type fakeToolCallingModel struct {
	responses []*schema.Message
	err       error
	idx       int
}

func (f *fakeToolCallingModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.idx >= len(f.responses) {
		return nil, errors.New("no fake response left")
	}
	msg := f.responses[f.idx]
	f.idx++
	return msg, nil
}

func (f *fakeToolCallingModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not implemented in fake model")
}

func (f *fakeToolCallingModel) WithTools(tools []*schema.ToolInfo) (einomodel.ToolCallingChatModel, error) {
	return f, nil
}

func TestPlannerDirectAnswer(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{Role: schema.Assistant, Content: "Here is a poem about ping pong balls."},
		},
	}

	planner, err := newPlanner(context.Background(), fake, "router prompt", toolx.Infos())
	if err != nil {
		t.Fatalf("newPlanner() error = %v", err)
	}

	decision, err := planner.Plan(context.Background(), contractx.PlanRequest{
		Prompt: "write a poem about ping pong balls",
	})
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if !decision.IsDirect() {
		t.Fatalf("expected direct decision, got %#v", decision)
	}
	if decision.Answer != "Here is a poem about ping pong balls." {
		t.Fatalf("unexpected answer: %q", decision.Answer)
	}
}

func TestPlannerToolCallMapping(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{
				Role: schema.Assistant,
				ToolCalls: []schema.ToolCall{
					{
						ID:   "call_1",
						Type: "function",
						Function: schema.FunctionCall{
							Name:      toolx.ToolWolframQuery,
							Arguments: `{"query":"distance to the moon in km"}`,
						},
					},
				},
			},
		},
	}

	planner, err := newPlanner(context.Background(), fake, "router prompt", toolx.Infos())
	if err != nil {
		t.Fatalf("newPlanner() error = %v", err)
	}

	decision, err := planner.Plan(context.Background(), contractx.PlanRequest{
		Prompt: "how far is the moon",
	})
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if decision.IsDirect() {
		t.Fatalf("expected tool decision, got %#v", decision)
	}
	if len(decision.ToolRequests) != 1 {
		t.Fatalf("expected 1 tool request, got %d", len(decision.ToolRequests))
	}
	if decision.ToolRequests[0].Tool != toolx.ToolWolframQuery {
		t.Fatalf("unexpected tool: %s", decision.ToolRequests[0].Tool)
	}
	if decision.ToolRequests[0].Args["query"] != "distance to the moon in km" {
		t.Fatalf("unexpected args: %#v", decision.ToolRequests[0].Args)
	}
}

func TestPlannerRejectsUnknownTool(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{
				Role: schema.Assistant,
				ToolCalls: []schema.ToolCall{
					{
						ID:   "call_1",
						Type: "function",
						Function: schema.FunctionCall{
							Name:      "shell.exec",
							Arguments: `{"cmd":"rm -rf /"}`,
						},
					},
				},
			},
		},
	}

	planner, err := newPlanner(context.Background(), fake, "router prompt", toolx.Infos())
	if err != nil {
		t.Fatalf("newPlanner() error = %v", err)
	}

	_, err = planner.Plan(context.Background(), contractx.PlanRequest{Prompt: "anything"})
	if !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation, got %v", err)
	}
}

func TestPlannerEmptyResponse(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{Role: schema.Assistant, Content: "   "},
		},
	}

	planner, err := newPlanner(context.Background(), fake, "router prompt", toolx.Infos())
	if err != nil {
		t.Fatalf("newPlanner() error = %v", err)
	}

	_, err = planner.Plan(context.Background(), contractx.PlanRequest{Prompt: "anything"})
	if !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation, got %v", err)
	}
}

func TestPlannerKeepsClassifiedTransportError(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		err: fmt.Errorf("%w: 429 too many requests", contractx.ErrRateLimited),
	}

	planner, err := newPlanner(context.Background(), fake, "router prompt", toolx.Infos())
	if err != nil {
		t.Fatalf("newPlanner() error = %v", err)
	}

	_, err = planner.Plan(context.Background(), contractx.PlanRequest{Prompt: "anything"})
	if !errors.Is(err, contractx.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited to survive, got %v", err)
	}
	if errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("classified error must not be relabeled: %v", err)
	}
}

func TestComposerSuccess(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{Role: schema.Assistant, Content: "About 31 billion."},
		},
	}

	composer, err := newComposer(context.Background(), fake, "answer prompt")
	if err != nil {
		t.Fatalf("newComposer() error = %v", err)
	}

	answer, err := composer.Compose(context.Background(), contractx.ComposeRequest{
		Prompt: "how many ping pong balls fit into a jumbo jet",
		ToolResults: []contractx.ToolResult{
			{Tool: toolx.ToolWolframQuery, Result: "about 31 billion"},
		},
	})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if answer != "About 31 billion." {
		t.Fatalf("unexpected answer: %q", answer)
	}
}

func TestComposerRequiresToolResults(t *testing.T) {
	t.Parallel()

	composer, err := newComposer(context.Background(), &fakeToolCallingModel{}, "answer prompt")
	if err != nil {
		t.Fatalf("newComposer() error = %v", err)
	}

	_, err = composer.Compose(context.Background(), contractx.ComposeRequest{Prompt: "anything"})
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestComposerRejectsToolCalls(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{
				Role: schema.Assistant,
				ToolCalls: []schema.ToolCall{
					{ID: "call_1", Function: schema.FunctionCall{Name: toolx.ToolWolframQuery}},
				},
			},
		},
	}

	composer, err := newComposer(context.Background(), fake, "answer prompt")
	if err != nil {
		t.Fatalf("newComposer() error = %v", err)
	}

	_, err = composer.Compose(context.Background(), contractx.ComposeRequest{
		Prompt:      "anything",
		ToolResults: []contractx.ToolResult{{Tool: toolx.ToolWolframQuery, Result: "42"}},
	})
	if !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation, got %v", err)
	}
}
