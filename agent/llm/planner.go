package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	contractx "oneprompt/agent/contract"
)

type plannerImpl struct {
	runner       compose.Runnable[map[string]any, *schema.Message]
	allowedTools map[string]struct{}
}

// newPlanner binds the tool catalog to the chat model and compiles the
// routing graph. The model's reply carries either tool calls or the direct
// answer text.
func newPlanner(
	ctx context.Context,
	chatModel einomodel.ToolCallingChatModel,
	systemPrompt string,
	tools []*schema.ToolInfo,
) (*plannerImpl, error) {
	toolModel, err := chatModel.WithTools(tools)
	if err != nil {
		return nil, fmt.Errorf("%w: bind router tools: %v", contractx.ErrModelInvoke, err)
	}

	runner, err := compileMessageGraph(ctx, toolModel, systemPrompt, "router.plan_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: compile planner graph: %v", contractx.ErrModelInvoke, err)
	}

	allowed := make(map[string]struct{}, len(tools))
	for _, t := range tools {
		if t == nil || strings.TrimSpace(t.Name) == "" {
			continue
		}
		allowed[t.Name] = struct{}{}
	}

	return &plannerImpl{
		runner:       runner,
		allowedTools: allowed,
	}, nil
}

func (p *plannerImpl) Plan(ctx context.Context, req contractx.PlanRequest) (contractx.RouteDecision, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return contractx.RouteDecision{}, fmt.Errorf("%w: prompt is required", contractx.ErrValidation)
	}

	payload := map[string]any{
		"input":        req.Prompt,
		"chat_history": req.ChatHistory,
	}
	input, err := json.Marshal(payload)
	if err != nil {
		return contractx.RouteDecision{}, fmt.Errorf("%w: marshal planner payload: %v", contractx.ErrValidation, err)
	}

	msg, err := p.runner.Invoke(ctx, map[string]any{
		"input": string(input),
	})
	if err != nil {
		return contractx.RouteDecision{}, wrapInvokeErr("planner invoke", err)
	}
	if msg == nil {
		return contractx.RouteDecision{}, fmt.Errorf("%w: empty planner response", contractx.ErrSchemaViolation)
	}

	toolRequests, err := toToolRequests(msg.ToolCalls)
	if err != nil {
		return contractx.RouteDecision{}, err
	}

	if len(toolRequests) == 0 {
		answer := strings.TrimSpace(msg.Content)
		if answer == "" {
			return contractx.RouteDecision{}, fmt.Errorf("%w: planner returned neither answer nor tool calls", contractx.ErrSchemaViolation)
		}
		return contractx.RouteDecision{Answer: answer}, nil
	}

	for _, tr := range toolRequests {
		if _, ok := p.allowedTools[tr.Tool]; !ok {
			return contractx.RouteDecision{}, fmt.Errorf("%w: tool=%s is not in the catalog", contractx.ErrSchemaViolation, tr.Tool)
		}
	}

	return contractx.RouteDecision{ToolRequests: toolRequests}, nil
}

func toToolRequests(calls []schema.ToolCall) ([]contractx.ToolRequest, error) {
	if len(calls) == 0 {
		return nil, nil
	}
	reqs := make([]contractx.ToolRequest, 0, len(calls))
	for _, call := range calls {
		tool := strings.TrimSpace(call.Function.Name)
		if tool == "" {
			return nil, fmt.Errorf("%w: tool call name is empty", contractx.ErrSchemaViolation)
		}

		args := map[string]any{}
		rawArgs := strings.TrimSpace(call.Function.Arguments)
		if rawArgs != "" {
			if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
				return nil, fmt.Errorf("%w: invalid tool args for tool=%s: %v", contractx.ErrSchemaViolation, tool, err)
			}
		}

		reqs = append(reqs, contractx.ToolRequest{
			Tool: tool,
			Args: args,
		})
	}
	return reqs, nil
}

// wrapInvokeErr keeps already-classified transport errors intact and labels
// everything else as a model invoke failure.
func wrapInvokeErr(op string, err error) error {
	for _, sentinel := range []error{
		contractx.ErrAuthentication,
		contractx.ErrRateLimited,
		contractx.ErrInvalidRequest,
		contractx.ErrValidation,
		contractx.ErrModelInvoke,
	} {
		if errors.Is(err, sentinel) {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return fmt.Errorf("%s: %w: %v", op, contractx.ErrModelInvoke, err)
}
