package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	contractx "oneprompt/agent/contract"
)

type composerImpl struct {
	runner compose.Runnable[map[string]any, *schema.Message]
}

func newComposer(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	systemPrompt string,
) (*composerImpl, error) {
	runner, err := compileMessageGraph(ctx, chatModel, systemPrompt, "router.compose_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: compile composer graph: %v", contractx.ErrModelInvoke, err)
	}
	return &composerImpl{runner: runner}, nil
}

func (c *composerImpl) Compose(ctx context.Context, req contractx.ComposeRequest) (string, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return "", fmt.Errorf("%w: prompt is required", contractx.ErrValidation)
	}
	if len(req.ToolResults) == 0 {
		return "", fmt.Errorf("%w: compose requires tool results", contractx.ErrValidation)
	}

	payload := map[string]any{
		"input":        req.Prompt,
		"chat_history": req.ChatHistory,
		"tool_results": req.ToolResults,
	}
	input, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: marshal composer payload: %v", contractx.ErrValidation, err)
	}

	msg, err := c.runner.Invoke(ctx, map[string]any{
		"input": string(input),
	})
	if err != nil {
		return "", wrapInvokeErr("composer invoke", err)
	}
	if msg == nil {
		return "", fmt.Errorf("%w: empty composer response", contractx.ErrSchemaViolation)
	}
	if len(msg.ToolCalls) > 0 {
		return "", fmt.Errorf("%w: composer may not request tools", contractx.ErrSchemaViolation)
	}

	answer := strings.TrimSpace(msg.Content)
	if answer == "" {
		return "", fmt.Errorf("%w: composer message is empty", contractx.ErrSchemaViolation)
	}
	return answer, nil
}
