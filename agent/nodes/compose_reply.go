package node

import (
	"context"
	"fmt"
	"strings"

	contractx "oneprompt/agent/contract"
)

// ComposeReply produces the response text: a direct answer passes through,
// a tool run goes through the composer pass.
func ComposeReply(
	ctx context.Context,
	in *GraphState,
	models contractx.Registry,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	if in.Decision.IsDirect() {
		answer := strings.TrimSpace(in.Decision.Answer)
		if answer == "" {
			return nil, fmt.Errorf("%w: direct decision without answer", contractx.ErrSchemaViolation)
		}
		in.Response = answer
		return in, nil
	}

	response, err := models.Composer().Compose(ctx, contractx.ComposeRequest{
		Prompt:      in.Prompt,
		ChatHistory: in.ChatHistory,
		ToolResults: in.ToolResults,
	})
	if err != nil {
		return nil, err
	}

	in.Response = response
	return in, nil
}
