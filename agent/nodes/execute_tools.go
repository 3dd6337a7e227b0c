package node

import (
	"context"
	"fmt"

	contractx "oneprompt/agent/contract"
)

// ExecuteTools runs the planned tool requests. A direct-answer decision
// passes through untouched.
func ExecuteTools(
	ctx context.Context,
	in *GraphState,
	tools contractx.ToolGateway,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.Decision.IsDirect() {
		return in, nil
	}

	results, err := tools.Execute(ctx, in.Decision.ToolRequests)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: tool gateway returned no results", contractx.ErrSchemaViolation)
	}

	in.ToolResults = results
	return in, nil
}
