package node

import (
	"context"
	"fmt"

	contractx "oneprompt/agent/contract"
)

func RecallMemory(
	ctx context.Context,
	in *GraphState,
	memory contractx.Memory,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	history, err := memory.Recall(ctx)
	if err != nil {
		return nil, err
	}
	in.ChatHistory = history
	return in, nil
}
