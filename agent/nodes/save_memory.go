package node

import (
	"context"
	"fmt"

	contractx "oneprompt/agent/contract"
)

func SaveMemory(
	ctx context.Context,
	in *GraphState,
	memory contractx.Memory,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	if err := memory.Append(ctx, in.Prompt, in.Response); err != nil {
		return nil, err
	}
	return in, nil
}
