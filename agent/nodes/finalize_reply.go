package node

import (
	"fmt"
	"strings"

	contractx "oneprompt/agent/contract"
)

func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	response := strings.TrimSpace(in.Response)
	if response == "" {
		return GraphOutput{}, fmt.Errorf("%w: pipeline produced an empty response", contractx.ErrSchemaViolation)
	}
	return GraphOutput{Response: response}, nil
}
