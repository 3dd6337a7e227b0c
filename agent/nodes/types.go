package node

import (
	"fmt"
	"strings"
	"time"

	contractx "oneprompt/agent/contract"
)

type GraphInput struct {
	Prompt string
}

type GraphOutput struct {
	Response string
}

// GraphState is threaded through the pipeline nodes of one invocation.
type GraphState struct {
	Prompt string
	Now    time.Time

	ChatHistory string
	Decision    contractx.RouteDecision
	ToolResults []contractx.ToolResult

	Response string
}

func ValidatePrompt(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	prompt := strings.TrimSpace(in.Prompt)
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt is empty", contractx.ErrValidation)
	}

	return &GraphState{
		Prompt: prompt,
		Now:    nowFn().UTC(),
	}, nil
}
