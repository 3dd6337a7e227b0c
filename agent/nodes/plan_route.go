package node

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "oneprompt/agent/contract"
)

// PlanRoute asks the planner for the completion-vs-tool decision.
func PlanRoute(
	ctx context.Context,
	in *GraphState,
	models contractx.Registry,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	decision, err := models.Planner().Plan(ctx, contractx.PlanRequest{
		Prompt:      in.Prompt,
		ChatHistory: in.ChatHistory,
	})
	if err != nil {
		return nil, err
	}

	if decision.IsDirect() {
		log.Debug().Msg("route planned: direct answer")
	} else {
		tools := make([]string, 0, len(decision.ToolRequests))
		for _, tr := range decision.ToolRequests {
			tools = append(tools, tr.Tool)
		}
		log.Debug().Strs("tools", tools).Msg("route planned: tool calls")
	}

	in.Decision = decision
	return in, nil
}
