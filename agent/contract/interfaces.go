package contract

import "context"

// Planner makes the completion-vs-tool routing decision for one prompt.
type Planner interface {
	Plan(ctx context.Context, req PlanRequest) (RouteDecision, error)
}

// Composer writes the final answer from the prompt and any tool results.
type Composer interface {
	Compose(ctx context.Context, req ComposeRequest) (string, error)
}

type Registry interface {
	Planner() Planner
	Composer() Composer
}

type ToolGateway interface {
	Execute(ctx context.Context, reqs []ToolRequest) ([]ToolResult, error)
}

// Memory is the conversational buffer consulted before planning and extended
// after a successful reply.
type Memory interface {
	Recall(ctx context.Context) (string, error)
	Append(ctx context.Context, userMessage, assistantMessage string) error
}
