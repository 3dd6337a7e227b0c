package contract

// PlanRequest carries everything the planner sees for one routing decision.
type PlanRequest struct {
	Prompt      string `json:"prompt"`
	ChatHistory string `json:"chat_history,omitempty"`
}

// RouteDecision is the planner's verdict: either a direct answer or a set of
// tool requests to execute before composing the reply. Exactly one side is
// populated.
type RouteDecision struct {
	Answer       string        `json:"answer,omitempty"`
	ToolRequests []ToolRequest `json:"tool_requests,omitempty"`
}

func (d RouteDecision) IsDirect() bool {
	return len(d.ToolRequests) == 0
}

type ComposeRequest struct {
	Prompt      string       `json:"prompt"`
	ChatHistory string       `json:"chat_history,omitempty"`
	ToolResults []ToolResult `json:"tool_results,omitempty"`
}

type ToolRequest struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

type ToolResult struct {
	Tool   string `json:"tool"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}
