package tool

import (
	"context"

	contractx "oneprompt/agent/contract"
)

type WolframQueryOutput struct {
	Query  string `json:"query"`
	Answer string `json:"answer"`
}

func executeWolframTool(ctx context.Context, runner QueryRunner, tool string, args map[string]any) contractx.ToolResult {
	if runner == nil {
		return contractx.ToolResult{
			Tool:  tool,
			Error: "wolfram alpha app id is not configured",
		}
	}

	query, ok := stringArg(args, "query")
	if !ok {
		return contractx.ToolResult{
			Tool:  tool,
			Error: "query is required and must be a string",
		}
	}

	answer, err := runner.Query(ctx, query)
	if err != nil {
		return contractx.ToolResult{
			Tool:  tool,
			Error: err.Error(),
		}
	}

	return contractx.ToolResult{
		Tool: tool,
		Result: WolframQueryOutput{
			Query:  query,
			Answer: answer,
		},
	}
}

func stringArg(args map[string]any, key string) (string, bool) {
	raw, ok := args[key]
	if !ok {
		return "", false
	}
	value, ok := raw.(string)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}
