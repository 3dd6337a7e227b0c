package tool

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "oneprompt/agent/contract"
)

const (
	ToolWolframQuery = "wolfram.query"
	ToolMathEvaluate = "math.evaluate"
)

// QueryRunner is the slice of the Wolfram client the gateway needs.
type QueryRunner interface {
	Query(ctx context.Context, input string) (string, error)
}

// Infos describes the tool catalog bound to the planning model.
func Infos() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: ToolWolframQuery,
			Desc: "Answer factual, numeric, scientific, or data questions via Wolfram Alpha.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {Type: schema.String, Desc: "Concise natural language query", Required: true},
			}),
		},
		{
			Name: ToolMathEvaluate,
			Desc: "Evaluate a plain arithmetic expression locally.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"expression": {Type: schema.String, Desc: "Expression to evaluate", Required: true},
			}),
		},
	}
}

var _ contractx.ToolGateway = (*Gateway)(nil)

// Gateway executes tool requests coming out of the routing decision. Tool
// failures are reported inside the result so the composer can still answer;
// only a cancelled context aborts the run.
type Gateway struct {
	wolfram QueryRunner
}

func NewGateway(wolfram QueryRunner) *Gateway {
	return &Gateway{wolfram: wolfram}
}

func (g *Gateway) Execute(ctx context.Context, reqs []contractx.ToolRequest) ([]contractx.ToolResult, error) {
	results := make([]contractx.ToolResult, 0, len(reqs))
	for _, req := range reqs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result := g.executeOne(ctx, req)
		log.Debug().
			Str("tool", req.Tool).
			Bool("failed", result.Error != "").
			Msg("tool executed")
		results = append(results, result)
	}
	return results, nil
}

func (g *Gateway) executeOne(ctx context.Context, req contractx.ToolRequest) contractx.ToolResult {
	switch req.Tool {
	case ToolWolframQuery:
		return executeWolframTool(ctx, g.wolfram, req.Tool, req.Args)
	case ToolMathEvaluate:
		return executeMathTool(req.Tool, req.Args)
	default:
		return contractx.ToolResult{
			Tool:  req.Tool,
			Error: fmt.Sprintf("tool=%s is not available", req.Tool),
		}
	}
}
