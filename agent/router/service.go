package router

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/eino/compose"

	contractx "oneprompt/agent/contract"
	nodex "oneprompt/agent/nodes"
)

// Router owns the one-pass routing pipeline: a prompt goes in, the planner
// picks the completion-or-tool path, and a single response comes out.
type Router struct {
	models contractx.Registry
	tools  contractx.ToolGateway
	memory contractx.Memory

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	now func() time.Time
}

func New(
	models contractx.Registry,
	tools contractx.ToolGateway,
	memory contractx.Memory,
) (*Router, error) {
	if models == nil {
		return nil, errors.New("model registry is required")
	}
	if tools == nil {
		return nil, errors.New("tool gateway is required")
	}
	if memory == nil {
		memory = noopMemory{}
	}

	r := &Router{
		models: models,
		tools:  tools,
		memory: memory,
		now:    time.Now,
	}

	graphRunner, err := r.compileRunGraph(context.Background())
	if err != nil {
		return nil, err
	}
	r.graphRunner = graphRunner

	return r, nil
}

// Run answers one prompt. Errors are terminal for the invocation; the caller
// classifies and reports them.
func (r *Router) Run(ctx context.Context, prompt string) (string, error) {
	out, err := r.graphRunner.Invoke(ctx, nodex.GraphInput{
		Prompt: prompt,
	})
	if err != nil {
		return "", err
	}
	return out.Response, nil
}

type noopMemory struct{}

func (noopMemory) Recall(context.Context) (string, error) {
	return "", nil
}

func (noopMemory) Append(context.Context, string, string) error {
	return nil
}
