package llm

import (
	"context"

	contractx "oneprompt/agent/contract"
	promptx "oneprompt/agent/prompt"
	toolx "oneprompt/agent/tool"
	openaix "oneprompt/pkg/openai"
)

type registryImpl struct {
	planner  contractx.Planner
	composer contractx.Composer
}

func (r *registryImpl) Planner() contractx.Planner {
	return r.planner
}

func (r *registryImpl) Composer() contractx.Composer {
	return r.composer
}

// NewRegistry builds the two LLM passes on one completion client: the
// planner with the tool catalog bound, the composer without tools.
func NewRegistry(ctx context.Context, cfg openaix.Config) (contractx.Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	prompts := promptx.LoadPromptSet()

	chatModel, err := openaix.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, err
	}

	planner, err := newPlanner(ctx, chatModel, prompts.Router, toolx.Infos())
	if err != nil {
		return nil, err
	}

	composer, err := newComposer(ctx, chatModel, prompts.Answer)
	if err != nil {
		return nil, err
	}

	return &registryImpl{
		planner:  planner,
		composer: composer,
	}, nil
}
