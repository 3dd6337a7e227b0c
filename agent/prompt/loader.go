package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/router.txt
	routerRaw string

	//go:embed template/answer.txt
	answerRaw string
)

// PromptSet holds the system prompts for the two LLM passes.
type PromptSet struct {
	Router string
	Answer string
}

func LoadPromptSet() PromptSet {
	return PromptSet{
		Router: strings.TrimSpace(routerRaw),
		Answer: strings.TrimSpace(answerRaw),
	}
}
