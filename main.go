package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	historyx "oneprompt/agent/history"
	llmx "oneprompt/agent/llm"
	memoryx "oneprompt/agent/memory"
	reportx "oneprompt/agent/report"
	routerx "oneprompt/agent/router"
	toolx "oneprompt/agent/tool"
	configx "oneprompt/pkg/config"
	logx "oneprompt/pkg/logger"
	openaix "oneprompt/pkg/openai"
	wolframx "oneprompt/pkg/wolfram"
)

const usageText = `usage: oneprompt <prompt>

Answers one natural-language prompt, routing it to the OpenAI completion API
for general text or to Wolfram Alpha for numeric facts and calculations.

Requires OPENAI_API_KEY in the environment. Set WOLFRAM_APP_ID to enable the
wolfram.query tool.`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("oneprompt", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, usageText)
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	prompt := fs.Arg(0)

	logCfg, err := configx.Load[logx.Config]("LOG")
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	logx.Init(*logCfg)

	openaiCfg, err := configx.Load[openaix.Config]("OPENAI")
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	// Fail on the missing credential before any client or network call.
	if err := openaiCfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}

	wolframCfg, err := configx.Load[wolframx.Config]("WOLFRAM")
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	var queryRunner toolx.QueryRunner
	if wolframClient := wolframx.NewClient(*wolframCfg); wolframClient != nil {
		queryRunner = wolframClient
	} else {
		log.Warn().Msg("WOLFRAM_APP_ID is not set, wolfram.query will report itself unavailable")
	}

	ctx := context.Background()

	models, err := llmx.NewRegistry(ctx, *openaiCfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}

	rt, err := routerx.New(models, toolx.NewGateway(queryRunner), memoryx.NewBuffer())
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}

	store := openHistoryStore(ctx)
	defer closeHistoryStore(store)

	started := time.Now()
	response, runErr := rt.Run(ctx, prompt)
	category, errMsg := reportx.NewReporter().Render(runErr)

	if err := store.Append(ctx, &historyx.Record{
		Prompt:       prompt,
		Response:     response,
		ErrorClass:   string(category),
		ErrorMessage: errMsg,
		DurationMS:   time.Since(started).Milliseconds(),
	}); err != nil {
		log.Warn().Err(err).Msg("append run history")
	}

	fmt.Println("response", response)
	fmt.Println("error_msg", errMsg)

	if runErr != nil {
		return 1
	}
	return 0
}

// openHistoryStore wires the optional Postgres run log; any problem degrades
// to the noop store so history never blocks an answer.
func openHistoryStore(ctx context.Context) historyx.Store {
	cfg, err := configx.Load[historyx.Config]("HISTORY")
	if err != nil {
		log.Warn().Err(err).Msg("run history disabled")
		return historyx.NoopStore{}
	}
	if strings.TrimSpace(cfg.DSN) == "" {
		return historyx.NoopStore{}
	}

	store, err := historyx.NewPostgresStore(*cfg)
	if err != nil {
		log.Warn().Err(err).Msg("run history disabled")
		return historyx.NoopStore{}
	}
	if err := store.Migrate(ctx); err != nil {
		log.Warn().Err(err).Msg("run history disabled")
		_ = store.Close()
		return historyx.NoopStore{}
	}
	return store
}

func closeHistoryStore(store historyx.Store) {
	if closer, ok := store.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			log.Warn().Err(err).Msg("close run history store")
		}
	}
}
