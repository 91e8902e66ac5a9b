package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/spf13/cobra"

	"github.com/hupe1980/pmcopilot"
	"github.com/hupe1980/pmcopilot/config"
	"github.com/hupe1980/pmcopilot/core"
	"github.com/hupe1980/pmcopilot/logging"
	"github.com/hupe1980/pmcopilot/reasoning"
	reasoninganthropic "github.com/hupe1980/pmcopilot/reasoning/anthropic"
	reasoningopenai "github.com/hupe1980/pmcopilot/reasoning/openai"
	"github.com/hupe1980/pmcopilot/store"
	storeredis "github.com/hupe1980/pmcopilot/store/redis"
)

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "pmcopilot",
		Short:         "Project management copilot",
		Long:          "pmcopilot is an LLM-driven copilot for project management work: issues, wiki, calendar and status reporting.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChat(cmd.Context(), configPath)
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	return cmd
}

func runChat(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	svc, err := buildReasoning(cfg)
	if err != nil {
		return err
	}

	stateStore, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}

	copilot := pmcopilot.New(svc, func(o *pmcopilot.Options) {
		o.Store = stateStore
		o.MaxIterations = cfg.MaxIterations
		o.MaxPlanCycles = cfg.MaxPlanCycles
		o.Logger = logger
	})
	registerDemoTools(copilot)

	threadID := core.NewID()
	fmt.Println("PM Copilot ready. Type a request, or \"exit\" to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}

		events, err := copilot.Ask(ctx, threadID, core.NewUserMessage(line))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		for ev := range events {
			switch ev.Kind {
			case core.EventToolStarted:
				fmt.Printf("  [tool] %s...\n", ev.Tool)
			case core.EventFinal:
				fmt.Printf("\n%s\n\n", ev.Text)
			}
		}
	}
}

func buildReasoning(cfg *config.Config) (reasoning.Service, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return reasoningopenai.New(func(o *reasoningopenai.Options) {
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
			o.APIKey = cfg.APIKey
		}), nil
	case config.ProviderAnthropic:
		return reasoninganthropic.New(func(o *reasoninganthropic.Options) {
			if cfg.Model != "" {
				o.Model = anthropic.Model(cfg.Model)
			}
			o.APIKey = cfg.APIKey
		}), nil
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Provider)
	}
}

func buildStore(ctx context.Context, cfg *config.Config) (store.StateStore, error) {
	if cfg.Redis.Addr == "" {
		return store.NewInMemoryStore(), nil
	}
	client, err := storeredis.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}
	return storeredis.New(client, func(o *storeredis.Options) {
		o.TTL = cfg.Redis.TTL
	}), nil
}
