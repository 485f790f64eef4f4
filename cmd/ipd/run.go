package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/forgelab/ipd"
	"github.com/forgelab/ipd/game"
	"github.com/forgelab/ipd/model"
	"github.com/forgelab/ipd/model/anthropic"
	"github.com/forgelab/ipd/model/openai"
	"github.com/forgelab/ipd/prompt"
	"github.com/forgelab/ipd/result"
)

var runFlags struct {
	episodes           int
	rounds             int
	historyWindow      int
	temperature        float64
	models             [2]string
	hosts              [2]string
	providers          [2]string
	noReset            bool
	reflectionType     string
	systemPrompt       string
	reflectionTemplate string
	output             string
	decisionTokens     int
	reflectionTokens   int
	httpTimeout        int
	forceRetries       int
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Play a full multi-episode game and write the result document",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		cfg := game.DefaultConfig()
		cfg.Episodes = runFlags.episodes
		cfg.RoundsPerEpisode = runFlags.rounds
		cfg.HistoryWindow = runFlags.historyWindow
		cfg.Temperature = runFlags.temperature
		cfg.Models = runFlags.models
		cfg.Hosts = runFlags.hosts
		cfg.ResetBetweenEpisodes = !runFlags.noReset
		cfg.ReflectionMode = game.ReflectionMode(runFlags.reflectionType)
		cfg.DecisionTokenLimit = runFlags.decisionTokens
		cfg.ReflectionTokenLimit = runFlags.reflectionTokens
		cfg.HTTPTimeout = time.Duration(runFlags.httpTimeout) * time.Second
		cfg.ForcedDecisionRetries = runFlags.forceRetries

		systemPrompt, err := prompt.LoadSystemPrompt(runFlags.systemPrompt)
		if err != nil {
			logger.Warn("using default system prompt", "reason", err)
			systemPrompt = prompt.DefaultSystemPrompt
		} else {
			logger.Info("loaded system prompt", "path", runFlags.systemPrompt)
		}

		reflectionTemplate, err := prompt.LoadReflectionTemplate(runFlags.reflectionTemplate)
		if err != nil {
			reflectionTemplate = "" // built-in templates per reflection mode
		} else {
			logger.Info("loaded reflection template", "path", runFlags.reflectionTemplate)
		}

		var backends [2]model.Backend
		for slot := 0; slot < 2; slot++ {
			b, err := newBackend(runFlags.providers[slot], cfg.Hosts[slot], cfg.Models[slot])
			if err != nil {
				return err
			}
			backends[slot] = b
		}

		engine, err := ipd.New(cfg, backends[0], backends[1], func(o *ipd.Options) {
			o.SystemPrompt = systemPrompt
			o.ReflectionTemplate = reflectionTemplate
			o.Logger = logger
		})
		if err != nil {
			return err
		}

		res, err := engine.Play(cmd.Context())
		if err != nil {
			return err
		}

		doc := result.Assemble(res, result.Prompts{
			SystemPrompt:       systemPrompt,
			ReflectionTemplate: reflectionTemplate,
		})

		output := runFlags.output
		if output == "" {
			output = result.DefaultPath("results", time.Now())
		}
		if err := doc.Write(output); err != nil {
			return err
		}
		logger.Info("results saved", "path", output, "results_uuid", doc.ResultsUUID)
		return nil
	},
}

// newBackend builds the per-agent backend for a provider name.
func newBackend(provider, host, mdl string) (model.Backend, error) {
	switch provider {
	case "openai", "ollama":
		return openai.New(host, mdl), nil
	case "anthropic":
		return anthropic.New(host, mdl), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (want openai, ollama or anthropic)", provider)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVar(&runFlags.episodes, "episodes", 5, "number of episodes")
	runCmd.Flags().IntVar(&runFlags.rounds, "rounds", 20, "rounds per episode")
	runCmd.Flags().IntVar(&runFlags.historyWindow, "history-window", 10, "recent rounds shown in each decision prompt")
	runCmd.Flags().Float64Var(&runFlags.temperature, "temperature", 0.7, "sampling temperature")
	runCmd.Flags().StringVar(&runFlags.models[0], "model-0", "llama3:8b-instruct-q5_K_M", "agent 0 model identifier")
	runCmd.Flags().StringVar(&runFlags.hosts[0], "host-0", "localhost", "agent 0 backend host")
	runCmd.Flags().StringVar(&runFlags.providers[0], "provider-0", "ollama", "agent 0 provider: openai, ollama or anthropic")
	runCmd.Flags().StringVar(&runFlags.models[1], "model-1", "llama3:8b-instruct-q5_K_M", "agent 1 model identifier")
	runCmd.Flags().StringVar(&runFlags.hosts[1], "host-1", "localhost", "agent 1 backend host")
	runCmd.Flags().StringVar(&runFlags.providers[1], "provider-1", "ollama", "agent 1 provider: openai, ollama or anthropic")
	runCmd.Flags().BoolVar(&runFlags.noReset, "no-reset", false, "don't reset context between episodes")
	runCmd.Flags().StringVar(&runFlags.reflectionType, "reflection-type", "standard", "reflection verbosity: minimal, standard or detailed")
	runCmd.Flags().StringVar(&runFlags.systemPrompt, "system-prompt", "system_prompt.txt", "path to system prompt file")
	runCmd.Flags().StringVar(&runFlags.reflectionTemplate, "reflection-template", "reflection_prompt_template.txt", "path to reflection prompt template file")
	runCmd.Flags().StringVar(&runFlags.output, "output", "", "output path (default results/episodic_game_<timestamp>.json)")
	runCmd.Flags().IntVar(&runFlags.decisionTokens, "decision-tokens", 256, "max tokens for decision responses")
	runCmd.Flags().IntVar(&runFlags.reflectionTokens, "reflection-tokens", 1024, "max tokens for reflection responses")
	runCmd.Flags().IntVar(&runFlags.httpTimeout, "http-timeout", 60, "backend request timeout in seconds")
	runCmd.Flags().IntVar(&runFlags.forceRetries, "force-retries", 2, "retries for ambiguous decisions")
}
