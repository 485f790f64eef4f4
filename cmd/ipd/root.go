package main

import (
	"github.com/spf13/cobra"

	"github.com/forgelab/ipd/logging"
)

var rootCmd = &cobra.Command{
	Use:   "ipd",
	Short: "Episodic iterated prisoner's dilemma between two LLM agents",
	Long: `ipd drives two LLM-backed agents through an episodic iterated
prisoner's dilemma, writes the result document as JSON, and can load
completed result documents into the Postgres warehouse.`,
	SilenceUsage: true,
}

var (
	flagQuiet     bool
	flagLogFormat string
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagQuiet, "quiet", false, "only log warnings and errors")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "log format: text or json")
}

func newLogger() *logging.GameLogger {
	level := logging.LogLevelInfo
	if flagQuiet {
		level = logging.LogLevelWarn
	}
	return logging.NewSlogLogger(level, flagLogFormat, false)
}
