package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jaminalder/tictactoe-ai/internal/ai"
	"github.com/jaminalder/tictactoe-ai/internal/dependencies/random"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg := DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "tictactoe",
		Short: "Tic-tac-toe against a friend or a minimax opponent",
		Long: `tictactoe plays 3x3 noughts and crosses, either hot-seat between two
humans or against a computer that plays the optimal minimax move with a
configurable probability.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cfg.Validate()
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().Float64Var(&cfg.Skill, "skill", cfg.Skill, "Probability the computer plays optimally, 0..1 (env: TTT_SKILL)")
	rootCmd.PersistentFlags().DurationVar(&cfg.ThinkDelay, "think-delay", cfg.ThinkDelay, "Pause before the computer moves (env: TTT_THINK_DELAY)")
	rootCmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error (env: TTT_LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: text, json (env: TTT_LOG_FORMAT)")

	rootCmd.AddCommand(newServeCmd(cfg))
	rootCmd.AddCommand(newPlayCmd(cfg))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newSelector(cfg *Config) (*ai.Selector, error) {
	return ai.NewSelector(cfg.Skill, random.New())
}
