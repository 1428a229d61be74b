package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jaminalder/tictactoe-ai/internal/app"
	"github.com/jaminalder/tictactoe-ai/internal/tui"
)

func newPlayCmd(cfg *Config) *cobra.Command {
	var modeName string

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := app.ParseMode(modeName)
			if err != nil {
				return err
			}

			// The alternate screen owns stdout, so logs go to a file or nowhere.
			var out io.Writer = io.Discard
			if cfg.LogFile != "" {
				f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			logger, err := cfg.NewLogger(out)
			if err != nil {
				return err
			}

			selector, err := newSelector(cfg)
			if err != nil {
				return err
			}
			return tui.Run(cmd.Context(), mode, selector, cfg.ThinkDelay, logger)
		},
	}
	cmd.Flags().StringVar(&modeName, "mode", "computer", "Game mode: human, computer")
	cmd.Flags().StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Append logs to this file (env: TTT_LOG_FILE)")
	return cmd
}
