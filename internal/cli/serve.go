package cli

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jaminalder/tictactoe-ai/internal/app"
	"github.com/jaminalder/tictactoe-ai/internal/dependencies/clock"
	"github.com/jaminalder/tictactoe-ai/internal/web"
)

func newServeCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the game over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := cfg.NewLogger(os.Stdout)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			selector, err := newSelector(cfg)
			if err != nil {
				return err
			}
			svc := app.NewService(app.ServiceConfig{
				Picker:     selector,
				Scheduler:  clock.New(),
				ThinkDelay: cfg.ThinkDelay,
				IdleTTL:    cfg.SessionTTL,
				Logger:     logger,
			})

			listenCfg := web.DefaultListenConfig()
			listenCfg.Addr = cfg.Addr
			listener := web.NewListener(web.NewServer(svc, logger), listenCfg, logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			go svc.RunJanitor(ctx)

			logger.Info("server configured",
				slog.String("addr", cfg.Addr),
				slog.Float64("skill", cfg.Skill),
				slog.Duration("think_delay", cfg.ThinkDelay),
				slog.Duration("session_ttl", cfg.SessionTTL),
			)
			return listener.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address (env: TTT_ADDR)")
	cmd.Flags().DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "Evict games idle this long, 0 disables (env: TTT_SESSION_TTL)")
	return cmd
}

