package tui

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jaminalder/tictactoe-ai/internal/app"
	"github.com/jaminalder/tictactoe-ai/internal/dependencies/clock"
)

// Run plays one session in the terminal until the user quits or ctx ends.
func Run(ctx context.Context, mode app.Mode, picker app.MovePicker, delay time.Duration, logger *slog.Logger) error {
	bridge := &Bridge{}
	ctrl := app.NewController(mode, picker, clock.New(), delay, bridge.Listener(), logger)

	p := tea.NewProgram(NewModel(ctrl), tea.WithAltScreen(), tea.WithContext(ctx))
	bridge.Attach(p)
	_, err := p.Run()
	return err
}
