package app

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jaminalder/tictactoe-ai/internal/dependencies/clock"
	"github.com/jaminalder/tictactoe-ai/internal/domain"
)

// DefaultThinkDelay is how long the computer waits before moving.
const DefaultThinkDelay = 800 * time.Millisecond

// Errors returned by the controller. Every rejected move wraps ErrInvalidMove
// and leaves state untouched.
var (
	ErrInvalidMove     = errors.New("invalid move")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrNotComputerTurn = errors.New("not the computer's turn")
)

// MovePicker chooses the computer's cell on a board with at least one empty cell.
type MovePicker interface {
	ChooseMove(b domain.Board) int
}

// Controller owns one board and its turn state. All mutations go through it.
type Controller struct {
	// opMu orders mutations together with their events; mu guards state.
	opMu     sync.Mutex
	mu       sync.Mutex
	board    domain.Board
	turn     TurnState
	mode     Mode
	gen      uint64
	computer domain.Cell

	picker    MovePicker
	scheduler clock.Scheduler
	delay     time.Duration
	listener  Listener
	logger    *slog.Logger
}

// NewController creates a controller in WaitingForX. listener may be nil.
func NewController(
	mode Mode,
	picker MovePicker,
	scheduler clock.Scheduler,
	delay time.Duration,
	listener Listener,
	logger *slog.Logger,
) *Controller {
	if listener == nil {
		listener = ListenerFuncs{}
	}
	return &Controller{
		turn:      initialTurnState(),
		mode:      mode,
		computer:  domain.O,
		picker:    picker,
		scheduler: scheduler,
		delay:     delay,
		listener:  listener,
		logger:    logger.With(slog.String("component", "turn-controller")),
	}
}

// ApplyHumanMove plays cell for the side to move.
func (c *Controller) ApplyHumanMove(cell int) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	if c.turn.GameOver {
		c.mu.Unlock()
		return fmt.Errorf("%w: %w", ErrInvalidMove, domain.ErrGameOver)
	}
	if c.turn.ComputerTurn {
		c.mu.Unlock()
		return fmt.Errorf("%w: %w", ErrInvalidMove, ErrNotYourTurn)
	}
	events, err := c.applyLocked(cell)
	c.mu.Unlock()

	if err != nil {
		return err
	}
	c.emit(events)
	return nil
}

// ApplyComputerMove plays the computer's move now instead of waiting for the
// scheduled one. The scheduled move then finds nothing to do.
func (c *Controller) ApplyComputerMove() error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	if c.turn.Phase() != ComputerThinking {
		c.mu.Unlock()
		return fmt.Errorf("%w: %w", ErrInvalidMove, ErrNotComputerTurn)
	}
	events, err := c.computerMoveLocked()
	c.mu.Unlock()

	if err != nil {
		return err
	}
	c.emit(events)
	return nil
}

// Reset clears the board and returns to WaitingForX, keeping the mode.
func (c *Controller) Reset() {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	events := c.resetLocked()
	c.mu.Unlock()

	c.logger.Info("game reset")
	c.emit(events)
}

// SetMode changes the mode and always starts a fresh game.
func (c *Controller) SetMode(mode Mode) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	c.mode = mode
	events := c.resetLocked()
	c.mu.Unlock()

	c.logger.Info("mode changed", slog.String("mode", mode.String()))
	c.emit(events)
}

// ToggleMode flips between the two modes and starts a fresh game.
func (c *Controller) ToggleMode() Mode {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	c.mode = c.mode.Toggle()
	mode := c.mode
	events := c.resetLocked()
	c.mu.Unlock()

	c.logger.Info("mode changed", slog.String("mode", mode.String()))
	c.emit(events)
	return mode
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Board:   c.board,
		Turn:    c.turn,
		Mode:    c.mode,
		Outcome: domain.Evaluate(c.board),
	}
}

func (c *Controller) resetLocked() []event {
	c.board = domain.Board{}
	c.turn = initialTurnState()
	c.gen++
	return []event{turnChanged(c.turn)}
}

// applyLocked places the current symbol and advances the state machine.
func (c *Controller) applyLocked(cell int) ([]event, error) {
	side := c.turn.Current
	if err := c.board.Place(cell, side); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMove, err)
	}
	events := []event{cellFilled(cell, side)}

	out := domain.Evaluate(c.board)
	if out.Terminal() {
		c.turn.GameOver = true
		c.turn.ComputerTurn = false
		c.logger.Info("game ended",
			slog.String("outcome", out.Kind.String()),
			slog.String("winner", out.Winner.String()),
		)
		return append(events, gameEnded(out)), nil
	}

	c.turn.Current = side.Opponent()
	c.turn.ComputerTurn = c.mode == HumanVsComputer && c.turn.Current == c.computer
	if c.turn.ComputerTurn {
		c.gen++
		gen := c.gen
		c.scheduler.AfterFunc(c.delay, func() { c.fireComputerMove(gen) })
	}
	return append(events, turnChanged(c.turn)), nil
}

func (c *Controller) computerMoveLocked() ([]event, error) {
	cell := c.picker.ChooseMove(c.board)
	c.logger.Debug("computer move", slog.Int("cell", cell))
	return c.applyLocked(cell)
}

// fireComputerMove runs when the think delay elapses. Resets, mode changes and
// later schedulings advance gen, so an outdated firing is dropped.
func (c *Controller) fireComputerMove(gen uint64) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	if gen != c.gen || c.turn.Phase() != ComputerThinking {
		c.mu.Unlock()
		c.logger.Debug("stale computer move dropped", slog.Uint64("generation", gen))
		return
	}
	events, err := c.computerMoveLocked()
	c.mu.Unlock()

	if err != nil {
		c.logger.Error("computer move rejected", slog.String("error", err.Error()))
		return
	}
	c.emit(events)
}

func (c *Controller) emit(events []event) {
	for _, e := range events {
		e(c.listener)
	}
}
