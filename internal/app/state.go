package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jaminalder/tictactoe-ai/internal/domain"
)

// Mode selects who plays O.
type Mode uint8

const (
	HumanVsHuman Mode = iota
	HumanVsComputer
)

var ErrUnknownMode = errors.New("unknown game mode")

func (m Mode) String() string {
	if m == HumanVsComputer {
		return "computer"
	}
	return "human"
}

// Label is the human readable mode name.
func (m Mode) Label() string {
	if m == HumanVsComputer {
		return "Human vs Computer"
	}
	return "Human vs Human"
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == HumanVsComputer {
		return HumanVsHuman
	}
	return HumanVsComputer
}

// ParseMode accepts "human"/"hvh" and "computer"/"hvc", case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "human", "hvh":
		return HumanVsHuman, nil
	case "computer", "hvc":
		return HumanVsComputer, nil
	default:
		return HumanVsHuman, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Phase is the controller state derived from TurnState.
type Phase uint8

const (
	WaitingForX Phase = iota
	WaitingForO
	ComputerThinking
	GameOver
)

func (p Phase) String() string {
	switch p {
	case WaitingForX:
		return "waiting_for_x"
	case WaitingForO:
		return "waiting_for_o"
	case ComputerThinking:
		return "computer_thinking"
	default:
		return "game_over"
	}
}

// TurnState is replaced wholesale on reset and mode change.
type TurnState struct {
	Current      domain.Cell
	GameOver     bool
	ComputerTurn bool
}

func initialTurnState() TurnState {
	return TurnState{Current: domain.X}
}

// Phase maps the flags onto the controller's states.
func (ts TurnState) Phase() Phase {
	switch {
	case ts.GameOver:
		return GameOver
	case ts.ComputerTurn:
		return ComputerThinking
	case ts.Current == domain.O:
		return WaitingForO
	default:
		return WaitingForX
	}
}

// Snapshot is a consistent copy of a controller's state.
type Snapshot struct {
	Board   domain.Board
	Turn    TurnState
	Mode    Mode
	Outcome domain.Outcome
}

// Phase returns the controller state at the time of the snapshot.
func (s Snapshot) Phase() Phase { return s.Turn.Phase() }

// Prompt returns the status line shown to players.
func (s Snapshot) Prompt() string {
	switch s.Outcome.Kind {
	case domain.Win:
		return s.Outcome.Winner.String() + " Won"
	case domain.Draw:
		return "Match Draw"
	}
	if s.Turn.ComputerTurn {
		return "Computer thinking..."
	}
	if s.Mode == HumanVsComputer {
		return "Your turn (" + s.Turn.Current.String() + ")"
	}
	return "Turn for " + s.Turn.Current.String()
}

// Moves counts the filled cells.
func (s Snapshot) Moves() int {
	return len(s.Board) - len(s.Board.EmptyCells())
}
