package ai

import (
	"fmt"

	"github.com/jaminalder/tictactoe-ai/internal/dependencies/random"
	"github.com/jaminalder/tictactoe-ai/internal/domain"
)

// DefaultSkill is the probability of playing the optimal move.
const DefaultSkill = 0.6

// Selector picks the computer's move, playing optimally with probability
// Skill and uniformly at random otherwise.
type Selector struct {
	skill  float64
	side   domain.Cell
	random random.Random
}

// NewSelector creates a Selector playing O. skill must lie in [0, 1].
func NewSelector(skill float64, rnd random.Random) (*Selector, error) {
	if !(skill >= 0 && skill <= 1) {
		return nil, fmt.Errorf("skill level %v outside [0, 1]", skill)
	}
	return &Selector{skill: skill, side: domain.O, random: rnd}, nil
}

// Skill returns the configured skill level.
func (s *Selector) Skill() float64 { return s.skill }

// ChooseMove draws once from the random source and either delegates to the
// search or picks a random legal cell. It panics with ErrNoLegalMoves on a
// full board.
func (s *Selector) ChooseMove(b domain.Board) int {
	moves := b.EmptyCells()
	if len(moves) == 0 {
		panic(ErrNoLegalMoves)
	}
	if s.random.Float64() < s.skill {
		return BestMoveFor(b, s.side)
	}
	return moves[s.random.Intn(len(moves))]
}
