// Package ai picks moves for the computer player: an exhaustive minimax
// search and a selector that mixes its answer with random play.
package ai

import (
	"errors"

	"github.com/jaminalder/tictactoe-ai/internal/domain"
)

// Scores for terminal positions before depth adjustment.
const (
	WinScore  = 10
	DrawScore = 0
)

// ErrNoLegalMoves is the panic value raised when asked to move on a full board.
var ErrNoLegalMoves = errors.New("no legal moves")

// BestMove returns the optimal cell for O, assuming X minimises O's result.
func BestMove(b domain.Board) int {
	return BestMoveFor(b, domain.O)
}

// BestMoveFor returns the cell that maximises side's minimax score. Ties keep
// the lowest index. Every candidate is scored on a copy, so b is never changed.
// It panics with ErrNoLegalMoves if b has no empty cell.
func BestMoveFor(b domain.Board, side domain.Cell) int {
	moves := b.EmptyCells()
	if len(moves) == 0 {
		panic(ErrNoLegalMoves)
	}

	best := moves[0]
	bestScore := 0
	for i, m := range moves {
		score := minimax(b.With(m, side), side, 0, false)
		if i == 0 || score > bestScore {
			bestScore = score
			best = m
		}
	}
	return best
}

// minimax scores b from side's point of view. Faster wins and slower losses
// score higher through the depth adjustment.
func minimax(b domain.Board, side domain.Cell, depth int, maximizing bool) int {
	switch o := domain.Evaluate(b); o.Kind {
	case domain.Win:
		if o.Winner == side {
			return WinScore - depth
		}
		return -WinScore + depth
	case domain.Draw:
		return DrawScore
	}

	mover := side
	if !maximizing {
		mover = side.Opponent()
	}

	best := 0
	first := true
	for i, c := range b {
		if c != domain.Empty {
			continue
		}
		score := minimax(b.With(i, mover), side, depth+1, !maximizing)
		switch {
		case first:
			best = score
			first = false
		case maximizing && score > best:
			best = score
		case !maximizing && score < best:
			best = score
		}
	}
	return best
}
