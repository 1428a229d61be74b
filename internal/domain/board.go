package domain

import "errors"

// Cell represents a board cell state.
type Cell uint8

const (
	Empty Cell = iota
	X
	O
)

// String returns the mark shown for the cell, or "" when empty.
func (c Cell) String() string {
	switch c {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

// Opponent returns the other symbol. Empty has no opponent.
func (c Cell) Opponent() Cell {
	switch c {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

// Board is a fixed 3x3 board stored row-major.
type Board [9]Cell

// Line is one winning triple of cell indices.
type Line [3]int

// winLines holds every winning combination: rows, columns, diagonals.
var winLines = [8]Line{
	// rows
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	// cols
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	// diags
	{0, 4, 8}, {2, 4, 6},
}

// WinLines returns a copy of the winning combinations in evaluation order.
func WinLines() [8]Line { return winLines }

// Errors returned by domain operations.
var (
	ErrOutOfBounds = errors.New("out of bounds")
	ErrOccupied    = errors.New("cell occupied")
	ErrGameOver    = errors.New("game over")
)

// InBounds reports whether idx addresses a cell.
func InBounds(idx int) bool {
	return idx >= 0 && idx < len(Board{})
}

// EmptyCells returns the indices of all empty cells in ascending order.
func (b Board) EmptyCells() []int {
	cells := make([]int, 0, len(b))
	for i, c := range b {
		if c == Empty {
			cells = append(cells, i)
		}
	}
	return cells
}

// Full reports whether no empty cell remains.
func (b Board) Full() bool {
	for _, c := range b {
		if c == Empty {
			return false
		}
	}
	return true
}

// Place writes side into cell idx. The board is left untouched on error.
func (b *Board) Place(idx int, side Cell) error {
	if !InBounds(idx) {
		return ErrOutOfBounds
	}
	if b[idx] != Empty {
		return ErrOccupied
	}
	b[idx] = side
	return nil
}

// With returns a copy of the board with side placed at idx. The receiver is
// never modified; idx must be an empty in-bounds cell.
func (b Board) With(idx int, side Cell) Board {
	b[idx] = side
	return b
}
