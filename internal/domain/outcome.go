package domain

// OutcomeKind tags the state of a board.
type OutcomeKind uint8

const (
	InProgress OutcomeKind = iota
	Win
	Draw
)

func (k OutcomeKind) String() string {
	switch k {
	case Win:
		return "win"
	case Draw:
		return "draw"
	default:
		return "in_progress"
	}
}

// Outcome is derived from a board, never stored alongside it.
// Winner and Line are only meaningful when Kind is Win.
type Outcome struct {
	Kind   OutcomeKind
	Winner Cell
	Line   Line
}

// Terminal reports whether the game has ended.
func (o Outcome) Terminal() bool { return o.Kind != InProgress }

// Evaluate returns the outcome of b. The first completed line in WinLines order
// decides the winner.
func Evaluate(b Board) Outcome {
	for _, ln := range winLines {
		side := b[ln[0]]
		if side != Empty && b[ln[1]] == side && b[ln[2]] == side {
			return Outcome{Kind: Win, Winner: side, Line: ln}
		}
	}
	if b.Full() {
		return Outcome{Kind: Draw}
	}
	return Outcome{Kind: InProgress}
}
