package app

import "github.com/jaminalder/tictactoe-ai/internal/domain"

// TurnInfo describes whose turn it is after a move or reset.
type TurnInfo struct {
	Symbol           domain.Cell
	ComputerThinking bool
}

// Listener receives controller events. Each change's events are delivered
// before the next change is applied. A listener may read a Snapshot but must
// not call back into the controller's mutating methods.
type Listener interface {
	OnCellFilled(cell int, side domain.Cell)
	OnTurnChanged(TurnInfo)
	OnGameEnded(domain.Outcome)
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	CellFilled  func(cell int, side domain.Cell)
	TurnChanged func(TurnInfo)
	GameEnded   func(domain.Outcome)
}

var _ Listener = ListenerFuncs{}

func (f ListenerFuncs) OnCellFilled(cell int, side domain.Cell) {
	if f.CellFilled != nil {
		f.CellFilled(cell, side)
	}
}

func (f ListenerFuncs) OnTurnChanged(ti TurnInfo) {
	if f.TurnChanged != nil {
		f.TurnChanged(ti)
	}
}

func (f ListenerFuncs) OnGameEnded(o domain.Outcome) {
	if f.GameEnded != nil {
		f.GameEnded(o)
	}
}

// event is a deferred listener call collected under the lock.
type event func(Listener)

func cellFilled(cell int, side domain.Cell) event {
	return func(l Listener) { l.OnCellFilled(cell, side) }
}

func turnChanged(ts TurnState) event {
	ti := TurnInfo{Symbol: ts.Current, ComputerThinking: ts.ComputerTurn}
	return func(l Listener) { l.OnTurnChanged(ti) }
}

func gameEnded(o domain.Outcome) event {
	return func(l Listener) { l.OnGameEnded(o) }
}
