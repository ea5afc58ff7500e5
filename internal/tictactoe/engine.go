package tictactoe

import (
	"github.com/rocketscienceinc/pictactoe-backend/internal/entity"
)

// Engine is the photo tic-tac-toe state machine for a single match.
// It is not safe for concurrent use; callers serialize PlacePhoto and Reset.
type Engine struct {
	state entity.MatchState

	moveListeners []func(entity.MatchState)
	endListeners  []func(entity.Result)
}

func NewEngine() *Engine {
	return &Engine{
		state: entity.NewMatchState(),
	}
}

// OnMoveApplied registers fn to be called after every accepted placement.
func (that *Engine) OnMoveApplied(fn func(entity.MatchState)) {
	that.moveListeners = append(that.moveListeners, fn)
}

// OnMatchEnded registers fn to be called once per match, when it reaches a terminal state.
func (that *Engine) OnMatchEnded(fn func(entity.Result)) {
	that.endListeners = append(that.endListeners, fn)
}

func (that *Engine) State() entity.MatchState {
	return that.state
}

// PlacePhoto puts photoRef into the cell at index for the player whose turn it is.
// Invalid placements leave the state untouched and report false.
func (that *Engine) PlacePhoto(index int, photoRef string) (entity.MatchState, bool) {
	if !that.canPlace(index, photoRef) {
		return that.state, false
	}

	player := that.state.Turn
	that.state.Board[index] = entity.Cell{PhotoRef: photoRef, Player: player}
	that.state.Moves++

	updateMatchStatus(&that.state, player)

	for _, fn := range that.moveListeners {
		fn(that.state)
	}

	if that.state.Ended {
		result := entity.Result{
			Winner: that.state.Winner,
			Moves:  that.state.Moves,
			Board:  that.state.Board,
		}
		for _, fn := range that.endListeners {
			fn(result)
		}
	}

	return that.state, true
}

// Reset starts a new match. Registered listeners are kept.
func (that *Engine) Reset() entity.MatchState {
	that.state = entity.NewMatchState()
	return that.state
}

func (that *Engine) canPlace(index int, photoRef string) bool {
	switch {
	case that.state.Ended:
		return false
	case index < 0 || index >= entity.BoardSize:
		return false
	case photoRef == "":
		return false
	default:
		return that.state.Board[index].IsEmpty()
	}
}

// updateMatchStatus - checks the match status after a placement by player.
func updateMatchStatus(state *entity.MatchState, player entity.Player) {
	switch owner := state.Board.LineOwner(); {
	case owner == player:
		state.Winner = entity.Winner(player)
		state.Ended = true
	case state.Board.IsFull():
		state.Winner = entity.WinnerDraw
		state.Ended = true
	default:
		state.Turn = player.Opponent()
	}
}
