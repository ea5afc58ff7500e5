package tictactoe

import (
	"github.com/rocketscienceinc/pictactoe-backend/internal/entity"
)

// StatusLine renders the line shown under the board.
func StatusLine(state entity.MatchState, names entity.Names) string {
	switch state.Winner {
	case entity.WinnerDraw:
		return "It's a draw!"
	case entity.WinnerP1, entity.WinnerP2:
		return names.For(entity.Player(state.Winner)) + " wins!"
	default:
		return names.For(state.Turn) + "'s turn"
	}
}

// ShareMessage is the text shared from the end-of-match overlay; empty while the match runs.
func ShareMessage(state entity.MatchState, names entity.Names) string {
	switch state.Winner {
	case entity.WinnerDraw:
		return "We just drew in Pic-Tac-Toe! #PicTacToe"
	case entity.WinnerP1, entity.WinnerP2:
		return names.For(entity.Player(state.Winner)) + " just won a Pic-Tac-Toe match! 🏆"
	default:
		return ""
	}
}
