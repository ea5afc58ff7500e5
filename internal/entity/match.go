package entity

import (
	"encoding/json"
	"errors"
	"fmt"
)

type (
	Player string
	Winner string
)

const (
	PlayerP1 Player = "P1"
	PlayerP2 Player = "P2"

	WinnerNone Winner = ""
	WinnerP1   Winner = "P1"
	WinnerP2   Winner = "P2"
	WinnerDraw Winner = "Draw"

	BoardSize = 9
)

var (
	ErrBoardLength = errors.New("board must have exactly 9 cells")
	ErrCellPlayer  = errors.New("cell has an unknown player")
	ErrCellOwner   = errors.New("cell has a photo but no player")

	WinCombos = [][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}
)

// Opponent returns the player who moves after that one.
func (that Player) Opponent() Player {
	if that == PlayerP1 {
		return PlayerP2
	}
	return PlayerP1
}

func (that Player) IsValid() bool {
	return that == PlayerP1 || that == PlayerP2
}

func (that Winner) IsValid() bool {
	return that == WinnerP1 || that == WinnerP2 || that == WinnerDraw
}

// Cell is a board slot. The zero value is an empty cell.
type Cell struct {
	PhotoRef string `json:"photoRef"`
	Player   Player `json:"player"`
}

func (that Cell) IsEmpty() bool {
	return that.Player == ""
}

// Board is the 3x3 grid in row-major order.
type Board [BoardSize]Cell

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell.IsEmpty() {
			return false
		}
	}
	return true
}

func (that Board) Filled() int {
	filled := 0
	for _, cell := range that {
		if !cell.IsEmpty() {
			filled++
		}
	}
	return filled
}

// Validate reports the first cell that could not survive a JSON round trip.
func (that Board) Validate() error {
	for i, cell := range that {
		switch {
		case cell.Player == "" && cell.PhotoRef != "":
			return fmt.Errorf("%w: cell %d", ErrCellOwner, i)
		case cell.Player != "" && !cell.Player.IsValid():
			return fmt.Errorf("%w: cell %d has %q", ErrCellPlayer, i, cell.Player)
		}
	}
	return nil
}

// LineOwner returns the player owning a complete line, or "" if there is none.
func (that Board) LineOwner() Player {
	for _, combo := range WinCombos {
		a, b, c := that[combo[0]].Player, that[combo[1]].Player, that[combo[2]].Player
		if a != "" && a == b && b == c {
			return a
		}
	}
	return ""
}

// MarshalJSON encodes empty cells as null.
func (that Board) MarshalJSON() ([]byte, error) {
	cells := make([]*Cell, BoardSize)
	for i := range that {
		if !that[i].IsEmpty() {
			cell := that[i]
			cells[i] = &cell
		}
	}
	return json.Marshal(cells)
}

func (that *Board) UnmarshalJSON(data []byte) error {
	var cells []*Cell
	if err := json.Unmarshal(data, &cells); err != nil {
		return fmt.Errorf("could not decode board: %w", err)
	}

	if len(cells) != BoardSize {
		return fmt.Errorf("%w: got %d", ErrBoardLength, len(cells))
	}

	var board Board
	for i, cell := range cells {
		if cell == nil {
			continue
		}
		if !cell.Player.IsValid() {
			return fmt.Errorf("%w: cell %d has %q", ErrCellPlayer, i, cell.Player)
		}
		board[i] = *cell
	}

	*that = board
	return nil
}

// MatchState is the full state of one match.
type MatchState struct {
	Board  Board  `json:"board"`
	Turn   Player `json:"turn"`
	Ended  bool   `json:"ended"`
	Winner Winner `json:"winner,omitempty"`
	Moves  int    `json:"moves"`
}

func NewMatchState() MatchState {
	return MatchState{
		Turn: PlayerP1,
	}
}

// Result is what a finished match hands to the store.
type Result struct {
	Winner Winner `json:"winner"`
	Moves  int    `json:"moves"`
	Board  Board  `json:"board"`
}

// Names are display labels substituted for P1 and P2.
type Names struct {
	P1 string `json:"p1"`
	P2 string `json:"p2"`
}

func (that Names) For(player Player) string {
	if player == PlayerP1 {
		return that.P1
	}
	return that.P2
}
