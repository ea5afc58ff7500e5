package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func p1(ref string) Cell { return Cell{PhotoRef: ref, Player: PlayerP1} }
func p2(ref string) Cell { return Cell{PhotoRef: ref, Player: PlayerP2} }

func TestBoard_LineOwner(t *testing.T) {
	t.Run("Returns PlayerP1 when P1 owns a column", func(t *testing.T) {
		// Given: a board where P1 fills the first column
		board := Board{
			p1("a"), p2("b"), {},
			p1("c"), p2("d"), {},
			p1("e"), {}, {},
		}

		// When: looking for the line owner
		owner := board.LineOwner()

		// Then: P1 owns the line
		assert.Equal(t, PlayerP1, owner)
	})

	t.Run("Returns PlayerP2 when P2 owns a diagonal", func(t *testing.T) {
		// Given: a board where P2 fills the anti-diagonal
		board := Board{
			p1("a"), p1("b"), p2("c"),
			p1("d"), p2("e"), {},
			p2("f"), {}, {},
		}

		// When: looking for the line owner
		owner := board.LineOwner()

		// Then: P2 owns the line
		assert.Equal(t, PlayerP2, owner)
	})

	t.Run("Returns empty when no line is complete", func(t *testing.T) {
		// Given: a partially filled board without a complete line
		board := Board{
			p1("a"), p2("b"), {},
			{}, p1("c"), {},
			{}, {}, p2("d"),
		}

		// When: looking for the line owner
		owner := board.LineOwner()

		// Then: nobody owns a line
		assert.Equal(t, Player(""), owner)
	})
}

func TestBoard_IsFullAndFilled(t *testing.T) {
	// Given: an empty board and a full board
	var empty Board
	full := Board{
		p1("1"), p2("2"), p1("3"),
		p1("4"), p2("5"), p2("6"),
		p2("7"), p1("8"), p1("9"),
	}

	// Then: only the full board reports full, and the counts match
	assert.False(t, empty.IsFull())
	assert.Equal(t, 0, empty.Filled())
	assert.True(t, full.IsFull())
	assert.Equal(t, BoardSize, full.Filled())
}

func TestBoard_JSON(t *testing.T) {
	t.Run("Empty cells are encoded as null", func(t *testing.T) {
		// Given: a board with two occupied cells
		board := Board{p1("file:///a.jpg"), {}, {}, {}, p2("file:///b.jpg")}

		// When: encoding it
		data, err := json.Marshal(board)
		require.NoError(t, err)

		// Then: the empty cells are null
		assert.JSONEq(t,
			`[{"photoRef":"file:///a.jpg","player":"P1"},null,null,null,{"photoRef":"file:///b.jpg","player":"P2"},null,null,null,null]`,
			string(data))
	})

	t.Run("Decoding restores the same board", func(t *testing.T) {
		// Given: an encoded board
		board := Board{{}, p2("x"), {}, {}, {}, {}, {}, {}, p1("y")}
		data, err := json.Marshal(board)
		require.NoError(t, err)

		// When: decoding it back
		var decoded Board
		err = json.Unmarshal(data, &decoded)

		// Then: it matches the original
		require.NoError(t, err)
		assert.Equal(t, board, decoded)
	})

	t.Run("Rejects a board with the wrong number of cells", func(t *testing.T) {
		// When: decoding three cells
		var decoded Board
		err := json.Unmarshal([]byte(`[null,null,null]`), &decoded)

		// Then: ErrBoardLength is returned
		assert.ErrorIs(t, err, ErrBoardLength)
	})

	t.Run("Rejects an unknown player", func(t *testing.T) {
		// When: decoding a cell owned by "X"
		var decoded Board
		err := json.Unmarshal([]byte(`[{"photoRef":"a","player":"X"},null,null,null,null,null,null,null,null]`), &decoded)

		// Then: ErrCellPlayer is returned
		assert.ErrorIs(t, err, ErrCellPlayer)
	})
}

func TestBoard_Validate(t *testing.T) {
	// Given: a board with both players and empty cells
	board := Board{0: {PhotoRef: "a", Player: PlayerP1}, 4: {PhotoRef: "b", Player: PlayerP2}}

	// Then: it is valid
	require.NoError(t, board.Validate())

	// When: a cell has an unknown player
	board[8] = Cell{PhotoRef: "c", Player: "X"}

	// Then: ErrCellPlayer is reported
	require.ErrorIs(t, board.Validate(), ErrCellPlayer)

	// When: a cell has a photo but no player
	board[8] = Cell{PhotoRef: "c"}

	// Then: ErrCellOwner is reported
	require.ErrorIs(t, board.Validate(), ErrCellOwner)
}

func TestPlayer_Opponent(t *testing.T) {
	assert.Equal(t, PlayerP2, PlayerP1.Opponent())
	assert.Equal(t, PlayerP1, PlayerP2.Opponent())
}

func TestNames_For(t *testing.T) {
	names := Names{P1: "Ana", P2: "Bo"}

	assert.Equal(t, "Ana", names.For(PlayerP1))
	assert.Equal(t, "Bo", names.For(PlayerP2))
}
