package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/pictactoe-backend/internal/apperror"
	"github.com/rocketscienceinc/pictactoe-backend/internal/entity"
)

func TestEncodeBoard(t *testing.T) {
	// Given: a board with one photo
	board := entity.Board{{PhotoRef: "file:///a.jpg", Player: entity.PlayerP1}}

	// When: encoding it
	data, err := encodeBoard(board)

	// Then: the document is versioned and empty cells are null
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"version":1,"cells":[{"photoRef":"file:///a.jpg","player":"P1"},null,null,null,null,null,null,null,null]}`,
		data)
}

func TestDecodeBoard(t *testing.T) {
	t.Run("Legacy bare array", func(t *testing.T) {
		// When: decoding a board stored without a version
		board, err := decodeBoard(`[null,{"photoRef":"b","player":"P2"},null,null,null,null,null,null,null]`)

		// Then: it is accepted
		require.NoError(t, err)
		assert.Equal(t, entity.Cell{PhotoRef: "b", Player: entity.PlayerP2}, board[1])
	})

	t.Run("Legacy cells keyed by uri", func(t *testing.T) {
		// When: decoding a row written with {uri, player} cells
		board, err := decodeBoard(`[{"uri":"file:///a.jpg","player":"P1"},null,{"uri":null,"player":null},null,null,null,null,null,null]`)

		// Then: the uri becomes the photo reference and blank cells stay empty
		require.NoError(t, err)
		assert.Equal(t, entity.Board{{PhotoRef: "file:///a.jpg", Player: entity.PlayerP1}}, board)
	})

	t.Run("Versioned document", func(t *testing.T) {
		// Given: an encoded board
		original := entity.Board{8: {PhotoRef: "z", Player: entity.PlayerP1}}
		data, err := encodeBoard(original)
		require.NoError(t, err)

		// When: decoding it
		board, err := decodeBoard(data)

		// Then: it matches the original
		require.NoError(t, err)
		assert.Equal(t, original, board)
	})

	t.Run("Errors", func(t *testing.T) {
		for _, data := range []string{
			``,
			`not json`,
			`{"version":2,"cells":[]}`,
			`{"version":1}`,
			`{"version":1,"cells":[null]}`,
			`[null,null]`,
			`[{"uri":"a","player":"X"},null,null,null,null,null,null,null,null]`,
			`[{"uri":"a"},null,null,null,null,null,null,null,null]`,
		} {
			_, err := decodeBoard(data)
			assert.ErrorIs(t, err, apperror.ErrCorruptBoard, "input %q", data)
		}
	})
}
