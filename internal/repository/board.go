package repository

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/pictactoe-backend/internal/apperror"
	"github.com/rocketscienceinc/pictactoe-backend/internal/entity"
)

// boardVersion is written into every stored board. Version 0 is the bare 9-entry array.
const boardVersion = 1

// legacyCell is a cell from a bare-array row. Older clients wrote the photo under "uri".
type legacyCell struct {
	PhotoRef string        `json:"photoRef"`
	URI      string        `json:"uri"`
	Player   entity.Player `json:"player"`
}

type boardDocument struct {
	Version int             `json:"version"`
	Cells   json.RawMessage `json:"cells"`
}

func encodeBoard(board entity.Board) (string, error) {
	cells, err := json.Marshal(board)
	if err != nil {
		return "", fmt.Errorf("could not marshal board: %w", err)
	}

	doc, err := json.Marshal(boardDocument{Version: boardVersion, Cells: cells})
	if err != nil {
		return "", fmt.Errorf("could not marshal board document: %w", err)
	}

	return string(doc), nil
}

func decodeBoard(data string) (entity.Board, error) {
	var board entity.Board

	raw := bytes.TrimSpace([]byte(data))
	if len(raw) > 0 && raw[0] == '[' {
		return decodeLegacyBoard(raw)
	}

	var doc boardDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return entity.Board{}, fmt.Errorf("%w: %w", apperror.ErrCorruptBoard, err)
	}

	if doc.Version != boardVersion {
		return entity.Board{}, fmt.Errorf("%w: unknown version %d", apperror.ErrCorruptBoard, doc.Version)
	}

	if err := json.Unmarshal(doc.Cells, &board); err != nil {
		return entity.Board{}, fmt.Errorf("%w: %w", apperror.ErrCorruptBoard, err)
	}

	return board, nil
}

func decodeLegacyBoard(raw []byte) (entity.Board, error) {
	var cells []*legacyCell
	if err := json.Unmarshal(raw, &cells); err != nil {
		return entity.Board{}, fmt.Errorf("%w: %w", apperror.ErrCorruptBoard, err)
	}

	if len(cells) != entity.BoardSize {
		return entity.Board{}, fmt.Errorf("%w: %w: got %d", apperror.ErrCorruptBoard, entity.ErrBoardLength, len(cells))
	}

	var board entity.Board
	for i, cell := range cells {
		if cell == nil {
			continue
		}

		ref := cell.PhotoRef
		if ref == "" {
			ref = cell.URI
		}
		board[i] = entity.Cell{PhotoRef: ref, Player: cell.Player}
	}

	if err := board.Validate(); err != nil {
		return entity.Board{}, fmt.Errorf("%w: %w", apperror.ErrCorruptBoard, err)
	}

	return board, nil
}
