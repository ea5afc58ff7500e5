package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/rocketscienceinc/pictactoe-backend/internal/apperror"
	"github.com/rocketscienceinc/pictactoe-backend/internal/entity"
)

const matchesSchema = `
CREATE TABLE IF NOT EXISTS matches (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at  INTEGER NOT NULL,
	winner      TEXT    NOT NULL CHECK (winner IN ('P1', 'P2', 'Draw')),
	moves_count INTEGER NOT NULL CHECK (moves_count BETWEEN 0 AND 9),
	board_json  TEXT    NOT NULL
)`

type MatchRepository interface {
	Init(ctx context.Context) error

	Append(ctx context.Context, winner entity.Winner, movesCount int, board entity.Board) (*entity.MatchRecord, error)
	List(ctx context.Context) ([]*entity.MatchRecord, error)

	RemoveByID(ctx context.Context, id int64) error
	Clear(ctx context.Context) error
}

type matchRow struct {
	ID         int64  `db:"id"`
	CreatedAt  int64  `db:"created_at"`
	Winner     string `db:"winner"`
	MovesCount int    `db:"moves_count"`
	BoardJSON  string `db:"board_json"`
}

type dbMatch struct {
	conn *sqlx.DB
	now  func() time.Time
}

func NewMatchRepository(conn *sqlx.DB) MatchRepository {
	return &dbMatch{
		conn: conn,
		now:  time.Now,
	}
}

// Init creates the matches table if it does not exist yet. Existing rows are kept.
func (that *dbMatch) Init(ctx context.Context) error {
	if _, err := that.conn.ExecContext(ctx, matchesSchema); err != nil {
		return fmt.Errorf("can't create matches table: %w", err)
	}

	return nil
}

func (that *dbMatch) Append(ctx context.Context, winner entity.Winner, movesCount int, board entity.Board) (*entity.MatchRecord, error) {
	if !winner.IsValid() {
		return nil, fmt.Errorf("%w: %q", apperror.ErrInvalidWinner, winner)
	}

	if movesCount < 0 || movesCount > entity.BoardSize {
		return nil, fmt.Errorf("%w: got %d", apperror.ErrInvalidMovesCount, movesCount)
	}

	if err := board.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrInvalidBoard, err)
	}

	boardJSON, err := encodeBoard(board)
	if err != nil {
		return nil, err
	}

	createdAt := time.UnixMilli(that.now().UnixMilli()).UTC()

	query := `INSERT INTO matches (created_at, winner, moves_count, board_json) VALUES (?, ?, ?, ?)`

	result, err := that.conn.ExecContext(ctx, query, createdAt.UnixMilli(), string(winner), movesCount, boardJSON)
	if err != nil {
		return nil, fmt.Errorf("can't save match: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return &entity.MatchRecord{
		ID:         id,
		CreatedAt:  createdAt,
		Winner:     winner,
		MovesCount: movesCount,
		Board:      board,
	}, nil
}

// List returns every match, newest first.
func (that *dbMatch) List(ctx context.Context) ([]*entity.MatchRecord, error) {
	query := `SELECT id, created_at, winner, moves_count, board_json FROM matches ORDER BY id DESC`

	var rows []matchRow
	if err := that.conn.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("can't list matches: %w", err)
	}

	records := make([]*entity.MatchRecord, 0, len(rows))
	for _, row := range rows {
		board, err := decodeBoard(row.BoardJSON)
		if err != nil {
			return nil, fmt.Errorf("match %d: %w", row.ID, err)
		}

		records = append(records, &entity.MatchRecord{
			ID:         row.ID,
			CreatedAt:  time.UnixMilli(row.CreatedAt).UTC(),
			Winner:     entity.Winner(row.Winner),
			MovesCount: row.MovesCount,
			Board:      board,
		})
	}

	return records, nil
}

func (that *dbMatch) RemoveByID(ctx context.Context, id int64) error {
	if _, err := that.conn.ExecContext(ctx, `DELETE FROM matches WHERE id = ?`, id); err != nil {
		return fmt.Errorf("can't delete match %d: %w", id, err)
	}

	return nil
}

func (that *dbMatch) Clear(ctx context.Context) error {
	if _, err := that.conn.ExecContext(ctx, `DELETE FROM matches`); err != nil {
		return fmt.Errorf("can't clear matches: %w", err)
	}

	return nil
}
