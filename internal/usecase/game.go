package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/rocketscienceinc/pictactoe-backend/internal/apperror"
	"github.com/rocketscienceinc/pictactoe-backend/internal/entity"
	"github.com/rocketscienceinc/pictactoe-backend/internal/tictactoe"
)

type matchAppender interface {
	Append(ctx context.Context, winner entity.Winner, movesCount int, board entity.Board) (*entity.MatchRecord, error)
}

type nameProvider interface {
	Names(ctx context.Context) entity.Names
}

type gifSearcher interface {
	Search(ctx context.Context, query string) []string
}

type gameMetrics interface {
	MovePlaced(accepted bool)
	MatchFinished(winner entity.Winner)
	StoreError(op string)
}

// GameView is what a client needs to render the board.
type GameView struct {
	State     entity.MatchState `json:"state"`
	Status    string            `json:"status"`
	Share     string            `json:"share,omitempty"`
	Names     entity.Names      `json:"names"`
	Reactions map[int]string    `json:"reactions"`
}

type MoveResult struct {
	GameView
	Accepted bool                `json:"accepted"`
	Record   *entity.MatchRecord `json:"record,omitempty"`
}

// GameUseCase hosts the single local match. Engine access is serialized by mu.
type GameUseCase struct {
	logger *slog.Logger

	store   matchAppender
	names   nameProvider
	gifs    gifSearcher
	metrics gameMetrics

	mu        sync.Mutex
	engine    *tictactoe.Engine
	reactions map[int]string
	pending   []entity.Result

	flushMu sync.Mutex
}

func NewGameUseCase(
	logger *slog.Logger,
	engine *tictactoe.Engine,
	store matchAppender,
	names nameProvider,
	gifs gifSearcher,
	metrics gameMetrics,
) *GameUseCase {
	that := &GameUseCase{
		logger:    logger.With("component", "gameUseCase"),
		store:     store,
		names:     names,
		gifs:      gifs,
		metrics:   metrics,
		engine:    engine,
		reactions: make(map[int]string),
	}

	// runs under mu, from inside engine.PlacePhoto
	engine.OnMatchEnded(func(result entity.Result) {
		that.metrics.MatchFinished(result.Winner)
		that.pending = append(that.pending, result)
	})

	return that
}

func (that *GameUseCase) View(ctx context.Context) GameView {
	that.mu.Lock()
	state, reactions := that.snapshot()
	that.mu.Unlock()

	return that.view(ctx, state, reactions)
}

// PlacePhoto applies a placement. Rejected placements are not errors: Accepted is false.
// When the match ends the result is persisted; a failed write is reported with
// apperror.ErrMatchNotSaved while the returned view still holds the final state.
func (that *GameUseCase) PlacePhoto(ctx context.Context, index int, photoRef string) (*MoveResult, error) {
	log := that.logger.With("method", "PlacePhoto", "cell", index)

	that.mu.Lock()
	state, accepted := that.engine.PlacePhoto(index, photoRef)
	_, reactions := that.snapshot()
	that.mu.Unlock()

	that.metrics.MovePlaced(accepted)

	result := &MoveResult{
		GameView: that.view(ctx, state, reactions),
		Accepted: accepted,
	}

	if !accepted {
		log.Debug("placement ignored")
		return result, nil
	}

	if !state.Ended {
		return result, nil
	}

	log.Info("match ended", "winner", state.Winner, "moves", state.Moves)

	// this match is the newest queued result, stored only if the whole flush succeeded
	records, err := that.FlushPending(ctx)
	if err != nil {
		log.Error("failed to save match result", "error", err, "saved", len(records))
		return result, err
	}

	if len(records) > 0 {
		result.Record = records[len(records)-1]
	}

	return result, nil
}

// FlushPending writes finished matches that are not stored yet, oldest first.
// It stops at the first failure and keeps the remaining results queued.
func (that *GameUseCase) FlushPending(ctx context.Context) ([]*entity.MatchRecord, error) {
	that.flushMu.Lock()
	defer that.flushMu.Unlock()

	that.mu.Lock()
	pending := append([]entity.Result(nil), that.pending...)
	that.mu.Unlock()

	if len(pending) == 0 {
		return nil, nil
	}

	records := make([]*entity.MatchRecord, 0, len(pending))

	var err error
	for _, result := range pending {
		var record *entity.MatchRecord
		record, err = that.store.Append(ctx, result.Winner, result.Moves, result.Board)
		if err != nil {
			that.metrics.StoreError("append")
			err = fmt.Errorf("%w: %w", apperror.ErrMatchNotSaved, err)
			break
		}
		records = append(records, record)
	}

	that.mu.Lock()
	that.pending = that.pending[len(records):]
	that.mu.Unlock()

	return records, err
}

// ClearWith runs clear and then drops queued results that were never stored.
// No flush can run in between. When clear fails the queue is kept.
func (that *GameUseCase) ClearWith(ctx context.Context, clear func(ctx context.Context) error) (int, error) {
	that.flushMu.Lock()
	defer that.flushMu.Unlock()

	if err := clear(ctx); err != nil {
		return 0, err
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	dropped := len(that.pending)
	that.pending = nil

	return dropped, nil
}

func (that *GameUseCase) Pending() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.pending)
}

// Reset starts a new match. The store is not touched.
func (that *GameUseCase) Reset(ctx context.Context) GameView {
	that.mu.Lock()
	state := that.engine.Reset()
	that.reactions = make(map[int]string)
	that.mu.Unlock()

	return that.view(ctx, state, map[int]string{})
}

// React attaches an emoji to an occupied cell. It never changes the match state.
func (that *GameUseCase) React(ctx context.Context, index int, emoji string) (GameView, bool) {
	emoji = strings.TrimSpace(emoji)

	that.mu.Lock()
	state := that.engine.State()

	accepted := emoji != "" && index >= 0 && index < entity.BoardSize && !state.Board[index].IsEmpty()
	if accepted {
		that.reactions[index] = emoji
	}

	state, reactions := that.snapshot()
	that.mu.Unlock()

	return that.view(ctx, state, reactions), accepted
}

func (that *GameUseCase) SearchGIFs(ctx context.Context, query string) []string {
	return that.gifs.Search(ctx, query)
}

// snapshot must be called with mu held.
func (that *GameUseCase) snapshot() (entity.MatchState, map[int]string) {
	reactions := make(map[int]string, len(that.reactions))
	for cell, emoji := range that.reactions {
		reactions[cell] = emoji
	}

	return that.engine.State(), reactions
}

func (that *GameUseCase) view(ctx context.Context, state entity.MatchState, reactions map[int]string) GameView {
	names := that.names.Names(ctx)

	return GameView{
		State:     state,
		Status:    tictactoe.StatusLine(state, names),
		Share:     tictactoe.ShareMessage(state, names),
		Names:     names,
		Reactions: reactions,
	}
}
