package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/pictactoe-backend/internal/apperror"
	"github.com/rocketscienceinc/pictactoe-backend/internal/entity"
)

type matchHistory interface {
	List(ctx context.Context) ([]*entity.MatchRecord, error)
	RemoveByID(ctx context.Context, id int64) error
	Clear(ctx context.Context) error
}

type pendingResults interface {
	FlushPending(ctx context.Context) ([]*entity.MatchRecord, error)
	ClearWith(ctx context.Context, clear func(ctx context.Context) error) (int, error)
}

type HistoryEntry struct {
	entity.MatchRecord
	WinnerLabel string `json:"winnerLabel"`
}

type HistoryUseCase struct {
	logger *slog.Logger

	store   matchHistory
	pending pendingResults
	names   nameProvider
	metrics gameMetrics
}

func NewHistoryUseCase(
	logger *slog.Logger,
	store matchHistory,
	pending pendingResults,
	names nameProvider,
	metrics gameMetrics,
) *HistoryUseCase {
	return &HistoryUseCase{
		logger:  logger.With("component", "historyUseCase"),
		store:   store,
		pending: pending,
		names:   names,
		metrics: metrics,
	}
}

// List returns stored matches, newest first. Results that failed to save earlier are retried first.
func (that *HistoryUseCase) List(ctx context.Context) ([]HistoryEntry, error) {
	log := that.logger.With("method", "List")

	if _, err := that.pending.FlushPending(ctx); err != nil {
		log.Warn("pending results are still unsaved", "error", err)
	}

	records, err := that.store.List(ctx)
	if err != nil {
		that.metrics.StoreError("list")
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	names := that.names.Names(ctx)

	entries := make([]HistoryEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, HistoryEntry{
			MatchRecord: *record,
			WinnerLabel: winnerLabel(record.Winner, names),
		})
	}

	return entries, nil
}

func (that *HistoryUseCase) Remove(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperror.ErrInvalidMatchID
	}

	if err := that.store.RemoveByID(ctx, id); err != nil {
		that.metrics.StoreError("remove")
		return fmt.Errorf("failed to remove match %d: %w", id, err)
	}

	return nil
}

// Clear wipes the history, including results still waiting to be saved.
func (that *HistoryUseCase) Clear(ctx context.Context) error {
	dropped, err := that.pending.ClearWith(ctx, that.store.Clear)
	if err != nil {
		that.metrics.StoreError("clear")
		return fmt.Errorf("failed to clear matches: %w", err)
	}

	if dropped > 0 {
		that.logger.Info("discarded unsaved results", "count", dropped)
	}

	return nil
}

func winnerLabel(winner entity.Winner, names entity.Names) string {
	switch winner {
	case entity.WinnerP1:
		return names.P1
	case entity.WinnerP2:
		return names.P2
	default:
		return "Draw"
	}
}
