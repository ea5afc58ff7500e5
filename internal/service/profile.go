package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rocketscienceinc/pictactoe-backend/internal/apperror"
	"github.com/rocketscienceinc/pictactoe-backend/internal/entity"
)

const (
	DefaultP1Name = "You"
	DefaultP2Name = "Friend"
)

type ProfileService interface {
	Save(ctx context.Context, slot entity.Player, profile *entity.Profile) error
	Get(ctx context.Context, slot entity.Player) (*entity.Profile, error)
	Delete(ctx context.Context, slot entity.Player) error

	// Names resolves display names for both slots, falling back to defaults.
	Names(ctx context.Context) entity.Names
}

type profileRepo interface {
	Save(ctx context.Context, slot entity.Player, profile *entity.Profile) error
	Get(ctx context.Context, slot entity.Player) (*entity.Profile, error)
	Delete(ctx context.Context, slot entity.Player) error
}

type profileService struct {
	logger *slog.Logger

	profileRepo profileRepo
}

func NewProfileService(logger *slog.Logger, profileRepo profileRepo) ProfileService {
	return &profileService{
		logger:      logger.With("component", "profileService"),
		profileRepo: profileRepo,
	}
}

func (that *profileService) Save(ctx context.Context, slot entity.Player, profile *entity.Profile) error {
	if !slot.IsValid() {
		return fmt.Errorf("%w: %q", apperror.ErrInvalidSlot, slot)
	}

	profile.Name = strings.TrimSpace(profile.Name)
	if profile.Name == "" {
		return apperror.ErrInvalidProfile
	}

	if err := that.profileRepo.Save(ctx, slot, profile); err != nil {
		return fmt.Errorf("could not save profile: %w", err)
	}

	return nil
}

func (that *profileService) Get(ctx context.Context, slot entity.Player) (*entity.Profile, error) {
	if !slot.IsValid() {
		return nil, fmt.Errorf("%w: %q", apperror.ErrInvalidSlot, slot)
	}

	profile, err := that.profileRepo.Get(ctx, slot)
	if err != nil {
		return nil, fmt.Errorf("could not get profile: %w", err)
	}

	return profile, nil
}

// Delete forgets a slot's profile so its default name is used again.
func (that *profileService) Delete(ctx context.Context, slot entity.Player) error {
	if !slot.IsValid() {
		return fmt.Errorf("%w: %q", apperror.ErrInvalidSlot, slot)
	}

	if err := that.profileRepo.Delete(ctx, slot); err != nil {
		return fmt.Errorf("could not delete profile: %w", err)
	}

	return nil
}

func (that *profileService) Names(ctx context.Context) entity.Names {
	return entity.Names{
		P1: that.nameFor(ctx, entity.PlayerP1, DefaultP1Name),
		P2: that.nameFor(ctx, entity.PlayerP2, DefaultP2Name),
	}
}

func (that *profileService) nameFor(ctx context.Context, slot entity.Player, fallback string) string {
	profile, err := that.profileRepo.Get(ctx, slot)
	if err != nil {
		if !errors.Is(err, apperror.ErrProfileNotFound) {
			that.logger.Warn("failed to load profile, using default name", "slot", slot, "error", err)
		}
		return fallback
	}

	if name := strings.TrimSpace(profile.Name); name != "" {
		return name
	}

	return fallback
}
