package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/pictactoe-backend/internal/apperror"
	"github.com/rocketscienceinc/pictactoe-backend/internal/entity"
)

const profileKeyPrefix = "profile:"

type ProfileRepository interface {
	Save(ctx context.Context, slot entity.Player, profile *entity.Profile) error
	Get(ctx context.Context, slot entity.Player) (*entity.Profile, error)
	Delete(ctx context.Context, slot entity.Player) error
}

type dbProfile struct {
	client *redis.Client
}

func NewProfileRepository(client *redis.Client) ProfileRepository {
	return &dbProfile{
		client: client,
	}
}

func (that *dbProfile) Save(ctx context.Context, slot entity.Player, profile *entity.Profile) error {
	if !slot.IsValid() {
		return fmt.Errorf("%w: %q", apperror.ErrInvalidSlot, slot)
	}

	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	if err = that.client.Set(ctx, profileKey(slot), profileJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set profile: %w", err)
	}

	return nil
}

func (that *dbProfile) Get(ctx context.Context, slot entity.Player) (*entity.Profile, error) {
	if !slot.IsValid() {
		return nil, fmt.Errorf("%w: %q", apperror.ErrInvalidSlot, slot)
	}

	response, err := that.client.Get(ctx, profileKey(slot)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrProfileNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get profile %s: %w", slot, err)
	}

	var profile entity.Profile
	if err = json.Unmarshal([]byte(response), &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}

	return &profile, nil
}

func (that *dbProfile) Delete(ctx context.Context, slot entity.Player) error {
	if err := that.client.Del(ctx, profileKey(slot)).Err(); err != nil {
		return fmt.Errorf("failed to delete profile %s: %w", slot, err)
	}

	return nil
}

func profileKey(slot entity.Player) string {
	return profileKeyPrefix + string(slot)
}
