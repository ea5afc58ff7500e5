package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/pictactoe-backend/internal/apperror"
	"github.com/rocketscienceinc/pictactoe-backend/internal/entity"
)

var errRedisDown = errors.New("redis down")

type mockProfileRepo struct {
	mock.Mock
}

func (that *mockProfileRepo) Save(ctx context.Context, slot entity.Player, profile *entity.Profile) error {
	args := that.Called(ctx, slot, profile)
	return args.Error(0)
}

func (that *mockProfileRepo) Get(ctx context.Context, slot entity.Player) (*entity.Profile, error) {
	args := that.Called(ctx, slot)
	profile, _ := args.Get(0).(*entity.Profile)
	return profile, args.Error(1)
}

func (that *mockProfileRepo) Delete(ctx context.Context, slot entity.Player) error {
	args := that.Called(ctx, slot)
	return args.Error(0)
}

func newProfileService(t *testing.T) (*mockProfileRepo, ProfileService) {
	t.Helper()

	repo := &mockProfileRepo{}
	t.Cleanup(func() { repo.AssertExpectations(t) })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return repo, NewProfileService(logger, repo)
}

func TestProfileService_Names(t *testing.T) {
	ctx := context.Background()

	t.Run("Uses stored names", func(t *testing.T) {
		// Given: both profiles exist
		repo, svc := newProfileService(t)
		repo.On("Get", mock.Anything, entity.PlayerP1).Return(&entity.Profile{Name: "Ana"}, nil).Once()
		repo.On("Get", mock.Anything, entity.PlayerP2).Return(&entity.Profile{Name: " Bo "}, nil).Once()

		// When: resolving names
		names := svc.Names(ctx)

		// Then: the stored names are used
		assert.Equal(t, entity.Names{P1: "Ana", P2: "Bo"}, names)
	})

	t.Run("Falls back when profiles are missing or storage fails", func(t *testing.T) {
		// Given: P1 has no profile and P2 cannot be read
		repo, svc := newProfileService(t)
		repo.On("Get", mock.Anything, entity.PlayerP1).Return(nil, apperror.ErrProfileNotFound).Once()
		repo.On("Get", mock.Anything, entity.PlayerP2).Return(nil, errRedisDown).Once()

		// When: resolving names
		names := svc.Names(ctx)

		// Then: the defaults are used
		assert.Equal(t, entity.Names{P1: DefaultP1Name, P2: DefaultP2Name}, names)
	})

	t.Run("Falls back on a blank name", func(t *testing.T) {
		repo, svc := newProfileService(t)
		repo.On("Get", mock.Anything, entity.PlayerP1).Return(&entity.Profile{Name: "  "}, nil).Once()
		repo.On("Get", mock.Anything, entity.PlayerP2).Return(&entity.Profile{Name: "Bo"}, nil).Once()

		names := svc.Names(ctx)

		assert.Equal(t, entity.Names{P1: DefaultP1Name, P2: "Bo"}, names)
	})
}

func TestProfileService_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("Saves a trimmed profile", func(t *testing.T) {
		// Given: a repository accepting the profile
		repo, svc := newProfileService(t)
		repo.On("Save", mock.Anything, entity.PlayerP2, &entity.Profile{Name: "Bo", Color: "#00f"}).Return(nil).Once()

		// When: saving with surrounding spaces
		err := svc.Save(ctx, entity.PlayerP2, &entity.Profile{Name: "  Bo ", Color: "#00f"})

		// Then: it is stored
		require.NoError(t, err)
	})

	t.Run("Rejects an empty name", func(t *testing.T) {
		_, svc := newProfileService(t)

		err := svc.Save(ctx, entity.PlayerP1, &entity.Profile{Name: " "})

		assert.ErrorIs(t, err, apperror.ErrInvalidProfile)
	})

	t.Run("Rejects an unknown slot", func(t *testing.T) {
		_, svc := newProfileService(t)

		err := svc.Save(ctx, entity.Player("P3"), &entity.Profile{Name: "X"})

		assert.ErrorIs(t, err, apperror.ErrInvalidSlot)
	})

	t.Run("Wraps repository errors", func(t *testing.T) {
		repo, svc := newProfileService(t)
		repo.On("Save", mock.Anything, entity.PlayerP1, mock.Anything).Return(errRedisDown).Once()

		err := svc.Save(ctx, entity.PlayerP1, &entity.Profile{Name: "Ana"})

		assert.ErrorIs(t, err, errRedisDown)
	})
}

func TestProfileService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Returns the profile", func(t *testing.T) {
		repo, svc := newProfileService(t)
		repo.On("Get", mock.Anything, entity.PlayerP1).Return(&entity.Profile{Name: "Ana"}, nil).Once()

		profile, err := svc.Get(ctx, entity.PlayerP1)

		require.NoError(t, err)
		assert.Equal(t, "Ana", profile.Name)
	})

	t.Run("Not found is preserved", func(t *testing.T) {
		repo, svc := newProfileService(t)
		repo.On("Get", mock.Anything, entity.PlayerP2).Return(nil, apperror.ErrProfileNotFound).Once()

		_, err := svc.Get(ctx, entity.PlayerP2)

		assert.ErrorIs(t, err, apperror.ErrProfileNotFound)
	})
}

func TestProfileService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("Deletes the profile", func(t *testing.T) {
		repo, svc := newProfileService(t)
		repo.On("Delete", mock.Anything, entity.PlayerP2).Return(nil).Once()

		require.NoError(t, svc.Delete(ctx, entity.PlayerP2))
	})

	t.Run("Rejects an unknown slot", func(t *testing.T) {
		_, svc := newProfileService(t)

		assert.ErrorIs(t, svc.Delete(ctx, entity.Player("")), apperror.ErrInvalidSlot)
	})

	t.Run("Wraps repository errors", func(t *testing.T) {
		repo, svc := newProfileService(t)
		repo.On("Delete", mock.Anything, entity.PlayerP1).Return(errRedisDown).Once()

		assert.ErrorIs(t, svc.Delete(ctx, entity.PlayerP1), errRedisDown)
	})
}
