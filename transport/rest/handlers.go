package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rocketscienceinc/pictactoe-backend/internal/apperror"
	"github.com/rocketscienceinc/pictactoe-backend/internal/entity"
	"github.com/rocketscienceinc/pictactoe-backend/internal/usecase"
)

const actionGameState = "game:state"

type uGame interface {
	View(ctx context.Context) usecase.GameView
	PlacePhoto(ctx context.Context, index int, photoRef string) (*usecase.MoveResult, error)
	Reset(ctx context.Context) usecase.GameView
	React(ctx context.Context, index int, emoji string) (usecase.GameView, bool)
	SearchGIFs(ctx context.Context, query string) []string
}

type uHistory interface {
	List(ctx context.Context) ([]usecase.HistoryEntry, error)
	Remove(ctx context.Context, id int64) error
	Clear(ctx context.Context) error
}

type profileService interface {
	Save(ctx context.Context, slot entity.Player, profile *entity.Profile) error
	Get(ctx context.Context, slot entity.Player) (*entity.Profile, error)
	Delete(ctx context.Context, slot entity.Player) error
}

// broadcaster pushes state changes that do not go through the engine listeners.
type broadcaster interface {
	Broadcast(action string, payload any)
}

type Handlers struct {
	logger *slog.Logger

	uGame    uGame
	uHistory uHistory
	profiles profileService
	notify   broadcaster
}

func NewHandlers(logger *slog.Logger, uGame uGame, uHistory uHistory, profiles profileService, notify broadcaster) *Handlers {
	return &Handlers{
		logger:   logger.With("component", "rest"),
		uGame:    uGame,
		uHistory: uHistory,
		profiles: profiles,
		notify:   notify,
	}
}

type moveRequest struct {
	Index    *int   `json:"index" binding:"required"`
	PhotoRef string `json:"photoRef"`
}

type reactionRequest struct {
	Index *int   `json:"index" binding:"required"`
	Emoji string `json:"emoji"`
}

type moveResponse struct {
	*usecase.MoveResult
	Warning string `json:"warning,omitempty"`
}

type reactionResponse struct {
	usecase.GameView
	Accepted bool `json:"accepted"`
}

func (that *Handlers) GetGame(c *gin.Context) {
	c.JSON(http.StatusOK, that.uGame.View(c.Request.Context()))
}

// PlacePhoto answers 200 even for rejected placements; accepted tells them apart.
func (that *Handlers) PlacePhoto(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index is required"})
		return
	}

	result, err := that.uGame.PlacePhoto(c.Request.Context(), *req.Index, req.PhotoRef)
	if err != nil && !errors.Is(err, apperror.ErrMatchNotSaved) {
		that.writeError(c, "PlacePhoto", err)
		return
	}

	resp := moveResponse{MoveResult: result}
	if err != nil {
		resp.Warning = err.Error()
	}

	c.JSON(http.StatusOK, resp)
}

func (that *Handlers) Reset(c *gin.Context) {
	view := that.uGame.Reset(c.Request.Context())
	that.notify.Broadcast(actionGameState, view)

	c.JSON(http.StatusOK, view)
}

func (that *Handlers) React(c *gin.Context) {
	var req reactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index is required"})
		return
	}

	view, ok := that.uGame.React(c.Request.Context(), *req.Index, req.Emoji)
	if ok {
		that.notify.Broadcast(actionGameState, view)
	}

	c.JSON(http.StatusOK, reactionResponse{GameView: view, Accepted: ok})
}

func (that *Handlers) SearchGIFs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"urls": that.uGame.SearchGIFs(c.Request.Context(), c.Query("q"))})
}

func (that *Handlers) ListMatches(c *gin.Context) {
	entries, err := that.uHistory.List(c.Request.Context())
	if err != nil {
		that.writeError(c, "ListMatches", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"matches": entries})
}

func (that *Handlers) RemoveMatch(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		that.writeError(c, "RemoveMatch", apperror.ErrInvalidMatchID)
		return
	}

	if err = that.uHistory.Remove(c.Request.Context(), id); err != nil {
		that.writeError(c, "RemoveMatch", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (that *Handlers) ClearMatches(c *gin.Context) {
	if err := that.uHistory.Clear(c.Request.Context()); err != nil {
		that.writeError(c, "ClearMatches", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (that *Handlers) GetProfile(c *gin.Context) {
	profile, err := that.profiles.Get(c.Request.Context(), entity.Player(c.Param("slot")))
	if err != nil {
		that.writeError(c, "GetProfile", err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (that *Handlers) SaveProfile(c *gin.Context) {
	var profile entity.Profile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile"})
		return
	}

	if err := that.profiles.Save(c.Request.Context(), entity.Player(c.Param("slot")), &profile); err != nil {
		that.writeError(c, "SaveProfile", err)
		return
	}

	c.JSON(http.StatusOK, &profile)
}

func (that *Handlers) DeleteProfile(c *gin.Context) {
	if err := that.profiles.Delete(c.Request.Context(), entity.Player(c.Param("slot"))); err != nil {
		that.writeError(c, "DeleteProfile", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (that *Handlers) writeError(c *gin.Context, method string, err error) {
	switch {
	case errors.Is(err, apperror.ErrInvalidMatchID),
		errors.Is(err, apperror.ErrInvalidSlot),
		errors.Is(err, apperror.ErrInvalidProfile):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperror.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		that.logger.Error("request failed", "method", method, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
	}
}
