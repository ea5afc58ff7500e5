package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/pictactoe-backend/internal/apperror"
)

func (that *Server) handleState(ctx context.Context, cl *client, message *Message) error {
	return that.sendMessage(cl, message.Action, that.uGame.View(ctx))
}

// handleMove applies a placement. Accepted moves reach every client through the engine broadcast.
func (that *Server) handleMove(ctx context.Context, cl *client, message *Message) error {
	var payload MovePayload
	if err := json.Unmarshal(message.Payload, &payload); err != nil {
		that.sendError(cl, message.Action, "invalid move payload")
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	result, err := that.uGame.PlacePhoto(ctx, payload.Index, payload.PhotoRef)
	if errors.Is(err, apperror.ErrMatchNotSaved) {
		that.sendError(cl, message.Action, "match finished but could not be saved, it will be retried")
		return nil
	}
	if err != nil {
		that.sendError(cl, message.Action, "failed to place photo")
		return fmt.Errorf("failed to place photo: %w", err)
	}

	if !result.Accepted {
		that.sendError(cl, message.Action, "move rejected")
	}

	return nil
}

func (that *Server) handleReset(ctx context.Context, _ *client, _ *Message) error {
	that.Broadcast(ActionGameState, that.uGame.Reset(ctx))
	return nil
}

func (that *Server) handleReact(ctx context.Context, cl *client, message *Message) error {
	var payload ReactPayload
	if err := json.Unmarshal(message.Payload, &payload); err != nil {
		that.sendError(cl, message.Action, "invalid reaction payload")
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	view, ok := that.uGame.React(ctx, payload.Index, payload.Emoji)
	if !ok {
		that.sendError(cl, message.Action, "reaction rejected")
		return nil
	}

	that.Broadcast(ActionGameState, view)
	return nil
}
