package websocket

import (
	"encoding/json"

	"github.com/gorilla/websocket"
)

const (
	ActionGameState = "game:state"
	ActionGameMove  = "game:move"
	ActionGameReset = "game:reset"
	ActionGameReact = "game:react"
	ActionGameEnded = "game:ended"
	ActionError     = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type MovePayload struct {
	Index    int    `json:"index"`
	PhotoRef string `json:"photoRef"`
}

type ReactPayload struct {
	Index int    `json:"index"`
	Emoji string `json:"emoji"`
}

type ErrorPayload struct {
	Action  string `json:"action,omitempty"`
	Message string `json:"message"`
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}
