package entity

import "time"

// MatchRecord is one persisted summary of a finished match.
type MatchRecord struct {
	ID         int64     `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	Winner     Winner    `json:"winner"`
	MovesCount int       `json:"moves_count"`
	Board      Board     `json:"board"`
}

// Profile holds local display preferences for a player slot.
type Profile struct {
	Name      string `json:"name"`
	Color     string `json:"color,omitempty"`
	AvatarURI string `json:"avatarUri,omitempty"`
}
