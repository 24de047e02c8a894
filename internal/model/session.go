package model

import "time"

// SessionState is what survives a restart when a session file is configured.
type SessionState struct {
	LR0       float64   `json:"lr0"`
	Updates   int       `json:"updates"`
	UpdatedAt time.Time `json:"updated_at"`
}
