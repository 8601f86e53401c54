package models

import "time"

// Conversation is one logged question/answer exchange
type Conversation struct {
	ID        string    `json:"id" db:"id"`
	Endpoint  string    `json:"endpoint" db:"endpoint"` // "chat" or "ask"
	UserID    string    `json:"user_id,omitempty" db:"user_id"`
	Message   string    `json:"message" db:"message"`
	Response  string    `json:"response" db:"response"`
	Language  Language  `json:"language" db:"language"`
	Intent    Intent    `json:"intent" db:"intent"`
	Path      string    `json:"path" db:"path"`
	Provider  string    `json:"provider,omitempty" db:"provider"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
