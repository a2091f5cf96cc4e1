package model

import "time"

// SessionData contains the data stored with a session token.
type SessionData struct {
	AccountID string    `json:"account_id"`
	Email     string    `json:"email"`
	UserType  string    `json:"user_type"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
