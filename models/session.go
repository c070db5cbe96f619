package models

import "time"

// State is the step of a conversation a user is in. The idle state is never
// stored: a user without a Session is idle.
type State string

const (
	StateWaitingUsername           State = "waiting_username"
	StateWaitingPassword           State = "waiting_password"
	StateWaitingQuickCheckUsername State = "waiting_quick_check_username"
	StateWaitingQuickCheckPassword State = "waiting_quick_check_password"
)

// PendingCredential holds the half of a login pair collected so far.
type PendingCredential struct {
	Username string `json:"username"`
}

// Session struct for storing conversation state
type Session struct {
	UserID    int64              `json:"user_id"`
	State     State              `json:"state"`
	Data      *PendingCredential `json:"data,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}
