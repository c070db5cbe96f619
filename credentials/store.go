// Package credentials persists the one login pair each chat user may save.
//
// Reads never fail: a backend error is logged and reported as "no saved
// credentials" so the user can simply enter them again. Writes and deletes
// return a *StoreError because pretending they succeeded would lie about
// what is stored.
package credentials

import (
	"context"
	"fmt"
	"time"

	"ecapbot/models"
)

// TTL is the absolute lifetime of a saved credential, refreshed on every save.
const TTL = 30 * 24 * time.Hour

// opTimeout bounds every backend call.
const opTimeout = 5 * time.Second

// Store is the credential persistence boundary used by the bot.
type Store interface {
	Save(ctx context.Context, userID int64, username, password string) error
	// Get reports false when nothing usable is stored or the backend failed.
	Get(ctx context.Context, userID int64) (*models.Credential, bool)
	// TouchLastUsed is best effort and only logs failures.
	TouchLastUsed(ctx context.Context, userID int64)
	Delete(ctx context.Context, userID int64) error
	Ping(ctx context.Context) error
	Close() error
}

// StoreError reports a failed write or delete.
type StoreError struct {
	Op     string
	UserID int64
	Err    error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("credential store %s for user %d: %v", e.Op, e.UserID, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// UserMessage is safe to show in the chat.
func (e *StoreError) UserMessage() string {
	switch e.Op {
	case "delete":
		return "Could not remove your saved credentials right now. Please try again later."
	default:
		return "Could not save your credentials right now. Please try again later."
	}
}
