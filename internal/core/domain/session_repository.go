package domain

import (
	"context"
	"time"
)

// SessionRecord is a server-side session row keyed by its opaque token.
// Authenticated flips to true only after a successful signup or login.
type SessionRecord struct {
	Token         string
	Authenticated bool
	Username      string
	ExpiresAt     time.Time
}

// SessionRepository defines the data-access contract for session operations.
// Implementations live in internal/core/repository (Core layer).
type SessionRepository interface {
	// Upsert inserts the session row, or replaces it when the token already
	// exists.
	Upsert(ctx context.Context, rec SessionRecord) error

	// GetByToken looks up a live session by token. Expired rows are treated
	// as absent: expiry is enforced by the store, not the caller.
	// Returns (nil, nil) when the token does not match a live session.
	GetByToken(ctx context.Context, token string) (*SessionRecord, error)

	// Touch slides the session expiry forward. Touching an absent or expired
	// session is a no-op.
	Touch(ctx context.Context, token string, expiresAt time.Time) error

	// Delete removes the session row. Deleting an absent token is a no-op.
	Delete(ctx context.Context, token string) error
}
