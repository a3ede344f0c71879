package domain

import "context"

// UserDoc is the document written for each signup. Password holds the bcrypt
// hash, never the plaintext.
type UserDoc struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserRecord is a stored user document together with its row id.
type UserRecord struct {
	ID  int64
	Doc UserDoc
}

// MemberRow is the projection returned by the literal member lookup:
// the username and password fields of the document plus the row id.
type MemberRow struct {
	Username string
	Password string
	ID       int64
}

// UserRepository defines the data-access contract for user operations.
// Implementations live in internal/core/repository (Core layer).
// The Logic layer depends on this interface only — never on SQL or pgx directly.
type UserRepository interface {
	// Create inserts a new user document and returns the generated row id.
	// There is no duplicate check: two signups with the same email both
	// succeed.
	Create(ctx context.Context, doc UserDoc) (int64, error)

	// GetByEmail returns the first user document whose email field matches.
	// Returns (nil, nil) when no user is found.
	GetByEmail(ctx context.Context, email string) (*UserRecord, error)

	// FindByUsername returns every document whose "username" field equals
	// the given value. Callers must pass a pre-validated plain string, never
	// raw client input.
	FindByUsername(ctx context.Context, username string) ([]MemberRow, error)
}
