// Package v1 provides the authentication business logic for the site.
//
// Error Handling:
// This package defines sentinel errors that represent common authentication failures.
// These errors should be wrapped with context using fmt.Errorf("%w") when returned
// from business logic methods.
//
// Error Checking (in handlers):
//
//	switch {
//	case errors.Is(err, logicv1.ErrInvalidCredentials), errors.Is(err, logicv1.ErrUserNotFound):
//	    // render the generic "Invalid email or password." page
//	default:
//	    // render a generic internal error page
//	}
package v1

import "errors"

// Sentinel errors for authentication operations.
// These errors should be wrapped with context using fmt.Errorf("%w") when returned.
var (
	// ErrInvalidCredentials indicates the provided password does not match.
	// Rendered identically to ErrUserNotFound so responses don't reveal
	// which of the two happened.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound indicates no user exists for the given email.
	ErrUserNotFound = errors.New("user not found")
)
