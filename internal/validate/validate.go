// Package validate turns binding failures into user-facing messages and
// guards query parameters against injection via type confusion.
package validate

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
)

// maxQueryLen bounds the literal lookup value on /nosql-injection.
const maxQueryLen = 20

// Sentinel errors for the plain-string query guard.
var (
	// ErrMissingParam indicates the query parameter was absent or empty.
	ErrMissingParam = errors.New("query parameter missing")

	// ErrNotPlainString indicates the parameter arrived as a structured
	// value (operator-shaped key or repeated parameter) rather than a
	// single literal string.
	ErrNotPlainString = errors.New("query parameter is not a plain string")

	// ErrTooLong indicates the parameter exceeds the allowed length.
	ErrTooLong = errors.New("query parameter too long")
)

// FirstViolation maps a gin binding error to the message for the first
// failing field, phrased the way the signup page reports it.
func FirstViolation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid form submission"
	}

	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", field)
	case "email":
		return fmt.Sprintf("%q must be a valid email", field)
	case "max":
		return fmt.Sprintf("%q length must be less than or equal to %s characters long", field, fe.Param())
	case "min":
		return fmt.Sprintf("%q length must be at least %s characters long", field, fe.Param())
	default:
		return fmt.Sprintf("%q is invalid", field)
	}
}

// PlainQueryValue extracts query[key] only when it is a single literal string
// of at most 20 characters.
//
// A parameter like user[$ne]=x arrives with the bracketed operator in the key
// itself. If such a value were forwarded, a document-store lookup could
// interpret the sub-object as a comparison operator instead of a literal, so
// any structured shape is rejected before the data layer is reached.
func PlainQueryValue(query url.Values, key string) (string, error) {
	prefix := key + "["
	for rawKey := range query {
		if strings.HasPrefix(rawKey, prefix) {
			return "", fmt.Errorf("operator-shaped key %q: %w", rawKey, ErrNotPlainString)
		}
	}

	vals := query[key]
	if len(vals) == 0 || vals[0] == "" {
		return "", ErrMissingParam
	}
	if len(vals) > 1 {
		return "", fmt.Errorf("repeated parameter %q: %w", key, ErrNotPlainString)
	}
	if len(vals[0]) > maxQueryLen {
		return "", fmt.Errorf("value of %q: %w", key, ErrTooLong)
	}

	return vals[0], nil
}
