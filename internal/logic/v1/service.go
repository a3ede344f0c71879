package v1

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/members-web/internal/core/domain"
	"github.com/duynhne/members-web/middleware"
)

// AuthService implements signup and login business rules.
// It depends on repository interfaces (injected via constructor) and
// MUST NOT access the database or SQL directly.
type AuthService struct {
	users domain.UserRepository
}

// NewAuthService creates a new AuthService with the given repository dependency.
func NewAuthService(users domain.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// SignUp hashes the password and stores the new user document, returning the
// name to greet the session with. Validation has already happened at the
// route boundary; no duplicate-email check is performed here.
func (s *AuthService) SignUp(ctx context.Context, req domain.SignupRequest) (string, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.signup", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("email", req.Email),
	))
	defer span.End()

	passwordHash, err := HashPassword(req.Password)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("hash password: %w", err)
	}

	doc := domain.UserDoc{
		Name:     req.Name,
		Email:    req.Email,
		Password: passwordHash,
	}
	if _, err := s.users.Create(ctx, doc); err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("insert user: %w", err)
	}

	span.AddEvent("user.registered")
	return req.Name, nil
}

// Login verifies the email/password pair and returns the stored name on
// success. Unknown email and wrong password surface as distinct sentinels so
// callers can log them apart, but both must render the same generic response.
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (string, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.login", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("email", req.Email),
	))
	defer span.End()

	rec, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("query user %q: %w", req.Email, err)
	}
	if rec == nil {
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return "", fmt.Errorf("authenticate %q: %w", req.Email, ErrUserNotFound)
	}

	if !CheckPassword(req.Password, rec.Doc.Password) {
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return "", fmt.Errorf("authenticate %q: %w", req.Email, ErrInvalidCredentials)
	}

	span.SetAttributes(attribute.Bool("auth.success", true))
	span.AddEvent("user.authenticated")
	return rec.Doc.Name, nil
}

// LookupMembers runs the literal username lookup backing /nosql-injection.
// The argument must already have passed the plain-string query guard.
func (s *AuthService) LookupMembers(ctx context.Context, username string) ([]domain.MemberRow, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.lookup_members", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	rows, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("lookup members: %w", err)
	}

	span.SetAttributes(attribute.Int("result.count", len(rows)))
	return rows, nil
}
