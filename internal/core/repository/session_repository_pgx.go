package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/duynhne/members-web/internal/core/domain"
)

// PgxSessionRepository implements domain.SessionRepository using pgxpool.
type PgxSessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new PgxSessionRepository.
func NewSessionRepository(pool *pgxpool.Pool) *PgxSessionRepository {
	return &PgxSessionRepository{pool: pool}
}

// Upsert inserts the session row, replacing any existing row for the token.
func (r *PgxSessionRepository) Upsert(ctx context.Context, rec domain.SessionRecord) error {
	query := `
		INSERT INTO sessions (token, authenticated, username, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (token) DO UPDATE
		SET authenticated = EXCLUDED.authenticated,
		    username = EXCLUDED.username,
		    expires_at = EXCLUDED.expires_at
	`
	_, err := r.pool.Exec(ctx, query, rec.Token, rec.Authenticated, rec.Username, rec.ExpiresAt)
	return err
}

// GetByToken looks up a live session by token. Rows past their expiry are
// filtered out in the store itself.
// Returns (nil, nil) when the token does not match a live session.
func (r *PgxSessionRepository) GetByToken(ctx context.Context, token string) (*domain.SessionRecord, error) {
	query := `
		SELECT token, authenticated, username, expires_at
		FROM sessions
		WHERE token = $1 AND expires_at > now()
	`

	var rec domain.SessionRecord
	err := r.pool.QueryRow(ctx, query, token).Scan(
		&rec.Token, &rec.Authenticated, &rec.Username, &rec.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &rec, nil
}

// Touch slides the session expiry forward for a still-live session.
func (r *PgxSessionRepository) Touch(ctx context.Context, token string, expiresAt time.Time) error {
	query := `UPDATE sessions SET expires_at = $2 WHERE token = $1 AND expires_at > now()`
	_, err := r.pool.Exec(ctx, query, token, expiresAt)
	return err
}

// Delete removes the session row.
func (r *PgxSessionRepository) Delete(ctx context.Context, token string) error {
	query := `DELETE FROM sessions WHERE token = $1`
	_, err := r.pool.Exec(ctx, query, token)
	return err
}
