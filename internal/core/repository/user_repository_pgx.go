package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/duynhne/members-web/internal/core/domain"
)

// PgxUserRepository implements domain.UserRepository using pgxpool.
// User documents live in a JSONB column and are addressed by field, so the
// stored shape is exactly what signup submitted.
type PgxUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PgxUserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PgxUserRepository {
	return &PgxUserRepository{pool: pool}
}

// Create inserts a new user document and returns the generated row id.
func (r *PgxUserRepository) Create(ctx context.Context, doc domain.UserDoc) (int64, error) {
	query := `INSERT INTO users (doc) VALUES ($1) RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, query, doc).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}

	return id, nil
}

// GetByEmail returns the first user document whose email field matches.
// Returns (nil, nil) when no user is found.
func (r *PgxUserRepository) GetByEmail(ctx context.Context, email string) (*domain.UserRecord, error) {
	query := `SELECT id, doc FROM users WHERE doc->>'email' = $1 ORDER BY id LIMIT 1`

	var rec domain.UserRecord
	err := r.pool.QueryRow(ctx, query, email).Scan(&rec.ID, &rec.Doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by email: %w", err)
	}

	return &rec, nil
}

// FindByUsername returns every document whose "username" field equals the
// given value, projected to {username, password, id}. Signup writes a "name"
// field, so documents created through this application never match.
func (r *PgxUserRepository) FindByUsername(ctx context.Context, username string) ([]domain.MemberRow, error) {
	query := `
		SELECT doc->>'username', COALESCE(doc->>'password', ''), id
		FROM users
		WHERE doc->>'username' = $1
	`

	rows, err := r.pool.Query(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("query users by username: %w", err)
	}
	defer rows.Close()

	var out []domain.MemberRow
	for rows.Next() {
		var row domain.MemberRow
		if err := rows.Scan(&row.Username, &row.Password, &row.ID); err != nil {
			return nil, fmt.Errorf("scan member row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate member rows: %w", err)
	}

	return out, nil
}
