package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/moodsapp/moods-server/internal/domain"
)

type AuthCodeRepository struct {
	pool *pgxpool.Pool
}

func NewAuthCodeRepository(pool *pgxpool.Pool) *AuthCodeRepository {
	return &AuthCodeRepository{pool: pool}
}

func (r *AuthCodeRepository) Create(ctx context.Context, userID, code string, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO auth_codes (user_id, code, expires_at)
		VALUES ($1, $2, $3)`, userID, code, expiresAt)
	if err != nil {
		return fmt.Errorf("create auth code: %w", err)
	}
	return nil
}

// Consume claims any one matching unused, unexpired code. FOR UPDATE SKIP
// LOCKED makes the claim race-safe: two concurrent verifications of the same
// code cannot both see used_at IS NULL, so at most one wins.
func (r *AuthCodeRepository) Consume(ctx context.Context, userID, code string, now time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE auth_codes
		SET    used_at = $3
		WHERE  id = (
			SELECT id FROM auth_codes
			WHERE  user_id    = $1
			  AND  code       = $2
			  AND  used_at    IS NULL
			  AND  expires_at > $3
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)`, userID, code, now)
	if err != nil {
		return fmt.Errorf("consume auth code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCodeInvalid
	}
	return nil
}
