package repository

import (
	"context"
	"time"
)

type AuthCodeRepository interface {
	Create(ctx context.Context, userID, code string, expiresAt time.Time) error

	// Consume marks a matching unused, unexpired code as used. The update is
	// conditional so that at most one of several concurrent verifications of
	// the same code can win; losers get domain.ErrCodeInvalid.
	Consume(ctx context.Context, userID, code string, now time.Time) error
}
