package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/moodsapp/moods-server/internal/domain"
	"github.com/moodsapp/moods-server/internal/email"
	"github.com/moodsapp/moods-server/internal/metrics"
	"github.com/moodsapp/moods-server/internal/repository"
	"github.com/moodsapp/moods-server/internal/token"
)

type AuthUsecase struct {
	users   repository.UserRepository
	codes   repository.AuthCodeRepository
	email   email.Sender
	tokens  *token.Manager
	codeTTL time.Duration
	logger  *slog.Logger
}

func NewAuthUsecase(
	users repository.UserRepository,
	codes repository.AuthCodeRepository,
	emailSender email.Sender,
	tokens *token.Manager,
	codeTTL time.Duration,
	logger *slog.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		users:   users,
		codes:   codes,
		email:   emailSender,
		tokens:  tokens,
		codeTTL: codeTTL,
		logger:  logger.With("component", "auth_usecase"),
	}
}

// SendLoginCode generates, stores and emails a 6-digit login code. An
// unregistered email reports success without doing anything, so callers
// cannot probe which addresses exist.
func (u *AuthUsecase) SendLoginCode(ctx context.Context, emailAddr string) error {
	user, err := u.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("find user by email: %w", err)
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}

	expiresAt := time.Now().Add(u.codeTTL)
	if err := u.codes.Create(ctx, user.ID, code, expiresAt); err != nil {
		return fmt.Errorf("store login code: %w", err)
	}
	metrics.LoginCodesIssuedTotal.Inc()

	// Fire-and-forget: the caller's success must not depend on delivery.
	body := fmt.Sprintf("Your Moods login code is: %s", code)
	if err := u.email.Send(ctx, emailAddr, "Your Moods login code", body); err != nil {
		u.logger.ErrorContext(ctx, "send login code email", "error", err)
	}
	return nil
}

// VerifyLoginCode consumes a matching unused, unexpired code and mints a
// session token. Unknown emails and wrong, expired or already-used codes
// all surface as domain.ErrCodeInvalid.
func (u *AuthUsecase) VerifyLoginCode(ctx context.Context, emailAddr, code string) (string, *domain.User, error) {
	user, err := u.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginVerificationsTotal.WithLabelValues("rejected").Inc()
			return "", nil, domain.ErrCodeInvalid
		}
		return "", nil, fmt.Errorf("find user by email: %w", err)
	}

	if err := u.codes.Consume(ctx, user.ID, code, time.Now()); err != nil {
		if errors.Is(err, domain.ErrCodeInvalid) {
			metrics.LoginVerificationsTotal.WithLabelValues("rejected").Inc()
			return "", nil, domain.ErrCodeInvalid
		}
		return "", nil, fmt.Errorf("consume login code: %w", err)
	}

	signed, err := u.tokens.Mint(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("mint session token: %w", err)
	}

	metrics.LoginVerificationsTotal.WithLabelValues("accepted").Inc()
	return signed, user, nil
}

// generateCode returns a uniformly random zero-padded 6-digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
