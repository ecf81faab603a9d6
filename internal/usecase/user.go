package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/moodsapp/moods-server/internal/domain"
	"github.com/moodsapp/moods-server/internal/repository"
)

type UserUsecase struct {
	users repository.UserRepository
}

func NewUserUsecase(users repository.UserRepository) *UserUsecase {
	return &UserUsecase{users: users}
}

func (u *UserUsecase) List(ctx context.Context, includeArchived bool) ([]*domain.User, error) {
	users, err := u.users.List(ctx, includeArchived)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (u *UserUsecase) Create(ctx context.Context, name, email string) (*domain.User, error) {
	user, err := u.users.Create(ctx, name, email)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (u *UserUsecase) UpdateSettings(ctx context.Context, id string, settings map[string]any) (*domain.User, error) {
	if settings == nil {
		settings = make(map[string]any)
	}
	return u.users.UpdateSettings(ctx, id, settings)
}

func (u *UserUsecase) Archive(ctx context.Context, id string) (*domain.User, error) {
	return u.users.Archive(ctx, id)
}
