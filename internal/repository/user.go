package repository

import (
	"context"

	"github.com/moodsapp/moods-server/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, name, email string) (*domain.User, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByIDs batches lookups for the per-request loader. Missing ids are
	// simply absent from the result.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateSettings(ctx context.Context, id string, settings map[string]any) (*domain.User, error)
	Archive(ctx context.Context, id string) (*domain.User, error)
}
