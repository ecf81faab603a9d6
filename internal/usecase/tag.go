package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/moodsapp/moods-server/internal/domain"
	"github.com/moodsapp/moods-server/internal/pagination"
	"github.com/moodsapp/moods-server/internal/repository"
)

type TagUsecase struct {
	tags repository.TagRepository
}

func NewTagUsecase(tags repository.TagRepository) *TagUsecase {
	return &TagUsecase{tags: tags}
}

type ListTagsInput struct {
	Search          string
	IncludeArchived bool
	First           int
	After           string
}

func (u *TagUsecase) List(ctx context.Context, input ListTagsInput) (pagination.Connection[*domain.Tag], error) {
	var zero pagination.Connection[*domain.Tag]

	limit := input.First
	if limit <= 0 {
		limit = DefaultPageSize
	}

	var afterName *string
	if input.After != "" {
		name, err := pagination.DecodeCursor(input.After)
		if err != nil {
			return zero, err
		}
		afterName = &name
	}

	rows, err := u.tags.List(ctx, repository.ListTagsInput{
		Search:          strings.ToLower(strings.TrimSpace(input.Search)),
		IncludeArchived: input.IncludeArchived,
		AfterName:       afterName,
		Limit:           limit + 1,
	})
	if err != nil {
		return zero, fmt.Errorf("list tags: %w", err)
	}

	return pagination.Build(rows, limit, func(t *domain.Tag) string { return t.Name }), nil
}

func (u *TagUsecase) UpdateMetadata(ctx context.Context, name string, metadata map[string]any) (*domain.Tag, error) {
	if metadata == nil {
		metadata = make(map[string]any)
	}
	return u.tags.UpdateMetadata(ctx, strings.ToLower(name), metadata)
}

func (u *TagUsecase) Archive(ctx context.Context, name string) (*domain.Tag, error) {
	return u.tags.SetArchived(ctx, strings.ToLower(name), true)
}

func (u *TagUsecase) Unarchive(ctx context.Context, name string) (*domain.Tag, error) {
	return u.tags.SetArchived(ctx, strings.ToLower(name), false)
}
