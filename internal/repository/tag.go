package repository

import (
	"context"

	"github.com/moodsapp/moods-server/internal/domain"
)

type ListTagsInput struct {
	Search          string // empty = no search filter
	IncludeArchived bool
	AfterName       *string // nil = first page; otherwise exclusive lower bound on name
	Limit           int     // page size + 1
}

type TagRepository interface {
	// List returns tags ordered by name ascending. A non-empty Search matches
	// substrings and near-miss spellings.
	List(ctx context.Context, input ListTagsInput) ([]*domain.Tag, error)

	// UpdateMetadata replaces the metadata map wholesale.
	UpdateMetadata(ctx context.Context, name string, metadata map[string]any) (*domain.Tag, error)

	// SetArchived archives (true) or unarchives (false) a tag. Fails with
	// domain.ErrTagNotFound when the tag is absent or already in the requested
	// state.
	SetArchived(ctx context.Context, name string, archived bool) (*domain.Tag, error)
}
