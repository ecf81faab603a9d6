package repository

import (
	"context"

	"github.com/moodsapp/moods-server/internal/domain"
)

type ListEntriesInput struct {
	UserIDs         []string // empty = all users
	IncludeArchived bool
	AfterID         *int64 // nil = first page; otherwise exclusive upper bound on id
	Limit           int    // callers pass page size + 1 for next-page detection
}

// Usecases depend on the interface, not the pgx implementation, so tests can
// inject fakes and the store can be swapped without touching them.
type EntryRepository interface {
	// Create inserts the entry and attaches tags in one transaction. Tag names
	// must already be canonicalized; missing tags are created and duplicate
	// attachments are ignored. Returns domain.ErrUserNotFound when userID does
	// not reference an existing user.
	Create(ctx context.Context, entry *domain.MoodEntry, tags []string) (*domain.MoodEntry, error)

	// List returns entries newest-first with Delta annotated. Delta is computed
	// over each user's full history before any filter or limit applies.
	List(ctx context.Context, input ListEntriesInput) ([]*domain.MoodEntry, error)

	// Archive stamps archived_at if currently null. Returns
	// domain.ErrEntryNotFound for a missing or already-archived entry.
	Archive(ctx context.Context, id int64) (*domain.MoodEntry, error)

	// TagsForEntries fetches the tags of many entries in one query, keyed by
	// entry id. Entries without tags are absent from the map.
	TagsForEntries(ctx context.Context, entryIDs []int64) (map[int64][]domain.Tag, error)
}
