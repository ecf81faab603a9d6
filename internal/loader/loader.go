// Package loader provides request-scoped batch loaders. A loader is created
// per request, fetches all missing keys in one query, and is discarded with
// the request. Nothing is retained across requests.
package loader

import (
	"context"

	"github.com/moodsapp/moods-server/internal/domain"
)

type entryTagsSource interface {
	TagsForEntries(ctx context.Context, entryIDs []int64) (map[int64][]domain.Tag, error)
}

// EntryTags batches entry→tag lookups for the entries rendered in one page.
type EntryTags struct {
	source entryTagsSource
	cache  map[int64][]domain.Tag
}

func NewEntryTags(source entryTagsSource) *EntryTags {
	return &EntryTags{source: source, cache: make(map[int64][]domain.Tag)}
}

// LoadMany returns the tags for every requested entry, querying the store
// once for the ids not yet cached. Entries without tags map to an empty slice.
func (l *EntryTags) LoadMany(ctx context.Context, entryIDs []int64) (map[int64][]domain.Tag, error) {
	var missing []int64
	for _, id := range entryIDs {
		if _, ok := l.cache[id]; !ok {
			missing = append(missing, id)
		}
	}

	if len(missing) > 0 {
		fetched, err := l.source.TagsForEntries(ctx, missing)
		if err != nil {
			return nil, err
		}
		for _, id := range missing {
			tags, ok := fetched[id]
			if !ok {
				tags = []domain.Tag{}
			}
			l.cache[id] = tags
		}
	}

	result := make(map[int64][]domain.Tag, len(entryIDs))
	for _, id := range entryIDs {
		result[id] = l.cache[id]
	}
	return result, nil
}

type usersSource interface {
	FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
}

// Users batches user lookups by id.
type Users struct {
	source usersSource
	cache  map[string]*domain.User
}

func NewUsers(source usersSource) *Users {
	return &Users{source: source, cache: make(map[string]*domain.User)}
}

// LoadMany returns the users for every requested id that exists, querying the
// store once for ids not yet cached. Missing users are absent from the map.
func (l *Users) LoadMany(ctx context.Context, ids []string) (map[string]*domain.User, error) {
	var missing []string
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, ok := l.cache[id]; !ok {
			missing = append(missing, id)
		}
	}

	if len(missing) > 0 {
		users, err := l.source.FindByIDs(ctx, missing)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			l.cache[u.ID] = u
		}
		for _, id := range missing {
			if _, ok := l.cache[id]; !ok {
				l.cache[id] = nil
			}
		}
	}

	result := make(map[string]*domain.User, len(ids))
	for _, id := range ids {
		if u := l.cache[id]; u != nil {
			result[id] = u
		}
	}
	return result, nil
}
