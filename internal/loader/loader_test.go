package loader_test

import (
	"context"
	"testing"

	"github.com/moodsapp/moods-server/internal/domain"
	"github.com/moodsapp/moods-server/internal/loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTagsSource struct {
	calls   int
	fetched [][]int64
	tags    map[int64][]domain.Tag
}

func (f *fakeTagsSource) TagsForEntries(_ context.Context, ids []int64) (map[int64][]domain.Tag, error) {
	f.calls++
	f.fetched = append(f.fetched, ids)
	result := make(map[int64][]domain.Tag)
	for _, id := range ids {
		if tags, ok := f.tags[id]; ok {
			result[id] = tags
		}
	}
	return result, nil
}

func TestEntryTagsBatchesIntoOneQuery(t *testing.T) {
	source := &fakeTagsSource{tags: map[int64][]domain.Tag{
		1: {{Name: "happy"}},
		2: {{Name: "tired"}, {Name: "work"}},
	}}
	l := loader.NewEntryTags(source)

	result, err := l.LoadMany(context.Background(), []int64{1, 2, 3})
	require.NoError(t, err)

	assert.Equal(t, 1, source.calls)
	assert.Len(t, result[1], 1)
	assert.Len(t, result[2], 2)
	assert.Empty(t, result[3]) // untagged entry still present, empty
}

func TestEntryTagsCachesAcrossCalls(t *testing.T) {
	source := &fakeTagsSource{tags: map[int64][]domain.Tag{1: {{Name: "happy"}}}}
	l := loader.NewEntryTags(source)

	_, err := l.LoadMany(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	_, err = l.LoadMany(context.Background(), []int64{1, 2, 3})
	require.NoError(t, err)

	// Second call only fetches the id it has not seen.
	require.Equal(t, 2, source.calls)
	assert.Equal(t, []int64{3}, source.fetched[1])
}

type fakeUsersSource struct {
	calls int
	users map[string]*domain.User
}

func (f *fakeUsersSource) FindByIDs(_ context.Context, ids []string) ([]*domain.User, error) {
	f.calls++
	var result []*domain.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			result = append(result, u)
		}
	}
	return result, nil
}

func TestUsersLoaderDeduplicatesAndCaches(t *testing.T) {
	source := &fakeUsersSource{users: map[string]*domain.User{
		"u1": {ID: "u1", Name: "Alice"},
	}}
	l := loader.NewUsers(source)

	result, err := l.LoadMany(context.Background(), []string{"u1", "u1", "missing"})
	require.NoError(t, err)
	assert.Equal(t, 1, source.calls)
	assert.Equal(t, "Alice", result["u1"].Name)
	_, ok := result["missing"]
	assert.False(t, ok)

	// Missing ids are negatively cached too.
	_, err = l.LoadMany(context.Background(), []string{"u1", "missing"})
	require.NoError(t, err)
	assert.Equal(t, 1, source.calls)
}
