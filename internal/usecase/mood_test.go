package usecase_test

import (
	"context"
	"errors"
	"reflect"
	"strconv"
	"testing"
	"time"

	"github.com/moodsapp/moods-server/internal/domain"
	"github.com/moodsapp/moods-server/internal/pagination"
	"github.com/moodsapp/moods-server/internal/repository"
	"github.com/moodsapp/moods-server/internal/usecase"
)

type fakeEntryRepo struct {
	create         func(ctx context.Context, entry *domain.MoodEntry, tags []string) (*domain.MoodEntry, error)
	list           func(ctx context.Context, input repository.ListEntriesInput) ([]*domain.MoodEntry, error)
	archive        func(ctx context.Context, id int64) (*domain.MoodEntry, error)
	tagsForEntries func(ctx context.Context, entryIDs []int64) (map[int64][]domain.Tag, error)
}

func (r *fakeEntryRepo) Create(ctx context.Context, entry *domain.MoodEntry, tags []string) (*domain.MoodEntry, error) {
	return r.create(ctx, entry, tags)
}

func (r *fakeEntryRepo) List(ctx context.Context, input repository.ListEntriesInput) ([]*domain.MoodEntry, error) {
	return r.list(ctx, input)
}

func (r *fakeEntryRepo) Archive(ctx context.Context, id int64) (*domain.MoodEntry, error) {
	return r.archive(ctx, id)
}

func (r *fakeEntryRepo) TagsForEntries(ctx context.Context, entryIDs []int64) (map[int64][]domain.Tag, error) {
	return r.tagsForEntries(ctx, entryIDs)
}

func entry(id int64, mood int, delta *int) *domain.MoodEntry {
	return &domain.MoodEntry{ID: id, UserID: "user-1", Mood: mood, Delta: delta, CreatedAt: time.Now()}
}

func intPtr(v int) *int { return &v }

// ---- List ----

func TestListEntries_FetchesLimitPlusOne(t *testing.T) {
	var captured repository.ListEntriesInput
	repo := &fakeEntryRepo{
		list: func(_ context.Context, input repository.ListEntriesInput) ([]*domain.MoodEntry, error) {
			captured = input
			return nil, nil
		},
	}

	_, err := usecase.NewMoodUsecase(repo).List(context.Background(), usecase.ListEntriesInput{First: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.Limit != 3 {
		t.Errorf("repo limit = %d, want first+1 = 3", captured.Limit)
	}
	if captured.AfterID != nil {
		t.Errorf("first page must have nil AfterID, got %v", *captured.AfterID)
	}
}

func TestListEntries_DefaultPageSize(t *testing.T) {
	var captured repository.ListEntriesInput
	repo := &fakeEntryRepo{
		list: func(_ context.Context, input repository.ListEntriesInput) ([]*domain.MoodEntry, error) {
			captured = input
			return nil, nil
		},
	}

	if _, err := usecase.NewMoodUsecase(repo).List(context.Background(), usecase.ListEntriesInput{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.Limit != usecase.DefaultPageSize+1 {
		t.Errorf("repo limit = %d, want %d", captured.Limit, usecase.DefaultPageSize+1)
	}
}

func TestListEntries_DecodesAfterCursor(t *testing.T) {
	var captured repository.ListEntriesInput
	repo := &fakeEntryRepo{
		list: func(_ context.Context, input repository.ListEntriesInput) ([]*domain.MoodEntry, error) {
			captured = input
			return nil, nil
		},
	}

	after := pagination.EncodeCursor("42")
	_, err := usecase.NewMoodUsecase(repo).List(context.Background(), usecase.ListEntriesInput{After: after})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.AfterID == nil || *captured.AfterID != 42 {
		t.Errorf("AfterID = %v, want 42", captured.AfterID)
	}
}

func TestListEntries_MalformedCursor(t *testing.T) {
	repo := &fakeEntryRepo{
		list: func(_ context.Context, _ repository.ListEntriesInput) ([]*domain.MoodEntry, error) {
			t.Error("repo must not be queried with a malformed cursor")
			return nil, nil
		},
	}

	for _, after := range []string{"!!!", pagination.EncodeCursor("not-a-number")} {
		_, err := usecase.NewMoodUsecase(repo).List(context.Background(), usecase.ListEntriesInput{After: after})
		if !errors.Is(err, pagination.ErrInvalidCursor) {
			t.Errorf("after=%q: want ErrInvalidCursor, got %v", after, err)
		}
	}
}

func TestListEntries_BuildsConnection(t *testing.T) {
	// Three rows back for first=2: page of two, next page exists.
	rows := []*domain.MoodEntry{
		entry(3, 3, intPtr(-5)),
		entry(2, 8, intPtr(3)),
		entry(1, 5, nil),
	}
	repo := &fakeEntryRepo{
		list: func(_ context.Context, _ repository.ListEntriesInput) ([]*domain.MoodEntry, error) {
			return rows, nil
		},
	}

	conn, err := usecase.NewMoodUsecase(repo).List(context.Background(), usecase.ListEntriesInput{First: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(conn.Edges) != 2 {
		t.Fatalf("edges = %d, want 2", len(conn.Edges))
	}
	if !conn.PageInfo.HasNextPage {
		t.Error("expected hasNextPage")
	}
	if got := conn.Edges[0].Node.ID; got != 3 {
		t.Errorf("first node id = %d, want 3", got)
	}
	if d := conn.Edges[0].Node.Delta; d == nil || *d != -5 {
		t.Errorf("first node delta = %v, want -5", d)
	}

	key, err := pagination.DecodeCursor(*conn.PageInfo.EndCursor)
	if err != nil {
		t.Fatalf("end cursor does not decode: %v", err)
	}
	if key != strconv.FormatInt(conn.Edges[1].Node.ID, 10) {
		t.Errorf("end cursor key = %q, want id of last edge", key)
	}
}

// ---- LogMood ----

func TestLogMood_CanonicalizesTags(t *testing.T) {
	var capturedTags []string
	repo := &fakeEntryRepo{
		create: func(_ context.Context, e *domain.MoodEntry, tags []string) (*domain.MoodEntry, error) {
			capturedTags = tags
			e.ID = 1
			return e, nil
		},
	}

	_, err := usecase.NewMoodUsecase(repo).LogMood(context.Background(), usecase.LogMoodInput{
		UserID: "user-1",
		Mood:   7,
		Tags:   []string{"Happy", "HAPPY", " sunny ", ""},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"happy", "sunny"}; !reflect.DeepEqual(capturedTags, want) {
		t.Errorf("tags = %v, want %v", capturedTags, want)
	}
}

func TestLogMood_UnknownUser(t *testing.T) {
	repo := &fakeEntryRepo{
		create: func(_ context.Context, _ *domain.MoodEntry, _ []string) (*domain.MoodEntry, error) {
			return nil, domain.ErrUserNotFound
		},
	}

	_, err := usecase.NewMoodUsecase(repo).LogMood(context.Background(), usecase.LogMoodInput{UserID: "ghost", Mood: 5})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("want ErrUserNotFound, got %v", err)
	}
}

// ---- Archive ----

func TestArchive_PassesThroughNotFound(t *testing.T) {
	repo := &fakeEntryRepo{
		archive: func(_ context.Context, _ int64) (*domain.MoodEntry, error) {
			return nil, domain.ErrEntryNotFound
		},
	}

	_, err := usecase.NewMoodUsecase(repo).Archive(context.Background(), 99)
	if !errors.Is(err, domain.ErrEntryNotFound) {
		t.Errorf("want ErrEntryNotFound, got %v", err)
	}
}
