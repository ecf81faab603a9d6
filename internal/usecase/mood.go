package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/moodsapp/moods-server/internal/domain"
	"github.com/moodsapp/moods-server/internal/metrics"
	"github.com/moodsapp/moods-server/internal/pagination"
	"github.com/moodsapp/moods-server/internal/repository"
)

const DefaultPageSize = 25

type MoodUsecase struct {
	entries repository.EntryRepository
}

func NewMoodUsecase(entries repository.EntryRepository) *MoodUsecase {
	return &MoodUsecase{entries: entries}
}

type ListEntriesInput struct {
	UserIDs         []string
	IncludeArchived bool
	First           int    // 0 = default page size
	After           string // opaque cursor, "" = first page
}

func (u *MoodUsecase) List(ctx context.Context, input ListEntriesInput) (pagination.Connection[*domain.MoodEntry], error) {
	var zero pagination.Connection[*domain.MoodEntry]

	limit := input.First
	if limit <= 0 {
		limit = DefaultPageSize
	}

	var afterID *int64
	if input.After != "" {
		raw, err := pagination.DecodeCursor(input.After)
		if err != nil {
			return zero, err
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return zero, pagination.ErrInvalidCursor
		}
		afterID = &id
	}

	rows, err := u.entries.List(ctx, repository.ListEntriesInput{
		UserIDs:         input.UserIDs,
		IncludeArchived: input.IncludeArchived,
		AfterID:         afterID,
		Limit:           limit + 1,
	})
	if err != nil {
		return zero, fmt.Errorf("list mood entries: %w", err)
	}

	return pagination.Build(rows, limit, func(e *domain.MoodEntry) string {
		return strconv.FormatInt(e.ID, 10)
	}), nil
}

type LogMoodInput struct {
	UserID string
	Mood   int
	Notes  string
	Tags   []string
}

func (u *MoodUsecase) LogMood(ctx context.Context, input LogMoodInput) (*domain.MoodEntry, error) {
	entry := &domain.MoodEntry{
		UserID: input.UserID,
		Mood:   input.Mood,
		Notes:  input.Notes,
	}

	created, err := u.entries.Create(ctx, entry, canonicalTags(input.Tags))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("create mood entry: %w", err)
	}

	metrics.EntriesLoggedTotal.Inc()
	return created, nil
}

func (u *MoodUsecase) Archive(ctx context.Context, id int64) (*domain.MoodEntry, error) {
	archived, err := u.entries.Archive(ctx, id)
	if err != nil {
		return nil, err
	}
	metrics.EntriesArchivedTotal.Inc()
	return archived, nil
}

// canonicalTags lowercases, trims and deduplicates tag names, dropping
// empties. "Happy" and "HAPPY" collapse to a single "happy".
func canonicalTags(names []string) []string {
	seen := make(map[string]bool, len(names))
	result := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		result = append(result, name)
	}
	return result
}
