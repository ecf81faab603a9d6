package domain

import (
	"errors"
	"time"
)

// ErrEntryNotFound covers both a missing entry and an already-archived one;
// callers cannot tell them apart.
var ErrEntryNotFound = errors.New("mood entry not found or already archived")

const (
	MinMood = 1
	MaxMood = 10
)

type MoodEntry struct {
	// IDs are assigned monotonically at insert, so descending id order
	// is also descending creation order.
	ID     int64
	UserID string
	Mood   int
	Notes  string

	// Delta is mood minus the same user's chronologically previous mood.
	// nil on the user's oldest entry, and on freshly created entries
	// (it is computed only by the list query).
	Delta *int

	CreatedAt  time.Time
	ArchivedAt *time.Time // nil means active
}
