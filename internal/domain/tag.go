package domain

import (
	"errors"
	"time"
)

// ErrTagNotFound is returned when a tag is absent or fails an archive
// precondition (already archived / not archived). The distinction is not
// surfaced to callers.
var ErrTagNotFound = errors.New("tag not found")

// Tag names are canonical lowercase and act as the primary key.
type Tag struct {
	Name       string
	Metadata   map[string]any
	ArchivedAt *time.Time // nil means active
}
