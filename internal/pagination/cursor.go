package pagination

import (
	"encoding/base64"
	"errors"
)

// ErrInvalidCursor marks a pagination token the client mangled; handlers map
// it to a 400, never a 500.
var ErrInvalidCursor = errors.New("invalid cursor")

// EncodeCursor wraps a sort-key value (an entry id or a tag name) in an
// opaque token. Clients must treat the result as a black box.
func EncodeCursor(value string) string {
	return base64.StdEncoding.EncodeToString([]byte(value))
}

// DecodeCursor recovers the sort-key value from a token produced by
// EncodeCursor. DecodeCursor(EncodeCursor(v)) == v for every v.
func DecodeCursor(cursor string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return "", ErrInvalidCursor
	}
	return string(raw), nil
}
