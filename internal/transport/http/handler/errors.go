package handler

const (
	errInternalServer = "Internal server error"
	errEntryNotFound  = "Mood entry not found or already archived"
	errTagNotFound    = "Tag not found"
	errUserNotFound   = "User not found"
	errDuplicateEmail = "User with this email already exists"
	errInvalidCursor  = "Invalid pagination cursor"
	errCodeInvalid    = "Invalid or expired code"
)
