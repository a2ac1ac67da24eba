package models

import "errors"

var (
	ErrNotFound = errors.New("task not found")

	// ErrStoreUnavailable wraps connectivity failures reported by Ping.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ValidationError reports a task field that failed a required or length check.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func TitleRequired() *ValidationError {
	return &ValidationError{Field: "title", Message: "Title is required"}
}

func TitleTooLong() *ValidationError {
	return &ValidationError{Field: "title", Message: "Title must be at most 200 characters"}
}

// ValidateTitle checks a title for creation. Length is counted in characters.
func ValidateTitle(title string) error {
	if title == "" {
		return TitleRequired()
	}
	return ValidateTitleLength(title)
}

func ValidateTitleLength(title string) error {
	if len([]rune(title)) > MaxTitleLength {
		return TitleTooLong()
	}
	return nil
}
