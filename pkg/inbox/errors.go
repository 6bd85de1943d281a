package inbox

import "errors"

var (
	// ErrNotFound is returned when a notification does not exist for the user.
	ErrNotFound = errors.New("inbox notification not found")

	// ErrIDRequired is returned when a notification is created without an ID.
	ErrIDRequired = errors.New("notification ID is required")

	// ErrUserIDRequired is returned when a notification has no owner.
	ErrUserIDRequired = errors.New("user ID is required")
)
