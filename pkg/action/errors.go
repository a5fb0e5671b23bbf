package action

import "errors"

var (
	ErrRollbackNotSupported = errors.New("rollback not supported for this action")
	ErrActionNotFound       = errors.New("action not found in registry")
	ErrInvalidConfig        = errors.New("invalid action configuration")
	ErrMissingPlayerContext = errors.New("missing player context")

	// ErrMaxRetriesExceeded wraps the last error of an action whose retry
	// policy ran out.
	ErrMaxRetriesExceeded = errors.New("maximum retry attempts exceeded")
)

// permanent reports errors that no retry can fix.
func permanent(err error) bool {
	return errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrMissingPlayerContext) ||
		errors.Is(err, ErrRollbackNotSupported)
}
