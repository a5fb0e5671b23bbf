package session

import "errors"

var (
	// ErrSessionEnded indicates that the session already has an outcome.
	ErrSessionEnded = errors.New("session has ended")

	// ErrSessionNotFound indicates that no running session has the id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrTooManySessions indicates that the manager is at capacity.
	ErrTooManySessions = errors.New("too many concurrent sessions")

	// ErrUnknownSystem indicates that the system id is not one of the four desks.
	ErrUnknownSystem = errors.New("unknown system")

	// ErrEventNotFound indicates that no active incident has the id.
	ErrEventNotFound = errors.New("event not found")

	// ErrOptionNotFound indicates that the incident has no option with the id.
	ErrOptionNotFound = errors.New("option not found")

	// ErrInvalidConfig indicates that a session cannot be built from its config.
	ErrInvalidConfig = errors.New("invalid session configuration")
)
