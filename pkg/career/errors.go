package career

import "errors"

var (
	// ErrUnknownUpgrade indicates that the upgrade id is not in the catalog.
	ErrUnknownUpgrade = errors.New("unknown upgrade")

	// ErrAlreadyUnlocked indicates that the upgrade was bought before.
	ErrAlreadyUnlocked = errors.New("upgrade already unlocked")

	// ErrInsufficientPoints indicates that the career cannot afford the upgrade.
	ErrInsufficientPoints = errors.New("insufficient career points")
)
