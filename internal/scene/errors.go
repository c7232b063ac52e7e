package scene

import "errors"

var (
	// ErrEmptyDeck is returned when a deck file holds no scenes.
	ErrEmptyDeck = errors.New("scene: deck has no scenes")

	// ErrUnsupportedVersion is returned for deck versions this package cannot read.
	ErrUnsupportedVersion = errors.New("scene: unsupported deck version")
)
