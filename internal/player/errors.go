package player

import "errors"

var (
	// ErrInvalidSpeed is returned for non-finite or non-positive speeds.
	ErrInvalidSpeed = errors.New("player: speed must be a positive finite number")
	// ErrSceneOutOfRange is returned when seeking past the loaded scenes.
	ErrSceneOutOfRange = errors.New("player: scene index out of range")
)
