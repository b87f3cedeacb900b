package app

import "errors"

var (
	// ErrInvalidInput wraps every validation failure.
	ErrInvalidInput = errors.New("invalid input")
	// ErrProfileNotFound indicates that the user has not saved a health profile yet.
	ErrProfileNotFound = errors.New("profile not found")
)

// ErrNoWeights indicates that an operation needs at least one weigh-in.
var ErrNoWeights = errors.New("no weight recorded yet")
