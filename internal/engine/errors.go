package engine

import "errors"

// Transition errors. Handlers map these to HTTP status codes with
// errors.Is; transitions that fail leave simulation state untouched.
var (
	// ErrNotFound: an operation referenced an unknown concept id.
	ErrNotFound = errors.New("concept not found")

	// ErrDuplicateID: AddConcept referenced an id that already exists.
	ErrDuplicateID = errors.New("concept id already exists")

	// ErrInvalidInput: a required field was missing or malformed.
	ErrInvalidInput = errors.New("invalid input")
)
