package entity

import "errors"

// Domain errors
var (
	// Corpus errors
	ErrCorpusLoad = errors.New("cannot load FAQ corpus")

	// Validation errors
	ErrMissingField   = errors.New("required field is missing")
	ErrInvalidFormat  = errors.New("invalid format")
	ErrMessageTooLong = errors.New("message too long")
)
