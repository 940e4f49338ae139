package domain

import "errors"

var (
	// ErrEmptyCorpus is returned when fitting sees no documents or no term
	// survives vocabulary pruning.
	ErrEmptyCorpus = errors.New("empty corpus")

	// ErrOutOfRange is returned for a document position outside the index.
	ErrOutOfRange = errors.New("document position out of range")

	ErrInvalidParameter = errors.New("invalid parameter")

	ErrIndexNotFound = errors.New("index not found")
)
