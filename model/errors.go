package model

import "errors"

var (
	// ErrNoteNotFound signals that a referenced note id is absent from the note store
	ErrNoteNotFound = errors.New("note not found")
	// ErrInvalidInput signals input outside the allowed range, like a
	// zero-magnitude embedding or an out-of-range traversal depth
	ErrInvalidInput = errors.New("invalid input")
)
