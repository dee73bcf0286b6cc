package documents

import "errors"

var (
	ErrNotFound     = errors.New("document not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrTooLarge     = errors.New("file exceeds 10MB limit")
	ErrUnreadable   = errors.New("could not read text from document")
)
