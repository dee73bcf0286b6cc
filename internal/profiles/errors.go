package profiles

import (
	"errors"
	"strings"

	"resume-builder/internal/shared/validation"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")

	ErrInvalidJSON      = errors.New("Invalid JSON file")
	ErrInvalidStructure = errors.New("Invalid profile data structure")
)

// ValidationError carries per-field failures; it matches ErrInvalidInput.
type ValidationError struct {
	Fields []validation.FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" ("+f.Rule+")")
	}
	return "invalid profile: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
