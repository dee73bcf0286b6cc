package analyses

import "errors"

var (
	ErrNotFound = errors.New("analysis not found")
	// ErrInvalidInput covers missing job descriptions and unknown sections.
	ErrInvalidInput = errors.New("invalid input")
	// ErrIncompleteProfile means a tailored profile came back without personalInfo or workExperience.
	ErrIncompleteProfile = errors.New("invalid profile structure returned from model")
)
