package profiles

import "resume-builder/internal/shared/validation"

// Validate checks contact formats and that every entry has an id.
func Validate(p ProfileData) error {
	if errs := validation.Struct(p); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
