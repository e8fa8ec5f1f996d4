package validators

import (
	"errors"
	"strings"
)

var (
	// ErrValidationFailed is wrapped by every *ValidationError.
	ErrValidationFailed = errors.New("validation failed")
	// ErrUnsupportedType is returned for values that are not structs.
	ErrUnsupportedType = errors.New("unsupported type for validation")
)

// Violation describes one failed rule on one field.
type Violation struct {
	// Field is the JSON name of the offending field.
	Field string
	// Rule is the validate tag that failed (e.g. "required", "max").
	Rule string
}

// ValidationError lists every rule violated by a value.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Rule)
	}
	return ErrValidationFailed.Error() + ": " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// HasViolation reports whether err is a *ValidationError containing a
// violation of rule. When fields are given, only those fields are considered.
func HasViolation(err error, rule string, fields ...string) bool {
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		return false
	}

	for _, v := range vErr.Violations {
		if v.Rule != rule {
			continue
		}
		if len(fields) == 0 {
			return true
		}
		for _, f := range fields {
			if v.Field == f {
				return true
			}
		}
	}

	return false
}
