// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
//
// The target importer also uses it row by row and reads the collected
// [apperr.FieldError] values directly through [Validator.Errors].
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/taibuivan/lettertool/internal/platform/apperr"
)

var (
	// uuidRegex matches a UUIDv4 or UUIDv7 string.
	uuidRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

	// looseEmailRegex is the permissive something@something.tld shape
	// accepted for imported recipients.
	looseEmailRegex = regexp.MustCompile(`.+@.+\..+`)

	// ErrInvalidJSON is returned when the request body cannot be decoded.
	ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")
)

// LooksLikeEmail reports whether value has the permissive local@domain.tld shape.
func LooksLikeEmail(value string) bool {
	return looseEmailRegex.MatchString(strings.TrimSpace(value))
}

// Validator collects field-level validation errors via a fluent, chainable API.
//
// Validator is not safe for concurrent use. Create one per operation.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "This field is required")
	}
	return v
}

// MaxLen fails if the Unicode character count exceeds max.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("Maximum %d characters", max))
	}
	return v
}

// LooseEmail fails unless the trimmed value has the shape local@domain.tld.
// Empty values are left to [Validator.Required].
func (v *Validator) LooseEmail(field, value string) *Validator {
	trimmed := strings.TrimSpace(value)
	if trimmed != "" && !looseEmailRegex.MatchString(trimmed) {
		v.add(field, "Must be a valid email address")
	}
	return v
}

// FloatRange fails if a non-empty value is not a number within [min, max].
func (v *Validator) FloatRange(field, value string, min, max float64) *Validator {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return v
	}
	number, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		v.add(field, "Must be a number")
		return v
	}
	if number < min || number > max {
		v.add(field, fmt.Sprintf("Must be between %g and %g", min, max))
	}
	return v
}

// UUID fails if the value is not a valid UUID string (case-insensitive).
func (v *Validator) UUID(field, value string) *Validator {
	if !uuidRegex.MatchString(strings.ToLower(value)) {
		v.add(field, "Must be a valid UUID")
	}
	return v
}

// OneOf fails if the value is not in the allowed set of strings.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.add(field, fmt.Sprintf("Must be one of: %s", strings.Join(allowed, ", ")))
	return v
}

// Custom adds a failure with a custom message if the condition is true.
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Err returns a VALIDATION_ERROR [apperr.AppError] if any rule failed, or nil.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

// HasErrors reports whether any validation rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

// Errors returns the collected failures in the order they were added.
func (v *Validator) Errors() []apperr.FieldError {
	return v.errs
}

func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}
