package validation

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"
)

// FieldError is one failed check. Its message reads "Struct.Field: reason".
type FieldError struct {
	Struct string
	Field  string
	Reason string
	Err    error // set by Custom
}

func (e *FieldError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %v", e.Struct, e.Field, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Struct, e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Path is the dotted field name, such as "Config.Data.Threshold".
func (e *FieldError) Path() string { return e.Struct + "." + e.Field }

// ConfigValidator chains field checks and collects every failure instead of
// stopping at the first.
type ConfigValidator struct {
	name   string
	errors []error
}

// NewConfigValidator starts a chain for the struct called name.
func NewConfigValidator(name string) *ConfigValidator {
	return &ConfigValidator{name: name}
}

func (cv *ConfigValidator) fail(field, format string, args ...any) *ConfigValidator {
	cv.errors = append(cv.errors, &FieldError{Struct: cv.name, Field: field, Reason: fmt.Sprintf(format, args...)})
	return cv
}

// Required rejects an empty string.
func (cv *ConfigValidator) Required(field, value string) *ConfigValidator {
	if value != "" {
		return cv
	}
	return cv.fail(field, "required field is empty")
}

// RangeInt checks min <= value <= max.
func (cv *ConfigValidator) RangeInt(field string, value, min, max int) *ConfigValidator {
	if value >= min && value <= max {
		return cv
	}
	return cv.fail(field, "value %d is outside range [%d, %d]", value, min, max)
}

// PositiveFloat checks value > 0. NaN fails.
func (cv *ConfigValidator) PositiveFloat(field string, value float64) *ConfigValidator {
	if value > 0 {
		return cv
	}
	return cv.fail(field, "value %g must be positive", value)
}

// RangeFloat checks min <= value <= max. NaN fails.
func (cv *ConfigValidator) RangeFloat(field string, value, min, max float64) *ConfigValidator {
	if value >= min && value <= max {
		return cv
	}
	return cv.fail(field, "value %g is outside range [%g, %g]", value, min, max)
}

// LessFloat checks a pair of bounds such as a minimum and maximum radius.
func (cv *ConfigValidator) LessFloat(loField string, lo float64, hiField string, hi float64) *ConfigValidator {
	if lo < hi {
		return cv
	}
	return cv.fail(loField, "value %g must be below %s (%g)", lo, hiField, hi)
}

// MinDuration checks value >= min.
func (cv *ConfigValidator) MinDuration(field string, value, min time.Duration) *ConfigValidator {
	if value >= min {
		return cv
	}
	return cv.fail(field, "duration %v is below minimum %v", value, min)
}

// OneOf checks value against a fixed list.
func (cv *ConfigValidator) OneOf(field, value string, allowed []string) *ConfigValidator {
	if slices.Contains(allowed, value) {
		return cv
	}
	return cv.fail(field, "value %q must be one of %v", value, allowed)
}

// Custom records fn's error, wrapped, against field.
func (cv *ConfigValidator) Custom(field string, fn func() error) *ConfigValidator {
	if err := fn(); err != nil {
		cv.errors = append(cv.errors, &FieldError{Struct: cv.name, Field: field, Err: err})
	}
	return cv
}

// When runs validations only if condition holds.
func (cv *ConfigValidator) When(condition bool, validations func(*ConfigValidator)) *ConfigValidator {
	if condition {
		validations(cv)
	}
	return cv
}

func (cv *ConfigValidator) HasErrors() bool {
	return len(cv.errors) > 0
}

// Error returns the first failure, or nil.
func (cv *ConfigValidator) Error() error {
	if len(cv.errors) == 0 {
		return nil
	}
	return cv.errors[0]
}

func (cv *ConfigValidator) Errors() []error {
	return cv.errors
}

// Validate joins every failure into one error. A single failure is returned
// as is.
func (cv *ConfigValidator) Validate() error {
	switch len(cv.errors) {
	case 0:
		return nil
	case 1:
		return cv.errors[0]
	}
	return fmt.Errorf("%s validation failed with %d errors: %w", cv.name, len(cv.errors), errors.Join(cv.errors...))
}

// FailedFields lists the dotted paths of the fields err reports, in order.
func FailedFields(err error) []string {
	var paths []string
	var walk func(error)
	walk = func(err error) {
		switch e := err.(type) {
		case nil:
		case *FieldError:
			paths = append(paths, e.Path())
		case interface{ Unwrap() []error }:
			for _, inner := range e.Unwrap() {
				walk(inner)
			}
		default:
			walk(errors.Unwrap(err))
		}
	}
	walk(err)
	return paths
}

// ClampFloat limits value to [min, max]. NaN maps to min.
func ClampFloat(value, min, max float64) float64 {
	if !(value > min) {
		return min
	}
	return math.Min(value, max)
}
