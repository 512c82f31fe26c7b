package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// IsLength reports whether s has between min and max runes, inclusive.
func IsLength(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}

// Length builds a rule around IsLength.
func Length(field, value string, min, max int) Rule {
	msg := fmt.Sprintf("must be between %d and %d characters", min, max)
	if min <= 0 {
		msg = fmt.Sprintf("must be at most %d characters", max)
	}
	return Rule{
		Check: func() bool {
			return IsLength(value, min, max)
		},
		Error: ValidationError{
			Field:          field,
			Message:        msg,
			TranslationKey: "validation.length",
			TranslationValues: map[string]any{
				"field": field,
				"min":   min,
				"max":   max,
			},
		},
	}
}

func Required(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return strings.TrimSpace(value) != ""
		},
		Error: ValidationError{
			Field:          field,
			Message:        "field is required",
			TranslationKey: "validation.required",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}

// OneOf checks that value is one of the allowed choices.
func OneOf(field, value string, allowed ...string) Rule {
	return Rule{
		Check: func() bool {
			for _, a := range allowed {
				if value == a {
					return true
				}
			}
			return false
		},
		Error: ValidationError{
			Field:          field,
			Message:        "must be one of: " + strings.Join(allowed, ", "),
			TranslationKey: "validation.one_of",
			TranslationValues: map[string]any{
				"field":   field,
				"allowed": allowed,
			},
		},
	}
}
