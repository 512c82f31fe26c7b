package validator

import "regexp"

const maxEmailLength = 254

var emailRegex = regexp.MustCompile(
	"^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@" +
		`[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?` +
		`(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`,
)

// IsEmail performs a purely syntactic check: an RFC 5322 style pattern and a
// 254 character ceiling. No DNS or MX lookups.
func IsEmail(s string) bool {
	if s == "" || len(s) > maxEmailLength {
		return false
	}
	return emailRegex.MatchString(s)
}

// Email builds a rule around IsEmail.
func Email(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return IsEmail(value)
		},
		Error: ValidationError{
			Field:          field,
			Message:        "must be a valid email address",
			TranslationKey: "validation.email",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}
