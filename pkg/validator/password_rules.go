package validator

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// Password check names as they appear in PasswordStrengthReport.Checks.
const (
	CheckMinLength        = "minLength"
	CheckHasUppercase     = "hasUppercase"
	CheckHasLowercase     = "hasLowercase"
	CheckHasNumbers       = "hasNumbers"
	CheckHasSpecial       = "hasSpecial"
	CheckNoCommonPatterns = "noCommonPatterns"
)

// PasswordStrength grades a password.
type PasswordStrength string

const (
	StrengthWeak   PasswordStrength = "weak"
	StrengthMedium PasswordStrength = "medium"
	StrengthStrong PasswordStrength = "strong"
)

const (
	passwordMinLength   = 12
	passwordValidScore  = 5
	passwordMediumScore = 3
)

var (
	uppercaseRegex     = regexp.MustCompile(`[A-Z]`)
	lowercaseRegex     = regexp.MustCompile(`[a-z]`)
	digitRegex         = regexp.MustCompile(`\d`)
	specialCharRegex   = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
	commonPrefixRegex  = regexp.MustCompile(`(?i)^(password|123456|qwerty|abc123)`)
	passwordCheckOrder = []string{
		CheckMinLength, CheckHasUppercase, CheckHasLowercase,
		CheckHasNumbers, CheckHasSpecial, CheckNoCommonPatterns,
	}
)

// PasswordStrengthReport is the full result of CheckPasswordStrength.
type PasswordStrengthReport struct {
	Valid    bool             `json:"valid"`
	Score    int              `json:"score"`
	Checks   map[string]bool  `json:"checks"`
	Strength PasswordStrength `json:"strength"`
}

// Failed returns the names of the checks that did not pass, in a stable order.
func (r PasswordStrengthReport) Failed() []string {
	var failed []string
	for _, name := range passwordCheckOrder {
		if !r.Checks[name] {
			failed = append(failed, name)
		}
	}
	return failed
}

// CheckPasswordStrength evaluates all six rules, always, and scores the
// password by the number that pass. A score of 5 or more is valid.
func CheckPasswordStrength(password string) PasswordStrengthReport {
	checks := map[string]bool{
		CheckMinLength:        utf8.RuneCountInString(password) >= passwordMinLength,
		CheckHasUppercase:     uppercaseRegex.MatchString(password),
		CheckHasLowercase:     lowercaseRegex.MatchString(password),
		CheckHasNumbers:       digitRegex.MatchString(password),
		CheckHasSpecial:       specialCharRegex.MatchString(password),
		CheckNoCommonPatterns: !commonPrefixRegex.MatchString(password),
	}

	score := 0
	for _, ok := range checks {
		if ok {
			score++
		}
	}

	strength := StrengthStrong
	switch {
	case score < passwordMediumScore:
		strength = StrengthWeak
	case score < passwordValidScore:
		strength = StrengthMedium
	}

	return PasswordStrengthReport{
		Valid:    score >= passwordValidScore,
		Score:    score,
		Checks:   checks,
		Strength: strength,
	}
}

// StrongPassword fails unless CheckPasswordStrength reports the password valid.
func StrongPassword(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return CheckPasswordStrength(value).Valid
		},
		Error: ValidationError{
			Field: field,
			Message: fmt.Sprintf(
				"must be at least %d characters and mix upper and lower case letters, digits and symbols",
				passwordMinLength,
			),
			TranslationKey: "validation.password_strength",
			TranslationValues: map[string]any{
				"field":      field,
				"min_length": passwordMinLength,
			},
		},
	}
}
