package validator_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/learnhub/courseguard/pkg/validator"
)

func TestIsEmail(t *testing.T) {
	t.Parallel()

	longLocal := strings.Repeat("a", 250) + "@b.io"

	tests := []struct {
		name  string
		email string
		want  bool
	}{
		{"simple", "ada@example.com", true},
		{"plus tag", "ada+courses@example.co.uk", true},
		{"special local chars", "o'brien.j@example.org", true},
		{"single label domain", "root@host", true},
		{"missing at", "ada.example.com", false},
		{"missing local", "@example.com", false},
		{"missing domain", "ada@", false},
		{"double at", "ada@@example.com", false},
		{"space", "ada lovelace@example.com", false},
		{"hyphen leading label", "ada@-example.com", false},
		{"empty", "", false},
		{"too long", longLocal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, validator.IsEmail(tt.email))
		})
	}
}

func TestEmailRule(t *testing.T) {
	t.Parallel()

	rule := validator.Email("email", "bad")
	assert.False(t, rule.Check())
	assert.Equal(t, "must be a valid email address", rule.Error.Message)
	assert.Equal(t, map[string]any{"field": "email"}, rule.Error.TranslationValues)
}
