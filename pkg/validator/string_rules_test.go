package validator_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/learnhub/courseguard/pkg/validator"
)

func TestIsLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		s        string
		min, max int
		want     bool
	}{
		{"inside", "Ada", 2, 100, true},
		{"at min", "Al", 2, 100, true},
		{"below min", "A", 2, 100, false},
		{"at max", strings.Repeat("x", 100), 2, 100, true},
		{"above max", strings.Repeat("x", 101), 2, 100, false},
		{"runes not bytes", "Zoë", 3, 3, true},
		{"cjk", "日本語", 0, 3, true},
		{"empty with zero min", "", 0, 10, true},
		{"unbounded max", strings.Repeat("x", 5000), 0, math.MaxInt, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, validator.IsLength(tt.s, tt.min, tt.max))
		})
	}
}

func TestLengthRule(t *testing.T) {
	t.Parallel()

	t.Run("range message", func(t *testing.T) {
		t.Parallel()
		rule := validator.Length("full_name", "A", 2, 100)
		assert.False(t, rule.Check())
		assert.Equal(t, "must be between 2 and 100 characters", rule.Error.Message)
		assert.Equal(t, "validation.length", rule.Error.TranslationKey)
		assert.Equal(t, map[string]any{"field": "full_name", "min": 2, "max": 100}, rule.Error.TranslationValues)
	})

	t.Run("max only message", func(t *testing.T) {
		t.Parallel()
		rule := validator.Length("bio", strings.Repeat("b", 1001), 0, 1000)
		assert.False(t, rule.Check())
		assert.Equal(t, "must be at most 1000 characters", rule.Error.Message)
	})
}

func TestRequired(t *testing.T) {
	t.Parallel()

	assert.True(t, validator.Required("name", "Ada").Check())
	assert.False(t, validator.Required("name", "").Check())
	assert.False(t, validator.Required("name", "   ").Check())
	assert.Equal(t, "field is required", validator.Required("name", "").Error.Message)
}

func TestOneOf(t *testing.T) {
	t.Parallel()

	levels := []string{"beginner", "intermediate", "advanced"}
	assert.True(t, validator.OneOf("level", "advanced", levels...).Check())
	assert.False(t, validator.OneOf("level", "expert", levels...).Check())
	assert.Equal(t,
		"must be one of: beginner, intermediate, advanced",
		validator.OneOf("level", "", levels...).Error.Message,
	)
}
