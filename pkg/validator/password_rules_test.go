package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/learnhub/courseguard/pkg/validator"
)

func TestCheckPasswordStrength(t *testing.T) {
	t.Parallel()

	t.Run("short lowercase is weak", func(t *testing.T) {
		t.Parallel()
		r := validator.CheckPasswordStrength("abc")
		assert.Equal(t, validator.StrengthWeak, r.Strength)
		assert.Less(t, r.Score, 3)
		assert.False(t, r.Valid)
	})

	t.Run("mixed password is strong", func(t *testing.T) {
		t.Parallel()
		r := validator.CheckPasswordStrength("Str0ng!Passw0rd")
		assert.Equal(t, validator.StrengthStrong, r.Strength)
		assert.GreaterOrEqual(t, r.Score, 5)
		assert.True(t, r.Valid)
		assert.Empty(t, r.Failed())
	})

	t.Run("report always carries all six checks", func(t *testing.T) {
		t.Parallel()
		r := validator.CheckPasswordStrength("")
		assert.Len(t, r.Checks, 6)
		assert.Equal(t, 1, r.Score)
		assert.True(t, r.Checks[validator.CheckNoCommonPatterns])
		assert.Equal(t, []string{
			validator.CheckMinLength,
			validator.CheckHasUppercase,
			validator.CheckHasLowercase,
			validator.CheckHasNumbers,
			validator.CheckHasSpecial,
		}, r.Failed())
	})

	t.Run("common prefix is case insensitive", func(t *testing.T) {
		t.Parallel()
		r := validator.CheckPasswordStrength("PASSWORD-long-1x!")
		assert.False(t, r.Checks[validator.CheckNoCommonPatterns])
		assert.Equal(t, 5, r.Score)
		assert.True(t, r.Valid)
	})

	t.Run("medium band", func(t *testing.T) {
		t.Parallel()
		r := validator.CheckPasswordStrength("Abcdef")
		assert.Equal(t, 3, r.Score)
		assert.Equal(t, validator.StrengthMedium, r.Strength)
		assert.False(t, r.Valid)
	})

	t.Run("length counts runes", func(t *testing.T) {
		t.Parallel()
		assert.True(t, validator.CheckPasswordStrength("ééééééééééé1").Checks[validator.CheckMinLength])
		assert.False(t, validator.CheckPasswordStrength("éééééééééé1").Checks[validator.CheckMinLength])
	})
}

func TestStrongPasswordRule(t *testing.T) {
	t.Parallel()

	assert.True(t, validator.StrongPassword("password", "Str0ng!Passw0rd").Check())
	rule := validator.StrongPassword("password", "qwerty")
	assert.False(t, rule.Check())
	assert.Equal(t, "validation.password_strength", rule.Error.TranslationKey)
}
