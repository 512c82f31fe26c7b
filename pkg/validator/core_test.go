package validator_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnhub/courseguard/pkg/validator"
)

func TestApply(t *testing.T) {
	t.Parallel()

	t.Run("returns nil when all rules pass", func(t *testing.T) {
		t.Parallel()
		err := validator.Apply(
			validator.Required("name", "Ada"),
			validator.Length("name", "Ada", 2, 100),
		)
		assert.NoError(t, err)
	})

	t.Run("collects every failure without short circuit", func(t *testing.T) {
		t.Parallel()
		calls := 0
		counting := validator.Rule{
			Check: func() bool { calls++; return false },
			Error: validator.ValidationError{Field: "b", Message: "bad b"},
		}
		err := validator.Apply(
			validator.Required("a", ""),
			counting,
			validator.Email("c", "nope"),
		)
		require.Error(t, err)
		assert.Equal(t, 1, calls)

		errs := validator.ExtractValidationErrors(err)
		require.Len(t, errs, 3)
		assert.Equal(t, []string{"a", "b", "c"}, errs.Fields())
		assert.True(t, errs.Has("b"))
		assert.False(t, errs.Has("d"))
		assert.Equal(t, []string{"bad b"}, errs.Get("b"))
	})

	t.Run("no rules is valid", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, validator.Apply())
	})
}

func TestValidationErrors(t *testing.T) {
	t.Parallel()

	errs := validator.ValidationErrors{}
	errs.Add(validator.ValidationError{Field: "bio", Message: "too long"})
	errs.Add(validator.ValidationError{Field: "bio", Message: "second"})
	errs.Add(validator.ValidationError{Field: "website", Message: "bad url"})

	assert.Equal(t, "validation failed: bio: too long; bio: second; website: bad url", errs.Error())
	assert.Equal(t, map[string]string{"bio": "too long", "website": "bad url"}, errs.Map())
	assert.False(t, errs.IsEmpty())
	assert.Equal(t, "validation failed", validator.ValidationErrors{}.Error())

	wrapped := fmt.Errorf("update profile: %w", errs)
	assert.True(t, errors.Is(wrapped, validator.ErrValidationFailed))
	assert.True(t, validator.IsValidationError(wrapped))
	assert.Len(t, validator.ExtractValidationErrors(wrapped), 3)

	assert.False(t, validator.IsValidationError(nil))
	assert.False(t, validator.IsValidationError(errors.New("plain")))
	assert.Nil(t, validator.ExtractValidationErrors(errors.New("plain")))
	assert.Nil(t, validator.ExtractValidationErrors(nil))
}

func TestRuleModifiers(t *testing.T) {
	t.Parallel()

	t.Run("When false skips the check", func(t *testing.T) {
		t.Parallel()
		rule := validator.SafeURL("website", "").When(false)
		assert.True(t, rule.Check())
	})

	t.Run("When true keeps the check", func(t *testing.T) {
		t.Parallel()
		rule := validator.SafeURL("website", "ftp://example.com").When(true)
		assert.False(t, rule.Check())
	})

	t.Run("WithMessage overrides message only", func(t *testing.T) {
		t.Parallel()
		rule := validator.Required("full_name", "").WithMessage("Name is required")
		assert.Equal(t, "Name is required", rule.Error.Message)
		assert.Equal(t, "full_name", rule.Error.Field)
		assert.Equal(t, "validation.required", rule.Error.TranslationKey)
	})
}
