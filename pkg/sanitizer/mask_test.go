package sanitizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/learnhub/courseguard/pkg/sanitizer"
)

func TestMaskEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "two character local part", input: "jo@example.com", expected: "j***o@example.com"},
		{name: "single character local part", input: "a@example.com", expected: "a***@example.com"},
		{name: "long local part", input: "jennifer@example.com", expected: "j***r@example.com"},
		{name: "unicode local part", input: "élodie@example.fr", expected: "é***e@example.fr"},
		{name: "empty local part", input: "@example.com", expected: "***@example.com"},
		{name: "no at sign", input: "not-an-email", expected: "not-an-email"},
		{name: "empty domain", input: "user@", expected: "user@"},
		{name: "empty string", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sanitizer.MaskEmail(tt.input))
		})
	}
}

func TestMaskPhoneNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "ten digits", input: "5551234567", expected: "555****567"},
		{name: "ten digits with prefix text", input: "tel:5551234567", expected: "tel:555****567"},
		{name: "formatted number passes through", input: "+1 (555) 123-4567", expected: "+1 (555) 123-4567"},
		{name: "too short", input: "12345", expected: "12345"},
		{name: "empty string", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sanitizer.MaskPhoneNumber(tt.input))
		})
	}
}
