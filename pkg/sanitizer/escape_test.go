package sanitizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/learnhub/courseguard/pkg/sanitizer"
)

func TestEscapeHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "escapes all significant characters",
			input:    `<a href="/x">'&'</a>`,
			expected: "&lt;a href=&quot;&#x2F;x&quot;&gt;&#x27;&amp;&#x27;&lt;&#x2F;a&gt;",
		},
		{
			name:     "leaves plain text alone",
			input:    "normal text",
			expected: "normal text",
		},
		{
			name:     "handles empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sanitizer.EscapeHTML(tt.input))
		})
	}
}

func TestEscapeHTML_NotIdempotent(t *testing.T) {
	t.Parallel()

	once := sanitizer.EscapeHTML("fish & chips")
	twice := sanitizer.EscapeHTML(once)

	assert.Equal(t, "fish &amp; chips", once)
	assert.Equal(t, "fish &amp;amp; chips", twice)
	assert.NotEqual(t, once, twice)

	// Strings without significant characters are unaffected by repetition.
	assert.Equal(t, "plain", sanitizer.EscapeHTML(sanitizer.EscapeHTML("plain")))
}
