package sanitizer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/learnhub/courseguard/pkg/sanitizer"
)

func TestSanitizeRich(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "keeps allowed formatting",
			input:    "<p>Hello <strong>world</strong></p>",
			expected: "<p>Hello <strong>world</strong></p>",
		},
		{
			name:     "keeps lists and code",
			input:    "<ul><li><code>go test</code></li></ul>",
			expected: "<ul><li><code>go test</code></li></ul>",
		},
		{
			name:     "removes script element with its content",
			input:    "<script>alert('x')</script><p>ok</p>",
			expected: "<p>ok</p>",
		},
		{
			name:     "removes inline event handler",
			input:    `<a href="https://example.com" onclick="steal()">link</a>`,
			expected: `<a href="https://example.com">link</a>`,
		},
		{
			name:     "removes data attributes",
			input:    `<p data-user="42">text</p>`,
			expected: "<p>text</p>",
		},
		{
			name:     "unwraps disallowed containers",
			input:    "<div><h1>Title</h1></div>",
			expected: "<h1>Title</h1>",
		},
		{
			name:     "drops images entirely",
			input:    `<img src="x" onerror="alert(1)">`,
			expected: "",
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
			assert.Equal(t, tt.expected, sanitizer.SanitizeRich(tt.input))
		})
	}
}

func TestSanitizeRich_JavaScriptURL(t *testing.T) {
	t.Parallel()

	out := sanitizer.SanitizeRich(`<a href="javascript:alert(1)">click</a>`)
	assert.NotContains(t, strings.ToLower(out), "javascript")
	assert.Contains(t, out, "click")

	out = sanitizer.SanitizeRich(`<a href="  JaVaScRiPt:alert(1)">x</a>`)
	assert.NotContains(t, strings.ToLower(out), "javascript")
}

func TestSanitizePlain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "strips formatting tags",
			input:    "<b>bold</b> text",
			expected: "bold text",
		},
		{
			name:     "drops script content",
			input:    "<script>alert(1)</script>Hi",
			expected: "Hi",
		},
		{
			name:     "escapes ampersand in text",
			input:    "Tom & Jerry",
			expected: "Tom &amp; Jerry",
		},
		{
			name:     "plain text is untouched",
			input:    "Intro to Go",
			expected: "Intro to Go",
		},
		{
			name:     "strips links",
			input:    `<a href="https://example.com">site</a>`,
			expected: "site",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sanitizer.SanitizePlain(tt.input))
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"<p>Hello <em>there</em></p>",
		"a < b && c > d",
		`"quoted" and 'single'`,
		`<a href="https://example.com/a?b=1&c=2" target="_blank" rel="noopener">x</a>`,
		"<script>alert(1)</script><p>x</p>",
		"&lt;script&gt;already escaped&lt;/script&gt;",
		"<p>unclosed <b>bold",
		"</p>stray close",
		"<h2 onclick=\"x()\">heading</h2>",
	}

	for _, policy := range []sanitizer.Policy{sanitizer.RichText, sanitizer.PlainText} {
		for _, in := range inputs {
			once := sanitizer.Sanitize(policy, in)
			twice := sanitizer.Sanitize(policy, once)
			assert.Equal(t, once, twice, "policy %s, input %q", policy, in)
		}
	}
}

func TestSanitize_UnknownPolicyFallsBackToPlain(t *testing.T) {
	t.Parallel()

	out := sanitizer.Sanitize(sanitizer.Policy("unknown"), "<b>x</b>")
	assert.Equal(t, "x", out)
	assert.False(t, sanitizer.Known(sanitizer.Policy("unknown")))
	assert.True(t, sanitizer.Known(sanitizer.RichText))
}

func TestAllowedTags(t *testing.T) {
	t.Parallel()

	tags := sanitizer.AllowedTags(sanitizer.RichText)
	assert.Contains(t, tags, "strong")
	assert.NotContains(t, tags, "script")
	assert.Empty(t, sanitizer.AllowedTags(sanitizer.PlainText))
	assert.Empty(t, sanitizer.AllowedAttributes(sanitizer.PlainText))

	// Returned slices are copies.
	tags[0] = "script"
	assert.NotContains(t, sanitizer.AllowedTags(sanitizer.RichText), "script")
}

func TestSanitizeValue(t *testing.T) {
	t.Parallel()

	in := map[string]any{
		"title":  "<b>Go</b>",
		"price":  19.99,
		"free":   false,
		"tags":   []any{"<i>backend</i>", 3},
		"author": map[string]any{"name": "<script>x</script>Ann"},
		"none":   nil,
	}

	out := sanitizer.SanitizeValue(sanitizer.PlainText, in)

	expected := map[string]any{
		"title":  "Go",
		"price":  19.99,
		"free":   false,
		"tags":   []any{"backend", 3},
		"author": map[string]any{"name": "Ann"},
		"none":   nil,
	}
	assert.Equal(t, expected, out)
	assert.Equal(t, "<b>Go</b>", in["title"], "input must not be mutated")
	assert.Equal(t, 42, sanitizer.SanitizeValue(sanitizer.RichText, 42))
}
