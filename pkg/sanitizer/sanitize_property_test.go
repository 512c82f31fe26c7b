package sanitizer_test

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/learnhub/courseguard/pkg/sanitizer"
)

// fragments are glued together to build markup-heavy inputs.
var fragments = []string{
	"<p>", "</p>", "<b>", "</b>", "<em>", "</em>", "<ul><li>", "</li></ul>",
	"<script>alert(1)</script>", "<div>", "</div>", "<h1>", "</h1>",
	`<a href="https://example.com">`, `<a href="javascript:alert(1)">`, "</a>",
	`<img src=x onerror=alert(1)>`, `<span data-x="1">`, "</span>",
	"hello", "world", " ", "&amp;", "&", "<", ">", `"`, "'", "Tom's",
	"<code>", "</code>", "<pre>", "</pre>", "<br>",
}

func markupGen() gopter.Gen {
	return gen.SliceOfN(12, gen.IntRange(0, len(fragments)-1))
}

func build(idx []int) string {
	var b strings.Builder
	for _, i := range idx {
		b.WriteString(fragments[i])
	}
	return b.String()
}

func TestSanitizeProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("rich sanitization is idempotent", prop.ForAll(
		func(idx []int) bool {
			s := build(idx)
			once := sanitizer.SanitizeRich(s)
			return sanitizer.SanitizeRich(once) == once
		},
		markupGen(),
	))

	properties.Property("plain sanitization is idempotent", prop.ForAll(
		func(idx []int) bool {
			s := build(idx)
			once := sanitizer.SanitizePlain(s)
			return sanitizer.SanitizePlain(once) == once
		},
		markupGen(),
	))

	properties.Property("plain output never contains angle brackets", prop.ForAll(
		func(idx []int) bool {
			s := build(idx)
			out := sanitizer.SanitizePlain(s)
			return !strings.ContainsAny(out, "<>")
		},
		markupGen(),
	))

	properties.Property("rich output never contains script or handlers", prop.ForAll(
		func(idx []int) bool {
			s := build(idx)
			out := strings.ToLower(sanitizer.SanitizeRich(s))
			return !strings.Contains(out, "<script") &&
				!strings.Contains(out, "onerror") &&
				!strings.Contains(out, "javascript:") &&
				!strings.Contains(out, "data-x")
		},
		markupGen(),
	))

	properties.TestingRun(t)
}
