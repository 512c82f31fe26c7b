package sanitizer

import "strings"

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
)

// EscapeHTML replaces the HTML-significant characters & < > " ' and / with
// entities. Unlike Sanitize it is not idempotent: escaping twice turns
// "&amp;" into "&amp;amp;". Call it once, where text is inserted into markup.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}
