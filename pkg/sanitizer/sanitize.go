package sanitizer

// Sanitize cleans s with the named policy. Unknown policies fall back to
// PlainText.
func Sanitize(p Policy, s string) string {
	if s == "" {
		return s
	}
	return engine(p).Sanitize(s)
}

// SanitizeRich keeps the RichText subset of markup and drops everything else.
func SanitizeRich(s string) string {
	return Sanitize(RichText, s)
}

// SanitizePlain strips all markup and returns text content only.
func SanitizePlain(s string) string {
	return Sanitize(PlainText, s)
}

// SanitizeValue walks a decoded JSON value and sanitizes every string in it.
// Values of any other type are returned unchanged. Maps and slices are
// rebuilt, so the input is never mutated.
func SanitizeValue(p Policy, v any) any {
	switch val := v.(type) {
	case string:
		return Sanitize(p, val)
	case []string:
		out := make([]string, len(val))
		for i, s := range val {
			out[i] = Sanitize(p, s)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = SanitizeValue(p, item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = SanitizeValue(p, item)
		}
		return out
	default:
		return v
	}
}
