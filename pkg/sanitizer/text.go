package sanitizer

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	whitespaceRegex     = regexp.MustCompile(`\s+`)
	unsafeFilenameRegex = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
)

// NormalizeWhitespace collapses runs of whitespace into single spaces and
// trims both ends.
func NormalizeWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// LimitLength truncates s to at most maxRunes runes.
func LimitLength(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes])
}

// RemoveControlChars drops control characters other than newline, carriage
// return and tab.
func RemoveControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return -1
		}
		return r
	}, s)
}

// SanitizeFilename replaces characters that are unsafe on common filesystems
// and object stores, trims leading/trailing dots and spaces and caps the
// result at 255 bytes. Empty results become "file".
func SanitizeFilename(name string) string {
	safe := unsafeFilenameRegex.ReplaceAllString(name, "_")
	safe = strings.Trim(safe, " .")
	if len(safe) > 255 {
		safe = strings.ToValidUTF8(safe[:255], "")
	}
	if safe == "" {
		return "file"
	}
	return safe
}
