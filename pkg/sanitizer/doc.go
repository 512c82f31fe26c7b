// Package sanitizer cleans untrusted text before it is rendered or stored.
//
// The package is organised around two fixed allow-list policies:
//
//   - RichText – a small safe subset of markup (emphasis, paragraphs, lists,
//     headings, links and code) used for course descriptions and lesson
//     articles.
//
//   - PlainText – an empty allow-list. All markup is stripped and only text
//     content survives. Used for titles, names, reviews and search input.
//
// Policies are plain data (see AllowedTags and AllowedAttributes); the
// cleaning engine behind them is github.com/microcosm-cc/bluemonday, compiled
// once per policy at package initialisation. Script-executing constructs
// (script elements, inline event handlers, javascript: URLs and data
// attributes) never survive, regardless of policy.
//
// # Idempotence
//
// Content can be cleaned several times on its way to the page, so Sanitize is
// idempotent:
//
//	once := sanitizer.SanitizeRich(input)
//	twice := sanitizer.SanitizeRich(once) // twice == once
//
// EscapeHTML is the opposite: it is a low-level primitive for the final
// insertion point and escapes again on every call. Apply it at most once.
//
// # Masking
//
// MaskEmail and MaskPhoneNumber hide personal data in admin listings and logs.
// Inputs that do not match the expected shape are returned unchanged.
//
// # Error handling
//
// None of the helpers returns an error. Malformed input always degrades to a
// safe result.
//
// All functions are safe for concurrent use.
package sanitizer
