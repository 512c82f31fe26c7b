package sanitizer

import (
	"regexp"
	"strings"
)

const maskFill = "***"

var phoneGroupRegex = regexp.MustCompile(`(\d{3})\d{4}(\d{3})`)

// MaskEmail keeps the first and last character of the local part and the
// whole domain: "john@example.com" becomes "j***n@example.com". A single
// character local part is shown once ("a***@example.com"). Strings without
// "@" are returned unchanged.
func MaskEmail(email string) string {
	if email == "" {
		return ""
	}

	parts := strings.Split(email, "@")
	if len(parts) < 2 || parts[1] == "" {
		return email
	}

	local := []rune(parts[0])
	var b strings.Builder
	if len(local) > 0 {
		b.WriteRune(local[0])
	}
	b.WriteString(maskFill)
	if len(local) > 1 {
		b.WriteRune(local[len(local)-1])
	}
	b.WriteByte('@')
	b.WriteString(parts[1])
	return b.String()
}

// MaskPhoneNumber hides the middle four digits of the first run of ten
// consecutive digits, keeping the area code and the last three digits:
// "5551234567" becomes "555****567". Anything else is returned unchanged.
func MaskPhoneNumber(phone string) string {
	if phone == "" {
		return ""
	}

	loc := phoneGroupRegex.FindStringSubmatchIndex(phone)
	if loc == nil {
		return phone
	}

	return phone[:loc[0]] +
		phone[loc[2]:loc[3]] + "****" + phone[loc[4]:loc[5]] +
		phone[loc[1]:]
}
