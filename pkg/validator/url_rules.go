package validator

import (
	"net/netip"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/idna"
)

var (
	allowedURLSchemes = map[string]bool{"http": true, "https": true}

	// blockedHostFragments are matched as substrings, so "notlocalhost.com"
	// is rejected too.
	blockedHostFragments = []string{"localhost", "127.0.0.1", "0.0.0.0", "::1"}

	privateHostRegex = regexp.MustCompile(`^(10\.|172\.(1[6-9]|2[0-9]|3[01])\.|192\.168\.)`)
)

// IsSafeURL reports whether raw is an absolute http(s) URL that does not point
// at loopback, metadata or private network hosts. It never returns an error:
// anything unparseable is simply unsafe.
func IsSafeURL(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return false
	}

	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	if !allowedURLSchemes[strings.ToLower(u.Scheme)] {
		return false
	}

	if !validPort(u.Port()) {
		return false
	}

	host := normalizeHost(u.Hostname())
	if host == "" {
		return false
	}

	for _, fragment := range blockedHostFragments {
		if strings.Contains(host, fragment) {
			return false
		}
	}

	if privateHostRegex.MatchString(host) {
		return false
	}

	if addr, ok := hostAddr(host); ok && !isPublicAddr(addr) {
		return false
	}

	return true
}

func validPort(port string) bool {
	if port == "" {
		return true
	}
	_, err := strconv.ParseUint(port, 10, 16)
	return err == nil
}

// IsSafeImageSrc accepts what IsSafeURL accepts plus site-relative paths such
// as "/media/avatars/a.png". Protocol-relative ("//host") and backslash forms
// are rejected because browsers resolve them against another host.
func IsSafeImageSrc(raw string) bool {
	if IsSafeURL(raw) {
		return true
	}
	if !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.ContainsAny(raw, "\\\x00") {
		return false
	}
	u, err := url.Parse(raw)
	return err == nil && u.Scheme == "" && u.Host == ""
}

// SafeURL builds a rule around IsSafeURL.
func SafeURL(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return IsSafeURL(value)
		},
		Error: ValidationError{
			Field:          field,
			Message:        "must be a valid public http(s) URL",
			TranslationKey: "validation.safe_url",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}

// URLHostSuffix checks that value is a safe URL whose host is one of the
// given domains or a subdomain of them.
func URLHostSuffix(field, value string, domains ...string) Rule {
	return Rule{
		Check: func() bool {
			if !IsSafeURL(value) {
				return false
			}
			u, err := url.Parse(value)
			if err != nil {
				return false
			}
			host := normalizeHost(u.Hostname())
			for _, d := range domains {
				if host == d || strings.HasSuffix(host, "."+d) {
					return true
				}
			}
			return false
		},
		Error: ValidationError{
			Field:          field,
			Message:        "must be a link to " + strings.Join(domains, " or "),
			TranslationKey: "validation.url_domain",
			TranslationValues: map[string]any{
				"field":   field,
				"domains": domains,
			},
		},
	}
}

// normalizeHost lowercases the host and maps internationalized spellings
// (for example full-width letters) to their ASCII form.
func normalizeHost(host string) string {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	if host == "" {
		return ""
	}
	if _, err := netip.ParseAddr(host); err == nil {
		return host
	}
	if ascii, err := idna.Lookup.ToASCII(host); err == nil {
		return ascii
	}
	return host
}

// hostAddr resolves IP literals, including the legacy IPv4 spellings browsers
// accept ("2130706433", "0x7f.1", "0177.0.0.1").
func hostAddr(host string) (netip.Addr, bool) {
	if addr, err := netip.ParseAddr(host); err == nil {
		return addr.Unmap(), true
	}
	return parseLegacyIPv4(host)
}

func parseLegacyIPv4(host string) (netip.Addr, bool) {
	parts := strings.Split(host, ".")
	if len(parts) > 1 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	if len(parts) == 0 || len(parts) > 4 {
		return netip.Addr{}, false
	}

	nums := make([]uint64, len(parts))
	for i, p := range parts {
		n, ok := parseIPv4Number(p)
		if !ok {
			return netip.Addr{}, false
		}
		nums[i] = n
	}

	for _, n := range nums[:len(nums)-1] {
		if n > 255 {
			return netip.Addr{}, false
		}
	}
	last := nums[len(nums)-1]
	if last >= 1<<(8*(5-len(nums))) {
		return netip.Addr{}, false
	}

	value := last
	for i, n := range nums[:len(nums)-1] {
		value += n << (8 * (3 - i))
	}

	return netip.AddrFrom4([4]byte{
		byte(value >> 24), byte(value >> 16), byte(value >> 8), byte(value),
	}), true
}

func parseIPv4Number(s string) (uint64, bool) {
	if s == "" {
		return 0, false
	}
	base := 10
	switch {
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		s, base = s[2:], 16
		if s == "" {
			return 0, true
		}
	case len(s) > 1 && s[0] == '0':
		s, base = s[1:], 8
	}
	n, err := strconv.ParseUint(s, base, 32)
	if err != nil {
		return 0, false
	}
	return n, true
}

func isPublicAddr(addr netip.Addr) bool {
	return !addr.IsLoopback() &&
		!addr.IsPrivate() &&
		!addr.IsUnspecified() &&
		!addr.IsLinkLocalUnicast() &&
		!addr.IsLinkLocalMulticast() &&
		!addr.IsInterfaceLocalMulticast()
}
