package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/learnhub/courseguard/pkg/validator"
)

func TestIsSafeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"public https", "https://example.com/path", true},
		{"public http with query", "http://example.com/a?b=c", true},
		{"uppercase scheme", "HTTPS://example.com", true},
		{"public ip", "https://8.8.8.8", true},
		{"localhost with port", "http://localhost:8080", false},
		{"loopback ip", "https://127.0.0.1", false},
		{"private 192.168", "https://192.168.1.5", false},
		{"private 10/8", "http://10.0.0.1", false},
		{"private 172.16", "http://172.16.4.2", false},
		{"private 172.31", "http://172.31.255.255", false},
		{"172.32 is public", "http://172.32.0.1", true},
		{"unspecified", "http://0.0.0.0", false},
		{"ipv6 loopback", "http://[::1]/", false},
		{"ftp scheme", "ftp://example.com", false},
		{"javascript scheme", "javascript:alert(1)", false},
		{"relative", "/courses/1", false},
		{"empty", "", false},
		{"garbage", "http://[::1", false},
		{"substring localhost", "https://notlocalhost.com", false},
		{"localhost subdomain", "http://localhost.example.com", false},
		{"trailing dot localhost", "http://localhost./", false},
		{"decimal loopback", "http://2130706433/", false},
		{"hex loopback", "http://0x7f.0.0.1/", false},
		{"octal loopback", "http://0177.0.0.1/", false},
		{"short loopback", "http://127.1/", false},
		{"metadata link-local", "http://169.254.169.254/latest/meta-data", false},
		{"ipv4 mapped loopback", "http://[::ffff:127.0.0.1]/", false},
		{"ipv6 unique local", "http://[fd00::1]/", false},
		{"full-width localhost", "http://ｌｏｃａｌｈｏｓｔ/", false},
		{"mixed case host", "https://Example.COM", true},
		{"highest port", "https://example.com:65535/", true},
		{"port out of range", "https://example.com:99999/", false},
		{"huge port", "https://example.com:4294967297/", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, validator.IsSafeURL(tt.url))
		})
	}
}

func TestIsSafeImageSrc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want bool
	}{
		{"absolute public", "https://cdn.example.com/a.png", true},
		{"site relative", "/media/avatars/u1/a.png", true},
		{"protocol relative", "//evil.example.com/a.png", false},
		{"backslash trick", "/\\evil.example.com/a.png", false},
		{"javascript", "javascript:alert(1)", false},
		{"data uri", "data:image/png;base64,AAAA", false},
		{"bare relative", "media/a.png", false},
		{"private absolute", "http://10.0.0.1/a.png", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, validator.IsSafeImageSrc(tt.src))
		})
	}
}

func TestSafeURLRule(t *testing.T) {
	t.Parallel()

	rule := validator.SafeURL("website", "http://localhost")
	assert.False(t, rule.Check())
	assert.Equal(t, "website", rule.Error.Field)
	assert.Equal(t, "validation.safe_url", rule.Error.TranslationKey)

	assert.True(t, validator.SafeURL("website", "https://ada.dev").Check())
}

func TestURLHostSuffix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		domains []string
		want    bool
	}{
		{"exact domain", "https://linkedin.com/in/ada", []string{"linkedin.com"}, true},
		{"subdomain", "https://www.linkedin.com/in/ada", []string{"linkedin.com"}, true},
		{"lookalike", "https://evillinkedin.com/in/ada", []string{"linkedin.com"}, false},
		{"second domain", "https://x.com/ada", []string{"twitter.com", "x.com"}, true},
		{"wrong domain", "https://example.com/ada", []string{"twitter.com", "x.com"}, false},
		{"unsafe url", "ftp://linkedin.com/ada", []string{"linkedin.com"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rule := validator.URLHostSuffix("link", tt.url, tt.domains...)
			assert.Equal(t, tt.want, rule.Check())
		})
	}

	rule := validator.URLHostSuffix("twitter_url", "", "twitter.com", "x.com")
	assert.Equal(t, "must be a link to twitter.com or x.com", rule.Error.Message)
}
