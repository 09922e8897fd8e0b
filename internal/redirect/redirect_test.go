package redirect

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		want      string
	}{
		{name: "empty falls back to home", candidate: "", want: "/"},
		{name: "root path", candidate: "/", want: "/"},
		{name: "relative path", candidate: "/dashboard", want: "/dashboard"},
		{name: "nested path", candidate: "/account/settings", want: "/account/settings"},
		{name: "path with query", candidate: "/reset?token=abc", want: "/reset?token=abc"},
		{name: "path with fragment", candidate: "/events/go-meetup#rsvp", want: "/events/go-meetup#rsvp"},
		{
			name:      "path with encoded redirect",
			candidate: "/login?redirect=%2Faccount",
			want:      "/login?redirect=%2Faccount",
		},
		{name: "traversal is not canonicalised", candidate: "/../../etc", want: "/../../etc"},

		{name: "protocol-relative", candidate: "//evil.com", want: "/"},
		{name: "protocol-relative with path", candidate: "//attacker.example.com/phish", want: "/"},
		{name: "triple slash", candidate: "///evil.com", want: "/"},
		{name: "absolute https", candidate: "https://evil.com/x", want: "/"},
		{name: "absolute http", candidate: "http://attacker.example.com", want: "/"},
		{name: "javascript scheme", candidate: "javascript:alert(1)", want: "/"},
		{name: "data scheme", candidate: "data:text/html,<script>alert(1)</script>", want: "/"},
		{name: "bare host", candidate: "evil.com", want: "/"},
		{name: "leading backslash", candidate: `\\evil.com`, want: "/"},
		{name: "leading whitespace", candidate: " /dashboard", want: "/"},
		{name: "relative without slash", candidate: "dashboard", want: "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.candidate))
		})
	}
}

func TestSanitizeOptional(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Equal(t, "/", SanitizeOptional(nil))
	})

	t.Run("empty", func(t *testing.T) {
		empty := ""
		assert.Equal(t, "/", SanitizeOptional(&empty))
	})

	t.Run("accepted", func(t *testing.T) {
		path := "/account/settings"
		assert.Equal(t, "/account/settings", SanitizeOptional(&path))
	})

	t.Run("rejected", func(t *testing.T) {
		path := "//evil.com"
		assert.Equal(t, "/", SanitizeOptional(&path))
	})
}

func TestClassify(t *testing.T) {
	assert.Equal(t, OutcomeEmpty, Classify(""))
	assert.Equal(t, OutcomeAccepted, Classify("/events"))
	assert.Equal(t, OutcomeProtocolRelative, Classify("//evil.com"))
	assert.Equal(t, OutcomeNotRelative, Classify("https://evil.com"))
}

func TestSuspicious(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: "/dashboard", want: false},
		{path: "/reset?token=abc", want: false},
		{path: "/files/a..b", want: false},
		{path: "/search?q=..", want: false},
		{path: "/../../etc", want: true},
		{path: "/events/../admin", want: true},
		{path: `/\evil.com`, want: true},
		{path: "/device\r\nSet-Cookie: x=1", want: true},
		{path: "/tab\there", want: true},
		// rejected candidates are never suspicious: they are already replaced
		{path: "//evil.com", want: false},
		{path: "https://evil.com", want: false},
		{path: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Suspicious(tt.path))
		})
	}
}

func TestSanitizeProperties(t *testing.T) {
	t.Run("no leading slash always falls back", func(t *testing.T) {
		rapid.Check(t, func(rt *rapid.T) {
			s := rapid.String().Draw(rt, "s")
			if strings.HasPrefix(s, "/") {
				rt.Skip("leading slash")
			}
			if got := Sanitize(s); got != Default {
				rt.Fatalf("Sanitize(%q) = %q, want %q", s, got, Default)
			}
		})
	})

	t.Run("single leading slash is preserved", func(t *testing.T) {
		rapid.Check(t, func(rt *rapid.T) {
			rest := rapid.String().Draw(rt, "rest")
			if strings.HasPrefix(rest, "/") {
				rt.Skip("would start with //")
			}
			s := "/" + rest
			if got := Sanitize(s); got != s {
				rt.Fatalf("Sanitize(%q) = %q, want unchanged", s, got)
			}
		})
	})

	t.Run("double leading slash always falls back", func(t *testing.T) {
		rapid.Check(t, func(rt *rapid.T) {
			s := "//" + rapid.String().Draw(rt, "rest")
			if got := Sanitize(s); got != Default {
				rt.Fatalf("Sanitize(%q) = %q, want %q", s, got, Default)
			}
		})
	})

	t.Run("idempotent", func(t *testing.T) {
		rapid.Check(t, func(rt *rapid.T) {
			s := rapid.OneOf(
				rapid.String(),
				rapid.StringMatching(`/{0,3}[a-z.:?=#\\-]{0,20}`),
				rapid.StringMatching(`https?://[a-z]{1,10}\.com/[a-z]{0,8}`),
			).Draw(rt, "s")
			once := Sanitize(s)
			if twice := Sanitize(once); twice != once {
				rt.Fatalf("Sanitize not idempotent for %q: %q then %q", s, once, twice)
			}
		})
	})

	t.Run("output is always a safe path", func(t *testing.T) {
		rapid.Check(t, func(rt *rapid.T) {
			got := Sanitize(rapid.String().Draw(rt, "s"))
			if !strings.HasPrefix(got, "/") || strings.HasPrefix(got, "//") {
				rt.Fatalf("Sanitize returned unsafe path %q", got)
			}
		})
	})
}
