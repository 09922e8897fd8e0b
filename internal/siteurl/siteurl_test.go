package siteurl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		want   string
		winner string
	}{
		{
			name:   "nothing configured uses default fallback",
			cfg:    Config{},
			want:   "http://localhost:8080/",
			winner: "fallback",
		},
		{
			name:   "explicit fallback",
			cfg:    Config{Fallback: "http://localhost:3000"},
			want:   "http://localhost:3000/",
			winner: "fallback",
		},
		{
			name: "first source wins",
			cfg: Config{
				Sources: []Source{
					{Name: "SITE_URL", Value: "https://events.example.com"},
					{Name: "DEPLOYMENT_URL", Value: "preview-123.example.app"},
				},
				Fallback: "http://localhost:8080/",
			},
			want:   "https://events.example.com/",
			winner: "SITE_URL",
		},
		{
			name: "empty sources are skipped",
			cfg: Config{
				Sources: []Source{
					{Name: "SITE_URL", Value: "   "},
					{Name: "DEPLOYMENT_URL", Value: "preview-123.example.app"},
				},
			},
			want:   "https://preview-123.example.app/",
			winner: "DEPLOYMENT_URL",
		},
		{
			name: "trailing slash kept once",
			cfg: Config{
				Sources: []Source{{Name: "SITE_URL", Value: "https://events.example.com/"}},
			},
			want:   "https://events.example.com/",
			winner: "SITE_URL",
		},
		{
			name: "repeated trailing slashes collapse",
			cfg: Config{
				Sources: []Source{{Name: "SITE_URL", Value: "https://events.example.com///"}},
			},
			want:   "https://events.example.com/",
			winner: "SITE_URL",
		},
		{
			name: "path prefix preserved",
			cfg: Config{
				Sources: []Source{{Name: "SITE_URL", Value: "https://example.com/events"}},
			},
			want:   "https://example.com/events/",
			winner: "SITE_URL",
		},
		{
			name: "plain http is not upgraded",
			cfg: Config{
				Sources: []Source{{Name: "SITE_URL", Value: "http://intranet:9000"}},
			},
			want:   "http://intranet:9000/",
			winner: "SITE_URL",
		},
		{
			name: "scheme check is case insensitive",
			cfg: Config{
				Sources: []Source{{Name: "SITE_URL", Value: "HTTPS://Example.com"}},
			},
			want:   "HTTPS://Example.com/",
			winner: "SITE_URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.cfg))
			assert.Equal(t, tt.winner, tt.cfg.Winner())
		})
	}
}

func TestResolveProperties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		host := rapid.StringMatching(`(https?://)?[a-z]{1,12}(\.[a-z]{2,5})?(/[a-z]{1,6})?/{0,3}`).
			Draw(rt, "host")
		got := Resolve(Config{Sources: []Source{{Name: "SITE_URL", Value: host}}})

		if !strings.HasSuffix(got, "/") || strings.HasSuffix(got, "//") {
			rt.Fatalf("Resolve(%q) = %q, want exactly one trailing slash", host, got)
		}
		if !hasHTTPScheme(got) {
			rt.Fatalf("Resolve(%q) = %q, want http(s) scheme", host, got)
		}
		again := Resolve(Config{Sources: []Source{{Name: "SITE_URL", Value: got}}})
		if again != got {
			rt.Fatalf("Resolve not stable: %q then %q", got, again)
		}
	})
}

func TestAbsolute(t *testing.T) {
	base := "https://events.example.com/"

	assert.Equal(t,
		"https://events.example.com/reset-password?token=abc",
		Absolute(base, "/reset-password?token=abc"),
	)
	assert.Equal(t, "https://events.example.com/", Absolute(base, "//evil.com/phish"))
	assert.Equal(t, "https://events.example.com/", Absolute(base, "https://evil.com"))
	assert.Equal(t, "https://events.example.com/", Absolute(base, ""))
	assert.Equal(t, "https://example.com/app/events", Absolute("https://example.com/app/", "/events"))
}
