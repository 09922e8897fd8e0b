// Package siteurl resolves the public base URL of the site.
package siteurl

import (
	"strings"

	"github.com/go-authgate/eventgate/internal/redirect"
)

// DefaultFallback is used when neither a source nor Config.Fallback is set.
const DefaultFallback = "http://localhost:8080/"

// Source is one named configuration value, e.g. {"SITE_URL", "https://example.com"}.
type Source struct {
	Name  string
	Value string
}

// Config lists the sources in priority order.
type Config struct {
	Sources  []Source
	Fallback string
}

// Resolve picks the first non-empty source (or the fallback), adds an
// https:// scheme to bare hosts and ends the result with exactly one "/".
func Resolve(cfg Config) string {
	raw := pick(cfg)

	if !hasHTTPScheme(raw) {
		raw = "https://" + raw
	}

	return strings.TrimRight(raw, "/") + "/"
}

// Winner returns the name of the source Resolve would use, or "fallback".
func (cfg Config) Winner() string {
	for _, src := range cfg.Sources {
		if strings.TrimSpace(src.Value) != "" {
			return src.Name
		}
	}
	return "fallback"
}

// Absolute joins a resolved base URL with a same-origin path. The path goes
// through redirect.Sanitize first, so a hostile value can only ever point
// back at the site root.
func Absolute(base, path string) string {
	safe := redirect.Sanitize(path)
	return strings.TrimRight(base, "/") + safe
}

func pick(cfg Config) string {
	for _, src := range cfg.Sources {
		if v := strings.TrimSpace(src.Value); v != "" {
			return v
		}
	}
	if v := strings.TrimSpace(cfg.Fallback); v != "" {
		return v
	}
	return DefaultFallback
}

func hasHTTPScheme(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
