package cache

import "errors"

// Event and metrics lookups treat every error below as a reason to read the
// database instead; none of them is shown to a visitor.
var (
	// ErrCacheMiss means the key is absent or expired.
	ErrCacheMiss = errors.New("cache: key not found")

	// ErrCacheUnavailable wraps a Redis transport or server failure.
	ErrCacheUnavailable = errors.New("cache: backend unavailable")

	// ErrInvalidValue means a stored value no longer decodes into the cached
	// type, e.g. after an Event field changed between releases.
	ErrInvalidValue = errors.New("cache: invalid value")
)
