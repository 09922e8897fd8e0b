// Package redirect turns untrusted "return to" values into same-origin paths.
package redirect

import "strings"

// Default is the path used whenever a candidate cannot be trusted.
const Default = "/"

// Outcome describes how a candidate was classified.
type Outcome string

const (
	OutcomeEmpty            Outcome = "empty"
	OutcomeAccepted         Outcome = "accepted"
	OutcomeProtocolRelative Outcome = "protocol_relative"
	OutcomeNotRelative      Outcome = "not_relative"
)

// Classify reports which rule of Sanitize applies to candidate.
func Classify(candidate string) Outcome {
	switch {
	case candidate == "":
		return OutcomeEmpty
	case strings.HasPrefix(candidate, "//"):
		// Browsers read "//host/..." as a link to another host.
		return OutcomeProtocolRelative
	case strings.HasPrefix(candidate, "/"):
		return OutcomeAccepted
	default:
		return OutcomeNotRelative
	}
}

// Sanitize returns candidate when it is a path on this origin (one leading
// slash, not two) and Default otherwise. It never fails.
func Sanitize(candidate string) string {
	if Classify(candidate) == OutcomeAccepted {
		return candidate
	}
	return Default
}

// SanitizeOptional is Sanitize for values that may be missing entirely.
func SanitizeOptional(candidate *string) string {
	if candidate == nil {
		return Default
	}
	return Sanitize(*candidate)
}

// Suspicious reports accepted paths that some browsers or proxies may still
// resolve off-origin or outside the intended tree: backslashes, ".."
// segments and control characters. Sanitize accepts these unchanged; callers
// use Suspicious only to log and count them.
func Suspicious(path string) bool {
	if Classify(path) != OutcomeAccepted {
		return false
	}
	if strings.ContainsRune(path, '\\') {
		return true
	}
	for _, r := range path {
		if r < 0x20 || r == 0x7f {
			return true
		}
	}
	p := path
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}
