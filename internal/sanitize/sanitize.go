// Package sanitize scrubs credential-shaped substrings from text before it
// reaches a response body or a log line.
package sanitize

import "regexp"

const (
	// RedactedMarker replaces any matched secret.
	RedactedMarker = "[REDACTED]"

	// MaxMessageLength is the cap applied after all redactions.
	MaxMessageLength = 500

	// TruncationSuffix is appended when a message exceeds the cap.
	TruncationSuffix = "... (truncated)"
)

// Patterns are applied in order: provider-prefixed keys first, generic hex
// runs last, truncation after everything. Reordering changes output shape
// for overlapping matches.
var (
	// Payments-provider secrets: live/test/restricted keys and
	// webhook signing secrets, prefix plus at least 12 token chars.
	providerKeyPattern = regexp.MustCompile(`(?:sk_live_|sk_test_|rk_live_|rk_test_|whsec_)[A-Za-z0-9_-]{12,}`)

	// Authorization header values: "Bearer <token>".
	bearerPattern = regexp.MustCompile(`(?i)\bbearer\s+\S+`)

	// Generic credential-shaped tokens: a credential word, optional
	// separator, then a long alphanumeric tail.
	genericCredentialPattern = regexp.MustCompile(`(?i)\b(?:api|key|token|secret|password|auth)[_-]?[A-Za-z0-9]{20,}`)

	// Raw key material without a recognizable prefix. Runs shorter than
	// 32 hex chars stay untouched so short codes remain readable.
	hexRunPattern = regexp.MustCompile(`[0-9a-fA-F]{32,}`)
)

// Sanitize redacts recognized secrets from input and caps its length.
// It is total: any string in, a safe string out. Input with no matches and
// within the cap is returned unchanged.
func Sanitize(input string) string {
	if input == "" {
		return ""
	}

	out := providerKeyPattern.ReplaceAllString(input, RedactedMarker)
	out = bearerPattern.ReplaceAllString(out, "Bearer "+RedactedMarker)
	out = genericCredentialPattern.ReplaceAllString(out, RedactedMarker)
	out = hexRunPattern.ReplaceAllString(out, RedactedMarker)

	// Truncation runs last so redaction markers are never clipped mid-marker.
	if len(out) > MaxMessageLength {
		out = out[:MaxMessageLength] + TruncationSuffix
	}

	return out
}

// Error sanitizes an error's message. A nil error yields an empty string.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return Sanitize(err.Error())
}
