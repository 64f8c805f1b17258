// Package secureid generates cryptographically unpredictable identifiers
// for request correlation and tracing.
package secureid

import "github.com/google/uuid"

// New returns a random RFC 4122 version-4 identifier in the canonical
// 8-4-4-4-12 form. Randomness comes from crypto/rand, so collisions are
// negligible for the lifetime of a process.
func New() string {
	return uuid.NewString()
}
