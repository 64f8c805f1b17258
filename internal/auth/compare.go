package auth

import "crypto/subtle"

// subtleCompare reports whether two byte slices are equal in constant time.
func subtleCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
