// Package guard validates inbound sync requests before any work is done.
// All checks are pure: they read the request and nothing else.
package guard

import (
	"errors"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

// Validation limits.
const (
	// MaxAccountIDLength bounds account identifiers.
	MaxAccountIDLength = 64
)

// Validation errors. Messages are safe to display: they never echo the
// offending input, which could itself be a secret.
var (
	ErrAccountIDEmpty    = errors.New("account id must be a non-empty string")
	ErrAccountIDTooLong  = errors.New("account id exceeds maximum length")
	ErrAccountIDInvalid  = errors.New("account id contains invalid characters")
	ErrOriginMissing     = errors.New("request carries no origin")
	ErrOriginUntrusted   = errors.New("request origin is not trusted")
	ErrOriginUnparseable = errors.New("request origin is malformed")
)

// validAccountIDPattern matches the account id allow-list:
// alphanumerics plus underscore and hyphen.
var validAccountIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateAccountID checks a sync target identifier.
func ValidateAccountID(id string) error {
	if id == "" {
		return ErrAccountIDEmpty
	}

	if len(id) > MaxAccountIDLength {
		return ErrAccountIDTooLong
	}

	if !validAccountIDPattern.MatchString(id) {
		return ErrAccountIDInvalid
	}

	return nil
}

// ValidateOrigin checks that the request's declared origin matches one of
// the server's trusted origins. The Origin header is authoritative; Referer
// is consulted when Origin is absent. A request carrying neither is rejected.
func ValidateOrigin(r *http.Request, trusted []string) error {
	if len(trusted) == 0 {
		return ErrOriginUntrusted
	}

	declared := r.Header.Get("Origin")
	if declared == "" {
		if ref := r.Header.Get("Referer"); ref != "" {
			parsed, err := url.Parse(ref)
			if err != nil || parsed.Scheme == "" || parsed.Host == "" {
				return ErrOriginUnparseable
			}
			declared = parsed.Scheme + "://" + parsed.Host
		}
	}

	if declared == "" {
		return ErrOriginMissing
	}

	normalized := strings.ToLower(strings.TrimSuffix(declared, "/"))
	for _, origin := range trusted {
		if normalized == strings.ToLower(strings.TrimSuffix(origin, "/")) {
			return nil
		}
	}

	return ErrOriginUntrusted
}
