package auth

import (
	"errors"
	"strings"
)

// ErrInvalidDomain is returned when an email does not belong to the
// organization. Callers must terminate the session on this error.
var ErrInvalidDomain = errors.New("email outside organization domain")

// EnforceDomain accepts an email only when it belongs to the configured
// organization domain. It fails closed: empty or malformed addresses are
// rejected along with foreign domains.
func EnforceDomain(email, orgDomain string) error {
	normalized := strings.ToLower(strings.TrimSpace(email))
	at := strings.LastIndex(normalized, "@")
	if at <= 0 || at == len(normalized)-1 {
		return ErrInvalidDomain
	}
	if normalized[at+1:] != strings.ToLower(strings.TrimSpace(orgDomain)) {
		return ErrInvalidDomain
	}
	return nil
}
