// Package tokens inspects the payload of bearer tokens to schedule refreshes.
//
// Nothing in here verifies signatures. The decoded expiry is a local,
// non-authoritative hint used only to decide whether to preemptively refresh.
// It must never be used to authorize actions, the backend remains the sole
// authority on token validity.
package tokens

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var parser = jwt.NewParser()

// Decode parses the token payload without verifying the signature. It returns
// nil for any malformed input and never panics.
func Decode(token string) jwt.MapClaims {
	claims := jwt.MapClaims{}
	_, _, err := parser.ParseUnverified(token, claims)
	if err != nil {
		return nil
	}
	return claims
}

func expiresAt(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	_, _, err := parser.ParseUnverified(token, &claims)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// IsExpired reports whether the token's expiry has passed. Tokens that cannot
// be decoded or carry no expiry claim are treated as expired (fail closed).
func IsExpired(token string) bool {
	expiry, ok := expiresAt(token)
	if !ok {
		return true
	}
	return !expiry.After(time.Now())
}

// TimeRemaining returns how long until the token expires, zero for expired or
// undecodable tokens.
func TimeRemaining(token string) time.Duration {
	expiry, ok := expiresAt(token)
	if !ok {
		return 0
	}
	remaining := time.Until(expiry)
	if remaining < 0 {
		return 0
	}
	return remaining
}
