// Package totp computes time-based one-time password codes (RFC 6238)
// from base32-encoded shared secrets.
package totp

import (
	"encoding/base32"
	"math"
	"strings"
	"time"

	ptotp "github.com/pquerna/otp/totp"

	"github.com/liberfy/open2fa/internal/errs"
)

// Interval is the TOTP time step in seconds.
const Interval = 30

// Code is a generated one-time code together with its validity window.
type Code struct {
	// Value is the 6-digit zero-padded code.
	Value string
	// SecondsRemaining is the time left until the code rotates.
	SecondsRemaining float64
	// NextAt is the start of the next 30-second window.
	NextAt time.Time
}

// DecodeSecret normalizes and base32-decodes a shared secret. Lowercase
// input and missing padding are accepted, matching the tolerance of
// common authenticator exports.
func DecodeSecret(secret string) ([]byte, error) {
	s := strings.ToUpper(strings.TrimSpace(secret))
	if n := len(s) % 8; n != 0 {
		s += strings.Repeat("=", 8-n)
	}
	raw, err := base32.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, &errs.DecodeError{Err: err}
	}
	return raw, nil
}

// Generate computes the code for secret at the given time. A malformed
// secret yields a DecodeError scoped to that one secret; callers
// generating codes in a batch keep going with the rest.
//
// Generate is pure: two calls with the same secret and timestamps in
// the same 30-second window return the same code.
func Generate(secret string, at time.Time) (Code, error) {
	if _, err := DecodeSecret(secret); err != nil {
		return Code{}, err
	}
	value, err := ptotp.GenerateCode(secret, at)
	if err != nil {
		return Code{}, &errs.DecodeError{Err: err}
	}
	interval := at.Unix() / Interval
	next := time.Unix((interval+1)*Interval, 0)
	elapsed := math.Mod(float64(at.UnixNano())/float64(time.Second), Interval)
	return Code{
		Value:            value,
		SecondsRemaining: Interval - elapsed,
		NextAt:           next,
	}, nil
}

// UntilNextWindow returns the duration from now to the start of the
// next 30-second window. The generate loop sleeps exactly this long.
func UntilNextWindow(now time.Time) time.Duration {
	next := (now.Unix()/Interval + 1) * Interval
	return time.Unix(next, 0).Sub(now)
}
