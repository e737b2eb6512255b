package auth

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// Side token lifetimes. Verification tokens give the recipient a day,
// reset tokens one hour.
const (
	VerificationTokenTTL  = 24 * time.Hour
	PasswordResetTokenTTL = time.Hour
)

const sideTokenBytes = 20

// NewSideToken returns a 40 character hex token from 20 random bytes.
// Side tokens are single use and stored raw alongside their absolute
// expiry; redemption compares by equality and expiry at lookup time.
func NewSideToken() (string, error) {
	buf := make([]byte, sideTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", wrapInternal(err, "unable to generate token")
	}
	return hex.EncodeToString(buf), nil
}

// SideTokenExpiry computes the absolute expiry for a token minted now.
func SideTokenExpiry(ttl time.Duration) time.Time {
	return time.Now().Add(ttl)
}

// SideTokenExpired reports whether the stored expiry has passed. A nil
// expiry counts as expired, the token was never issued or already cleared.
func SideTokenExpired(expiry *time.Time, now time.Time) bool {
	return expiry == nil || now.After(*expiry)
}
