package entity

import "time"

// OTPChallenge is the single authoritative challenge row of a phone number.
//
// SecretEnc holds the sealed base32 secret. The secret never changes for the
// lifetime of the row; resends derive a fresh code from it.
type OTPChallenge struct {
	PhoneNumber string
	Code        string
	SecretEnc   []byte
	Verified    bool
	ExpiresAt   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Expired reports whether the window closed before now. The boundary instant
// itself still belongs to the window.
func (c *OTPChallenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// State evaluates the challenge at now. Expiry wins over verification.
func (c *OTPChallenge) State(now time.Time) OTPState {
	if c == nil {
		return OTPStateNone
	}

	switch {
	case c.Expired(now):
		return OTPStateExpired
	case c.Verified:
		return OTPStateVerified
	default:
		return OTPStatePending
	}
}

// Reissue opens a new window starting at now. The caller sets the new code.
func (c *OTPChallenge) Reissue(now time.Time, ttl time.Duration) {
	c.Verified = false
	c.ExpiresAt = now.Add(ttl)
	c.UpdatedAt = now
}
