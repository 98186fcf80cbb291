package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOTPChallenge_State(t *testing.T) {
	issued := time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)
	expires := issued.Add(5 * time.Minute)

	tests := []struct {
		name     string
		verified bool
		now      time.Time
		want     OTPState
	}{
		{name: "pending inside window", now: issued.Add(time.Minute), want: OTPStatePending},
		{name: "pending at the boundary", now: expires, want: OTPStatePending},
		{name: "expired after the boundary", now: expires.Add(time.Nanosecond), want: OTPStateExpired},
		{name: "verified inside window", verified: true, now: issued.Add(time.Minute), want: OTPStateVerified},
		{name: "verified then expired", verified: true, now: expires.Add(time.Second), want: OTPStateExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &OTPChallenge{Verified: tt.verified, ExpiresAt: expires}
			assert.Equal(t, tt.want, c.State(tt.now))
		})
	}

	t.Run("nil is none", func(t *testing.T) {
		var c *OTPChallenge
		assert.Equal(t, OTPStateNone, c.State(issued))
		assert.Equal(t, "None", c.State(issued).String())
	})
}

func TestOTPChallenge_Reissue(t *testing.T) {
	// Arrange
	now := time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)
	c := &OTPChallenge{Verified: true, ExpiresAt: now.Add(-time.Hour)}

	// Act
	c.Reissue(now, 5*time.Minute)

	// Assert
	assert.False(t, c.Verified)
	assert.Equal(t, now.Add(5*time.Minute), c.ExpiresAt)
	assert.Equal(t, now, c.UpdatedAt)
	assert.Equal(t, OTPStatePending, c.State(now))
}

func TestHandles(t *testing.T) {
	assert.Equal(t, "user_0001", PhoneHandle("+19995550001"))
	assert.Equal(t, "user_12", PhoneHandle("12"))
	assert.Equal(t, "chef.ravi", EmailHandle("chef.ravi@example.com"))
	assert.Equal(t, LanguageHindi, LanguageFromString(" HI "))
	assert.Equal(t, LanguageEnglish, LanguageFromString("fr"))
}

func TestUser_FullName(t *testing.T) {
	u := User{FirstName: "Ravi", LastName: ""}
	assert.Equal(t, "Ravi", u.FullName())
	assert.False(t, u.HasPassword())
}
