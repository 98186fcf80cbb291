// Package otp derives short numeric codes from a shared base32 secret using
// the TOTP construction (RFC 6238).
//
// A Generator is configured with a window length. Every instant inside the
// same window yields the same code for a given secret, so a code can be
// re-derived later from the persisted secret instead of being stored as the
// only source of truth.
package otp
