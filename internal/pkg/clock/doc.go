// Package clock lets code depend on Clocker instead of time.Now.
//
// OTP expiry, token lifetimes and profile timestamps all read the clock, so
// tests pin it with Manual and step it across the five minute OTP window.
package clock
