package entity

import "errors"

var (
	ErrOTPThrottled = errors.New("identity: otp already sent")
	ErrOTPExpired   = errors.New("identity: otp has expired")
	ErrOTPInvalid   = errors.New("identity: invalid otp")
	ErrOTPNotFound  = errors.New("identity: otp not found")
	ErrOTPDelivery  = errors.New("identity: otp delivery failed")

	ErrInvalidCredentials = errors.New("identity: invalid credentials")
	ErrTokenRevoked       = errors.New("identity: token has been revoked")
	ErrUserExists         = errors.New("identity: user already exists")
)
