package otp

import (
	"errors"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// secretSize is the number of random bytes behind a secret. 20 bytes encode
// to exactly 32 base32 characters.
const secretSize = 20

// ErrEmptySecret is returned when a code is derived from an empty secret.
var ErrEmptySecret = errors.New("otp: empty secret")

// Generator creates secrets and derives window-bound codes from them.
type Generator struct {
	issuer string
	period uint
	skew   uint
	digits otp.Digits
}

// Config holds Generator settings. Zero values fall back to a 300 second
// window, six digits and no skew.
type Config struct {
	Issuer string
	Period uint
	Skew   uint
	Digits otp.Digits
}

// NewGenerator builds a Generator.
func NewGenerator(cfg Config) *Generator {
	if cfg.Digits != otp.DigitsSix && cfg.Digits != otp.DigitsEight {
		cfg.Digits = otp.DigitsSix
	}
	if cfg.Period == 0 {
		cfg.Period = 300
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "tadka"
	}

	return &Generator{
		issuer: cfg.Issuer,
		period: cfg.Period,
		skew:   cfg.Skew,
		digits: cfg.Digits,
	}
}

// Period returns the window length.
func (g *Generator) Period() time.Duration {
	return time.Duration(g.period) * time.Second
}

// NewSecret returns a random 32 character base32 secret.
func (g *Generator) NewSecret() (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      g.issuer,
		AccountName: "challenge",
		Period:      g.period,
		SecretSize:  secretSize,
		Digits:      g.digits,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", err
	}

	return key.Secret(), nil
}

// DeriveCode returns the code of the window that contains at.
func (g *Generator) DeriveCode(secret string, at time.Time) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}

	return totp.GenerateCodeCustom(secret, at, g.opts())
}

func (g *Generator) opts() totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    g.period,
		Skew:      g.skew,
		Digits:    g.digits,
		Algorithm: otp.AlgorithmSHA1,
	}
}
