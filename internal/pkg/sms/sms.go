package sms

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DriverTwilio = "twilio"
	DriverLog    = "log"
)

var (
	// ErrUnknownDriver is returned for an unsupported sms.driver value.
	ErrUnknownDriver = errors.New("sms: unknown driver")
	// ErrRecipientRequired is returned when the destination number is empty.
	ErrRecipientRequired = errors.New("sms: recipient is required")
	// ErrRejected wraps a provider refusal.
	ErrRejected = errors.New("sms: provider rejected message")
)

// Receipt is what the provider returned for an accepted message.
type Receipt struct {
	ID     string
	Status string
}

// Sender sends a single text message.
type Sender interface {
	Send(ctx context.Context, to, body string) (Receipt, error)
}

// Config selects and configures a driver.
type Config struct {
	Driver  string
	Timeout time.Duration
	Twilio  TwilioConfig
}

// New returns the driver named by cfg.Driver.
func New(cfg Config) (Sender, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case DriverTwilio:
		if cfg.Twilio.Timeout == 0 {
			cfg.Twilio.Timeout = cfg.Timeout
		}
		return NewTwilio(cfg.Twilio)
	case DriverLog, "":
		return NewLog(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
