package mail

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrNoRecipients is returned when To is empty.
	ErrNoRecipients = errors.New("mail: no recipients")
	// ErrNoSender is returned when neither the message nor the driver has a From address.
	ErrNoSender = errors.New("mail: no sender")
)

// Message is a provider agnostic email.
type Message struct {
	From     string
	To       []string
	Subject  string
	TextBody string
	HTMLBody string
}

// Mail delivers a Message.
type Mail interface {
	io.Closer
	Send(ctx context.Context, msg Message) error
}
