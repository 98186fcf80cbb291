package messaging

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrDestinationRequired is returned when a topic or subject is empty.
	ErrDestinationRequired = errors.New("messaging: destination is required")
	// ErrHandlerRequired is returned when Consume is called with a nil handler.
	ErrHandlerRequired = errors.New("messaging: handler is required")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("messaging: client closed")
)

// Messaging is a broker client.
type Messaging interface {
	io.Closer
	Publisher
	Consumer
}

// Publisher sends a message to a topic or subject.
type Publisher interface {
	Publish(ctx context.Context, destination string, msg OutgoingMessage) error
}

// Consumer blocks delivering messages from source to handler until ctx ends.
type Consumer interface {
	Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error
}

// Handler processes one message. With auto ack, nil acks and an error nacks.
type Handler func(ctx context.Context, msg Message) error

// Header is one message header. Keys may repeat.
type Header struct {
	Key   string
	Value []byte
}

// OutgoingMessage is what a publisher hands to the broker.
type OutgoingMessage struct {
	Key     []byte
	Body    []byte
	Headers []Header
}

// Message is a received message.
type Message interface {
	ID() string
	Topic() string
	Body() []byte
	Key() []byte
	// Header returns the first value for key, or "".
	Header(key string) string
	Timestamp() time.Time
	Ack(ctx context.Context) error
	Nack(ctx context.Context) error
}

func headerValue(hs []Header, key string) string {
	for _, h := range hs {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
