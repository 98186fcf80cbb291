package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// ErrNATSURLRequired is returned when NATSConfig.URL is empty.
var ErrNATSURLRequired = errors.New("messaging: nats url is required")

// NATSConfig configures the NATS driver.
type NATSConfig struct {
	URL     string
	Name    string
	Options []nats.Option
}

// NATS publishes with core NATS and consumes through queue subscriptions.
type NATS struct {
	conn *nats.Conn

	mu     sync.Mutex
	closed bool
}

// NewNATS connects to cfg.URL.
func NewNATS(cfg NATSConfig) (*NATS, error) {
	if cfg.URL == "" {
		return nil, ErrNATSURLRequired
	}

	opts := append([]nats.Option{nats.Name(cfg.Name), nats.MaxReconnects(-1)}, cfg.Options...)
	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("messaging: nats connect: %w", err)
	}

	return &NATS{conn: conn}, nil
}

// Close drains the connection so in flight handlers finish.
func (n *NATS) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return nil
	}
	n.closed = true
	return n.conn.Drain()
}

func (n *NATS) Publish(ctx context.Context, destination string, msg OutgoingMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if destination == "" {
		return ErrDestinationRequired
	}

	nm := nats.NewMsg(destination)
	nm.Data = msg.Body
	for _, h := range msg.Headers {
		nm.Header.Add(h.Key, string(h.Value))
	}

	if err := n.conn.PublishMsg(nm); err != nil {
		return fmt.Errorf("messaging: nats publish: %w", err)
	}
	if err := n.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("messaging: nats flush: %w", err)
	}

	return nil
}

func (n *NATS) Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error {
	if source == "" {
		return ErrDestinationRequired
	}
	if handler == nil {
		return ErrHandlerRequired
	}

	co := newConsumeOptions(opts...)
	ch := make(chan *nats.Msg, co.concurrency*8)

	sub, err := n.conn.ChanQueueSubscribe(source, co.group, ch)
	if err != nil {
		return fmt.Errorf("messaging: nats subscribe: %w", err)
	}

	var wg sync.WaitGroup
	for range co.concurrency {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case m := <-ch:
					//nolint:errcheck // logged by dispatch; core nats has no redelivery
					_ = dispatch(ctx, DriverNATS, handler, &natsMessage{msg: m, at: time.Now()}, co.autoAck)
				}
			}
		})
	}

	<-ctx.Done()
	uerr := sub.Unsubscribe()
	wg.Wait()

	return errors.Join(ctx.Err(), uerr)
}

type natsMessage struct {
	msg *nats.Msg
	at  time.Time
}

func (m *natsMessage) ID() string                 { return m.msg.Header.Get(nats.MsgIdHdr) }
func (m *natsMessage) Topic() string              { return m.msg.Subject }
func (m *natsMessage) Body() []byte               { return m.msg.Data }
func (m *natsMessage) Key() []byte                { return nil }
func (m *natsMessage) Header(key string) string   { return m.msg.Header.Get(key) }
func (m *natsMessage) Timestamp() time.Time       { return m.at }
func (m *natsMessage) Ack(context.Context) error  { return ignoreNoReply(m.msg.Ack()) }
func (m *natsMessage) Nack(context.Context) error { return ignoreNoReply(m.msg.Nak()) }

// ignoreNoReply treats core NATS messages, which cannot be acked, as settled.
func ignoreNoReply(err error) error {
	if errors.Is(err, nats.ErrMsgNoReply) || errors.Is(err, nats.ErrMsgNotBound) {
		return nil
	}
	return err
}
