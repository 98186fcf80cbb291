package messaging

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// Memory delivers messages to consumers in the same process. Each group
// receives every message once; consumers without a group get their own copy.
type Memory struct {
	mu     sync.RWMutex
	subs   map[string]map[string]chan *memoryMessage
	seq    atomic.Uint64
	closed bool
}

// NewMemory returns an empty in process broker.
func NewMemory() *Memory {
	return &Memory{subs: make(map[string]map[string]chan *memoryMessage)}
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *Memory) Publish(ctx context.Context, destination string, msg OutgoingMessage) error {
	if destination == "" {
		return ErrDestinationRequired
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrClosed
	}

	for _, ch := range m.subs[destination] {
		mm := &memoryMessage{
			id:    strconv.FormatUint(m.seq.Add(1), 10),
			topic: destination,
			out:   msg,
			at:    time.Now(),
		}
		select {
		case ch <- mm:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}

func (m *Memory) Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error {
	if source == "" {
		return ErrDestinationRequired
	}
	if handler == nil {
		return ErrHandlerRequired
	}

	co := newConsumeOptions(opts...)
	group := co.group
	if group == "" {
		group = "anon-" + strconv.FormatUint(m.seq.Add(1), 10)
	}

	ch, err := m.subscribe(source, group)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	for range co.concurrency {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case mm := <-ch:
					//nolint:errcheck // logged by dispatch
					_ = dispatch(ctx, DriverMemory, handler, mm, co.autoAck)
				}
			}
		})
	}

	wg.Wait()
	m.unsubscribe(source, group)

	return ctx.Err()
}

func (m *Memory) subscribe(topic, group string) (chan *memoryMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}

	if m.subs[topic] == nil {
		m.subs[topic] = make(map[string]chan *memoryMessage)
	}
	ch, ok := m.subs[topic][group]
	if !ok {
		ch = make(chan *memoryMessage, 64)
		m.subs[topic][group] = ch
	}
	return ch, nil
}

func (m *Memory) unsubscribe(topic, group string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subs[topic], group)
}

type memoryMessage struct {
	id    string
	topic string
	out   OutgoingMessage
	at    time.Time
}

func (mm *memoryMessage) ID() string                 { return mm.id }
func (mm *memoryMessage) Topic() string              { return mm.topic }
func (mm *memoryMessage) Body() []byte               { return mm.out.Body }
func (mm *memoryMessage) Key() []byte                { return mm.out.Key }
func (mm *memoryMessage) Header(key string) string   { return headerValue(mm.out.Headers, key) }
func (mm *memoryMessage) Timestamp() time.Time       { return mm.at }
func (mm *memoryMessage) Ack(context.Context) error  { return nil }
func (mm *memoryMessage) Nack(context.Context) error { return nil }
