package messaging

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func subscribers(m *Memory, topic string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subs[topic])
}

func TestNewFromDriver(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		opts    FactoryOptions
		wantErr error
	}{
		{name: "memory", driver: " Memory "},
		{name: "unknown", driver: "nsq", wantErr: ErrUnknownDriver},
		{name: "nats without url", driver: DriverNATS, wantErr: ErrNATSURLRequired},
		{name: "kafka without brokers", driver: DriverKafka, wantErr: ErrKafkaBrokersRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewFromDriver(tt.driver, tt.opts)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, m.Close())
		})
	}
}

func TestMemory_PublishConsume(t *testing.T) {
	// Arrange
	m := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- m.Consume(ctx, "identity.user.registered", func(_ context.Context, msg Message) error {
			got <- msg
			return nil
		}, WithGroup("notification"), WithAutoAck(true))
	}()
	require.Eventually(t, func() bool { return subscribers(m, "identity.user.registered") == 1 }, time.Second, 5*time.Millisecond)

	// Act
	err := m.Publish(ctx, "identity.user.registered", OutgoingMessage{
		Key:     []byte("42"),
		Body:    []byte(`{"user_id":"42"}`),
		Headers: []Header{{Key: "cid", Value: []byte("abc")}},
	})

	// Assert
	require.NoError(t, err)
	select {
	case msg := <-got:
		assert.Equal(t, "identity.user.registered", msg.Topic())
		assert.Equal(t, []byte("42"), msg.Key())
		assert.JSONEq(t, `{"user_id":"42"}`, string(msg.Body()))
		assert.Equal(t, "abc", msg.Header("cid"))
		assert.Empty(t, msg.Header("missing"))
	case <-time.After(time.Second):
		t.Fatal("message not delivered")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, 0, subscribers(m, "identity.user.registered"))
}

func TestMemory_HandlerPanicIsContained(t *testing.T) {
	m := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	go func() {
		//nolint:errcheck // ends with ctx
		_ = m.Consume(ctx, "t", func(context.Context, Message) error {
			if calls.Add(1) == 1 {
				panic("boom")
			}
			return nil
		}, WithAutoAck(true))
	}()
	require.Eventually(t, func() bool { return subscribers(m, "t") == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, m.Publish(ctx, "t", OutgoingMessage{Body: []byte("1")}))
	require.NoError(t, m.Publish(ctx, "t", OutgoingMessage{Body: []byte("2")}))

	assert.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestMemory_Validation(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	assert.ErrorIs(t, m.Publish(ctx, "", OutgoingMessage{}), ErrDestinationRequired)
	assert.ErrorIs(t, m.Consume(ctx, "t", nil), ErrHandlerRequired)

	require.NoError(t, m.Close())
	assert.ErrorIs(t, m.Publish(ctx, "t", OutgoingMessage{}), ErrClosed)
}

type settleSpy struct {
	memoryMessage
	acked, nacked bool
}

func (s *settleSpy) Ack(context.Context) error  { s.acked = true; return nil }
func (s *settleSpy) Nack(context.Context) error { s.nacked = true; return nil }

func TestDispatch_AutoAck(t *testing.T) {
	tests := []struct {
		name       string
		handler    Handler
		autoAck    bool
		wantAck    bool
		wantNack   bool
		wantErrMsg string
	}{
		{name: "ack on success", handler: func(context.Context, Message) error { return nil }, autoAck: true, wantAck: true},
		{name: "nack on error", handler: func(context.Context, Message) error { return errors.New("x") }, autoAck: true, wantNack: true, wantErrMsg: "x"},
		{name: "nack on panic", handler: func(context.Context, Message) error { panic("p") }, autoAck: true, wantNack: true, wantErrMsg: "panic"},
		{name: "manual", handler: func(context.Context, Message) error { return nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spy := &settleSpy{}
			err := dispatch(context.Background(), "test", tt.handler, spy, tt.autoAck)

			if tt.wantErrMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantAck, spy.acked)
			assert.Equal(t, tt.wantNack, spy.nacked)
		})
	}
}

func TestNewConsumeOptions(t *testing.T) {
	co := newConsumeOptions(WithGroup("g"), WithConcurrency(0), nil, WithAutoAck(true))
	assert.Equal(t, consumeOptions{group: "g", concurrency: 1, autoAck: true}, co)

	co = newConsumeOptions(WithConcurrency(4))
	assert.Equal(t, 4, co.concurrency)
}
