package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/tadka/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	prefixDenylist = "identity:denylist:"
	prefixAttempts = "identity:otp:attempts:"
)

type Cache struct {
	client redis.Cmdable
	ins    instrument.Instrumentation
}

func NewCache(client redis.Cmdable, ins instrument.Instrumentation) *Cache {
	return &Cache{client: client, ins: ins}
}

func (s *Cache) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.outbound.cache").Start(ctx, name)
}

func (s *Cache) endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// RevokeToken puts jti on the denylist for ttl. It reports false when the
// token was already revoked.
func (s *Cache) RevokeToken(ctx context.Context, jti string, ttl time.Duration) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "RevokeToken")
	defer func() { s.endSpan(span, err) }()

	ok, err := s.client.SetNX(ctx, prefixDenylist+jti, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

func (s *Cache) IsTokenRevoked(ctx context.Context, jti string) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "IsTokenRevoked")
	defer func() { s.endSpan(span, err) }()

	n, err := s.client.Exists(ctx, prefixDenylist+jti).Result()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

// CountVerifyAttempts returns the failed guesses recorded against phoneKey for
// the code window ending at window.
func (s *Cache) CountVerifyAttempts(ctx context.Context, phoneKey string, window time.Time) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "CountVerifyAttempts")
	defer func() { s.endSpan(span, err) }()

	n, err := s.client.Get(ctx, attemptsKey(phoneKey, window)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	return n, nil
}

func (s *Cache) IncrVerifyAttempts(ctx context.Context, phoneKey string, window time.Time, ttl time.Duration) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "IncrVerifyAttempts")
	defer func() { s.endSpan(span, err) }()

	key := attemptsKey(phoneKey, window)

	var incr *redis.IntCmd
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, key)
		p.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return 0, err
	}

	return incr.Val(), nil
}

func attemptsKey(phoneKey string, window time.Time) string {
	return prefixAttempts + phoneKey + ":" + strconv.FormatInt(window.Unix(), 10)
}
