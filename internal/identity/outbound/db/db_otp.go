package db

import (
	"context"
	"time"

	"github.com/shandysiswandi/tadka/internal/identity/entity"
	"github.com/shandysiswandi/tadka/internal/pkg/sqlc"
)

// GetOrCreateChallenge inserts draft when the phone has no challenge yet, then
// hands the locked row to fn. Whatever fn leaves in the challenge is written
// back before commit. The row stays locked for the whole callback so two
// requests for the same phone are serialized.
func (s *DB) GetOrCreateChallenge(
	ctx context.Context,
	draft entity.OTPChallenge,
	fn func(c *entity.OTPChallenge, created bool) error,
) (err error) {
	ctx, span := s.startSpan(ctx, "GetOrCreateChallenge")
	defer func() { s.endSpan(span, err) }()

	return s.inTx(ctx, func(wtx *sqlc.Queries) error {
		inserted, err := wtx.InsertOTPChallengeIfAbsent(ctx, sqlc.InsertOTPChallengeIfAbsentParams{
			PhoneNumber: draft.PhoneNumber,
			Code:        draft.Code,
			SecretEnc:   draft.SecretEnc,
			ExpiresAt:   timestamptz(draft.ExpiresAt),
			Now:         timestamptz(draft.CreatedAt),
		})
		if err != nil {
			return s.mapError(err)
		}

		row, err := wtx.GetOTPChallengeForUpdate(ctx, draft.PhoneNumber)
		if err != nil {
			return s.mapError(err)
		}

		chal := toChallenge(row)
		if err := fn(chal, inserted == 1); err != nil {
			return err
		}

		return s.mapError(s.writeChallenge(ctx, wtx, chal))
	})
}

// VerifyChallenge locks the challenge of phone and hands it to fn. Changes are
// persisted only when fn returns nil.
func (s *DB) VerifyChallenge(ctx context.Context, phone string, fn func(c *entity.OTPChallenge) error) (err error) {
	ctx, span := s.startSpan(ctx, "VerifyChallenge")
	defer func() { s.endSpan(span, err) }()

	return s.inTx(ctx, func(wtx *sqlc.Queries) error {
		row, err := wtx.GetOTPChallengeForUpdate(ctx, phone)
		if err != nil {
			return s.mapError(err)
		}

		chal := toChallenge(row)
		if err := fn(chal); err != nil {
			return err
		}

		return s.mapError(s.writeChallenge(ctx, wtx, chal))
	})
}

func (s *DB) DeleteStaleChallenges(ctx context.Context, before time.Time) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "DeleteStaleChallenges")
	defer func() { s.endSpan(span, err) }()

	n, err := s.query.DeleteOTPChallengesExpiredBefore(ctx, timestamptz(before))
	if err != nil {
		return 0, s.mapError(err)
	}

	return n, nil
}

func (s *DB) writeChallenge(ctx context.Context, wtx *sqlc.Queries, c *entity.OTPChallenge) error {
	return wtx.UpdateOTPChallenge(ctx, sqlc.UpdateOTPChallengeParams{
		Code:        c.Code,
		Verified:    c.Verified,
		ExpiresAt:   timestamptz(c.ExpiresAt),
		UpdatedAt:   timestamptz(c.UpdatedAt),
		PhoneNumber: c.PhoneNumber,
	})
}
