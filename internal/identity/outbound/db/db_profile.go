package db

import (
	"context"

	"github.com/shandysiswandi/tadka/internal/identity/entity"
	"github.com/shandysiswandi/tadka/internal/pkg/sqlc"
)

// GetOrCreateProfile returns the extended profile of userID, inserting a
// default one first when missing.
func (s *DB) GetOrCreateProfile(ctx context.Context, userID int64) (_ *entity.Profile, err error) {
	ctx, span := s.startSpan(ctx, "GetOrCreateProfile")
	defer func() { s.endSpan(span, err) }()

	if err := s.query.CreateUserProfileIfAbsent(ctx, sqlc.CreateUserProfileIfAbsentParams{
		UserID: userID,
		Now:    timestamptz(s.clock.Now()),
	}); err != nil {
		return nil, s.mapError(err)
	}

	row, err := s.query.GetUserProfile(ctx, userID)
	if err != nil {
		return nil, s.mapError(err)
	}

	return toProfile(row), nil
}

func (s *DB) UpsertProfile(ctx context.Context, p entity.Profile) (_ *entity.Profile, err error) {
	ctx, span := s.startSpan(ctx, "UpsertProfile")
	defer func() { s.endSpan(span, err) }()

	now := p.UpdatedAt
	if now.IsZero() {
		now = s.clock.Now()
	}

	row, err := s.query.UpsertUserProfile(ctx, upsertProfileParams(p, now))
	if err != nil {
		return nil, s.mapError(err)
	}

	return toProfile(row), nil
}
