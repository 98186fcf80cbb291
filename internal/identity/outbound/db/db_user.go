package db

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/tadka/internal/identity/entity"
	"github.com/shandysiswandi/tadka/internal/pkg/goerror"
	"github.com/shandysiswandi/tadka/internal/pkg/sqlc"
)

// ResolveUserByPhone returns the identity owning draft.PhoneNumber, creating
// it from draft when absent. The boolean reports whether a row was inserted.
// An existing identity gets phone_verified set.
func (s *DB) ResolveUserByPhone(ctx context.Context, draft entity.User) (_ *entity.User, _ bool, err error) {
	ctx, span := s.startSpan(ctx, "ResolveUserByPhone")
	defer func() { s.endSpan(span, err) }()

	var (
		user    *entity.User
		created bool
	)

	now := timestamptz(s.clock.Now())
	err = s.inTx(ctx, func(wtx *sqlc.Queries) error {
		row, err := wtx.InsertPhoneUserIfAbsent(ctx, sqlc.InsertPhoneUserIfAbsentParams{
			ID:          draft.ID,
			PhoneNumber: text(draft.PhoneNumber),
			Handle:      draft.Handle,
			Now:         now,
		})
		switch {
		case err == nil:
			created = true
			if err := wtx.CreateUserProfileIfAbsent(ctx, sqlc.CreateUserProfileIfAbsentParams{
				UserID: row.ID,
				Now:    now,
			}); err != nil {
				return s.mapError(err)
			}
		case errors.Is(err, pgx.ErrNoRows):
			row, err = wtx.MarkUserPhoneVerified(ctx, sqlc.MarkUserPhoneVerifiedParams{
				Now:         now,
				PhoneNumber: text(draft.PhoneNumber),
			})
			if err != nil {
				return s.mapError(err)
			}
		default:
			return s.mapError(err)
		}

		user = toUser(row)
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return user, created, nil
}

// CreateUser inserts the identity and, when set, its extended profile in one
// transaction.
func (s *DB) CreateUser(ctx context.Context, user entity.User) (err error) {
	ctx, span := s.startSpan(ctx, "CreateUser")
	defer func() { s.endSpan(span, err) }()

	now := user.CreatedAt
	if now.IsZero() {
		now = s.clock.Now()
	}

	return s.inTx(ctx, func(wtx *sqlc.Queries) error {
		if err := wtx.CreateUser(ctx, sqlc.CreateUserParams{
			ID:                 user.ID,
			Email:              text(strings.ToLower(user.Email)),
			PhoneNumber:        text(user.PhoneNumber),
			PasswordHash:       text(user.PasswordHash),
			Handle:             user.Handle,
			FirstName:          user.FirstName,
			LastName:           user.LastName,
			LanguagePreference: user.LanguagePreference.String(),
			PhoneVerified:      user.PhoneVerified,
			EmailVerified:      user.EmailVerified,
			Now:                timestamptz(now),
		}); err != nil {
			return s.mapError(err)
		}

		if user.Profile == nil {
			return nil
		}

		prof := *user.Profile
		prof.UserID = user.ID
		if _, err := wtx.UpsertUserProfile(ctx, upsertProfileParams(prof, now)); err != nil {
			return s.mapError(err)
		}

		return nil
	})
}

func (s *DB) ExistsUserByPhone(ctx context.Context, phone string) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "ExistsUserByPhone")
	defer func() { s.endSpan(span, err) }()

	ok, err := s.query.ExistsUserByPhone(ctx, text(phone))
	if err != nil {
		return false, s.mapError(err)
	}

	return ok, nil
}

func (s *DB) GetUserByEmail(ctx context.Context, email string) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByEmail")
	defer func() { s.endSpan(span, err) }()

	row, err := s.query.GetUserByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, s.mapError(err)
	}

	return toUser(row), nil
}

func (s *DB) GetUserByPhone(ctx context.Context, phone string) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByPhone")
	defer func() { s.endSpan(span, err) }()

	row, err := s.query.GetUserByPhone(ctx, text(phone))
	if err != nil {
		return nil, s.mapError(err)
	}

	return toUser(row), nil
}

// GetUserByID loads the identity. With withProfile the extended profile is
// attached when it exists.
func (s *DB) GetUserByID(ctx context.Context, id int64, withProfile bool) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByID")
	defer func() { s.endSpan(span, err) }()

	row, err := s.query.GetUserByID(ctx, id)
	if err != nil {
		return nil, s.mapError(err)
	}

	user := toUser(row)
	if !withProfile {
		return user, nil
	}

	prof, err := s.query.GetUserProfile(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user, nil
		}
		return nil, s.mapError(err)
	}
	user.Profile = toProfile(prof)

	return user, nil
}

func (s *DB) UpdateUserNames(ctx context.Context, in entity.UserNames) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "UpdateUserNames")
	defer func() { s.endSpan(span, err) }()

	row, err := s.query.UpdateUserNames(ctx, sqlc.UpdateUserNamesParams{
		FirstName:          in.FirstName,
		LastName:           in.LastName,
		LanguagePreference: in.LanguagePreference.String(),
		Now:                timestamptz(s.clock.Now()),
		ID:                 in.UserID,
	})
	if err != nil {
		return nil, s.mapError(err)
	}

	return toUser(row), nil
}

func (s *DB) UpdateUserPassword(ctx context.Context, id int64, hash string) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateUserPassword")
	defer func() { s.endSpan(span, err) }()

	n, err := s.query.UpdateUserPassword(ctx, sqlc.UpdateUserPasswordParams{
		PasswordHash: text(hash),
		Now:          timestamptz(s.clock.Now()),
		ID:           id,
	})
	if err != nil {
		return s.mapError(err)
	}
	if n == 0 {
		return goerror.ErrNotFound
	}

	return nil
}
