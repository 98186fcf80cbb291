package db

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shandysiswandi/tadka/internal/identity/entity"
	"github.com/shandysiswandi/tadka/internal/pkg/sqlc"
	"github.com/shandysiswandi/tadka/internal/pkg/valueobject"
)

func text(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func timestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: !t.IsZero()}
}

func date(t *time.Time) pgtype.Date {
	if t == nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: *t, Valid: true}
}

func toChallenge(row sqlc.OtpChallenge) *entity.OTPChallenge {
	return &entity.OTPChallenge{
		PhoneNumber: row.PhoneNumber,
		Code:        row.Code,
		SecretEnc:   row.SecretEnc,
		Verified:    row.Verified,
		ExpiresAt:   row.ExpiresAt.Time,
		CreatedAt:   row.CreatedAt.Time,
		UpdatedAt:   row.UpdatedAt.Time,
	}
}

func toUser(row sqlc.User) *entity.User {
	return &entity.User{
		ID:                 row.ID,
		Email:              row.Email.String,
		PhoneNumber:        row.PhoneNumber.String,
		PasswordHash:       row.PasswordHash.String,
		Handle:             row.Handle,
		FirstName:          row.FirstName,
		LastName:           row.LastName,
		LanguagePreference: entity.LanguageFromString(row.LanguagePreference),
		PhoneVerified:      row.PhoneVerified,
		EmailVerified:      row.EmailVerified,
		CreatedAt:          row.CreatedAt.Time,
		UpdatedAt:          row.UpdatedAt.Time,
	}
}

func toProfile(row sqlc.UserProfile) *entity.Profile {
	p := &entity.Profile{
		UserID:            row.UserID,
		Bio:               row.Bio,
		AvatarURL:         row.AvatarUrl,
		CookingExperience: entity.CookingExperience(row.CookingExperience),
		FavoriteCuisines:  row.FavoriteCuisines,
		Preferences:       row.Preferences,
		CreatedAt:         row.CreatedAt.Time,
		UpdatedAt:         row.UpdatedAt.Time,
	}
	if row.DateOfBirth.Valid {
		dob := row.DateOfBirth.Time
		p.DateOfBirth = &dob
	}
	if p.FavoriteCuisines == nil {
		p.FavoriteCuisines = []string{}
	}
	if p.Preferences == nil {
		p.Preferences = valueobject.JSONMap{}
	}
	return p
}

func upsertProfileParams(p entity.Profile, now time.Time) sqlc.UpsertUserProfileParams {
	cuisines := p.FavoriteCuisines
	if cuisines == nil {
		cuisines = []string{}
	}
	prefs := p.Preferences
	if prefs == nil {
		prefs = valueobject.JSONMap{}
	}
	exp := p.CookingExperience
	if exp == "" {
		exp = entity.CookingBeginner
	}

	return sqlc.UpsertUserProfileParams{
		UserID:            p.UserID,
		Bio:               p.Bio,
		AvatarUrl:         p.AvatarURL,
		DateOfBirth:       date(p.DateOfBirth),
		CookingExperience: string(exp),
		FavoriteCuisines:  cuisines,
		Preferences:       prefs,
		Now:               timestamptz(now),
	}
}
