package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shandysiswandi/tadka/internal/identity/entity"
	"github.com/shandysiswandi/tadka/internal/pkg/goerror"
	"github.com/shandysiswandi/tadka/internal/pkg/valueobject"
)

// ProfileExtended returns the extended profile, creating an empty one on
// first access.
func (s *Usecase) ProfileExtended(ctx context.Context) (*entity.Profile, error) {
	ctx, span := s.startSpan(ctx, "ProfileExtended")
	defer span.End()

	user, err := s.authenticated(ctx, false)
	if err != nil {
		return nil, err
	}

	p, err := s.repoDB.GetOrCreateProfile(ctx, user.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get or create profile", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return p, nil
}

type ProfileExtendedUpdateInput struct {
	Bio               string   `validate:"max=500"`
	AvatarURL         string   `validate:"omitempty,url,max=2048"`
	DateOfBirth       string   `validate:"omitempty,datetime=2006-01-02"`
	CookingExperience string   `validate:"omitempty,oneof=beginner intermediate advanced expert"`
	FavoriteCuisines  []string `validate:"max=20,dive,max=50"`
	Preferences       map[string]any
}

// ProfileExtendedUpdate replaces the extended profile.
func (s *Usecase) ProfileExtendedUpdate(ctx context.Context, in ProfileExtendedUpdateInput) (*entity.Profile, error) {
	ctx, span := s.startSpan(ctx, "ProfileExtendedUpdate")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	var dob *time.Time
	if in.DateOfBirth != "" {
		t, err := time.Parse(time.DateOnly, in.DateOfBirth)
		if err != nil {
			return nil, goerror.NewInvalidInput(nil, "date_of_birth", "date_of_birth must be YYYY-MM-DD")
		}
		if !t.Before(s.clock.Now()) {
			return nil, goerror.NewInvalidInput(nil, "date_of_birth", "date_of_birth must be in the past")
		}
		dob = &t
	}

	user, err := s.authenticated(ctx, false)
	if err != nil {
		return nil, err
	}

	cuisines := lo.Uniq(lo.Compact(lo.Map(in.FavoriteCuisines, func(c string, _ int) string {
		return strings.TrimSpace(c)
	})))

	p, err := s.repoDB.UpsertProfile(ctx, entity.Profile{
		UserID:            user.ID,
		Bio:               strings.TrimSpace(in.Bio),
		AvatarURL:         strings.TrimSpace(in.AvatarURL),
		DateOfBirth:       dob,
		CookingExperience: entity.CookingExperience(lo.CoalesceOrEmpty(in.CookingExperience, entity.CookingBeginner.String())),
		FavoriteCuisines:  cuisines,
		Preferences:       valueobject.JSONMap(lo.Ternary(in.Preferences == nil, map[string]any{}, in.Preferences)),
		UpdatedAt:         s.clock.Now(),
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo upsert profile", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return p, nil
}
