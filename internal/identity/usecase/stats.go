package usecase

import (
	"context"

	"github.com/samber/lo"
	"github.com/shandysiswandi/tadka/internal/identity/entity"
)

type StatsOutput struct {
	ProfileCompletion int
	MemberSince       string
	PhoneVerified     bool
	EmailVerified     bool
}

func (s *Usecase) Stats(ctx context.Context) (*StatsOutput, error) {
	ctx, span := s.startSpan(ctx, "Stats")
	defer span.End()

	user, err := s.authenticated(ctx, true)
	if err != nil {
		return nil, err
	}

	return &StatsOutput{
		ProfileCompletion: profileCompletion(user),
		MemberSince:       user.CreatedAt.Format("January 2006"),
		PhoneVerified:     user.PhoneVerified,
		EmailVerified:     user.EmailVerified,
	}, nil
}

// profileCompletion is the floored percentage of filled fields. The three
// extended fields only count when the profile exists.
func profileCompletion(u *entity.User) int {
	avatar := ""
	if u.Profile != nil {
		avatar = u.Profile.AvatarURL
	}

	filled := []bool{u.FirstName != "", u.LastName != "", avatar != "", u.PhoneNumber != ""}
	if u.Profile != nil {
		filled = append(filled,
			u.Profile.Bio != "",
			u.Profile.CookingExperience != "",
			len(u.Profile.FavoriteCuisines) > 0,
		)
	}

	return lo.Count(filled, true) * 100 / len(filled)
}
