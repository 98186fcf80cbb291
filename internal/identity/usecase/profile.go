package usecase

import (
	"context"

	"github.com/shandysiswandi/tadka/internal/identity/entity"
)

type ProfileInput struct{}

// Profile returns the signed-in identity together with its extended profile,
// when one exists.
func (s *Usecase) Profile(ctx context.Context, in ProfileInput) (*entity.User, error) {
	ctx, span := s.startSpan(ctx, "Profile")
	defer span.End()

	return s.authenticated(ctx, true)
}
