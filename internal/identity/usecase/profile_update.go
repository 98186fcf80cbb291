package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/samber/lo"
	"github.com/shandysiswandi/tadka/internal/identity/entity"
	"github.com/shandysiswandi/tadka/internal/pkg/goerror"
)

// ProfileUpdateInput is a partial update; nil fields keep their value.
type ProfileUpdateInput struct {
	FirstName          *string `validate:"omitempty,max=150"`
	LastName           *string `validate:"omitempty,max=150"`
	LanguagePreference *string `validate:"omitempty,language"`
}

func (s *Usecase) ProfileUpdate(ctx context.Context, in ProfileUpdateInput) (*entity.User, error) {
	ctx, span := s.startSpan(ctx, "ProfileUpdate")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	user, err := s.authenticated(ctx, false)
	if err != nil {
		return nil, err
	}

	language := user.LanguagePreference
	if in.LanguagePreference != nil {
		language = entity.LanguageFromString(*in.LanguagePreference)
	}

	updated, err := s.repoDB.UpdateUserNames(ctx, entity.UserNames{
		UserID:             user.ID,
		FirstName:          strings.TrimSpace(lo.FromPtrOr(in.FirstName, user.FirstName)),
		LastName:           strings.TrimSpace(lo.FromPtrOr(in.LastName, user.LastName)),
		LanguagePreference: language,
	})
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user account not found", "user_id", user.ID)
		return nil, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo update user names", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return updated, nil
}
