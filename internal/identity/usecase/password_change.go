package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/tadka/internal/pkg/goerror"
)

type PasswordChangeInput struct {
	CurrentPassword    string `validate:"required"`
	NewPassword        string `validate:"required,password"`
	NewPasswordConfirm string `validate:"required,eqfield=NewPassword"`
}

func (s *Usecase) PasswordChange(ctx context.Context, in PasswordChangeInput) error {
	ctx, span := s.startSpan(ctx, "PasswordChange")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	user, err := s.authenticated(ctx, false)
	if err != nil {
		return err
	}

	if !user.HasPassword() || !s.password.Verify(user.PasswordHash, in.CurrentPassword) {
		slog.WarnContext(ctx, "current password mismatch", "user_id", user.ID)
		return goerror.NewInvalidInput(nil, "current_password", "Old password is incorrect")
	}

	newHash, err := s.password.Hash(in.NewPassword)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash new password", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	err = s.repoDB.UpdateUserPassword(ctx, user.ID, string(newHash))
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user account not found", "user_id", user.ID)
		return goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to update user password", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
