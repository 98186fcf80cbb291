package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/tadka/internal/identity/entity"
	"github.com/shandysiswandi/tadka/internal/pkg/goerror"
	"github.com/shandysiswandi/tadka/internal/pkg/jwt"
)

type RefreshTokenInput struct {
	RefreshToken string `validate:"required"`
}

type RefreshTokenOutput struct {
	AccessToken     string
	AccessExpiresIn int64
}

// RefreshToken mints a new access token. The refresh token is not rotated;
// the denylist is consulted on every call.
func (s *Usecase) RefreshToken(ctx context.Context, in RefreshTokenInput) (*RefreshTokenOutput, error) {
	ctx, span := s.startSpan(ctx, "RefreshToken")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	clm, err := s.jwt.Verify(in.RefreshToken, jwt.TokenRefresh)
	if err != nil {
		slog.WarnContext(ctx, "refresh token rejected", "error", err)
		return nil, goerror.NewBusinessCause(entity.ErrInvalidCredentials, "Invalid refresh token", goerror.CodeUnauthorized)
	}

	revoked, err := s.repoCache.IsTokenRevoked(ctx, clm.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo check token denylist", "jti", clm.ID, "error", err)
		return nil, goerror.NewServer(err)
	}
	if revoked {
		slog.WarnContext(ctx, "refresh token is revoked", "jti", clm.ID, "user_id", clm.UserID)
		return nil, goerror.NewBusinessCause(entity.ErrTokenRevoked, "Token has been revoked", goerror.CodeUnauthorized)
	}

	user, err := s.repoDB.GetUserByID(ctx, clm.UserID, false)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user account not found", "user_id", clm.UserID)
		return nil, goerror.NewBusinessCause(entity.ErrInvalidCredentials, "Invalid refresh token", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by id", "user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	access, err := s.jwt.Generate(jwt.Subject{UserID: user.ID, Email: user.Email, Phone: user.PhoneNumber}, jwt.TokenAccess)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access jwt token", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &RefreshTokenOutput{
		AccessToken:     access.Value,
		AccessExpiresIn: int64(access.TTL.Seconds()),
	}, nil
}
