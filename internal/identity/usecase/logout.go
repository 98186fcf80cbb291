package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shandysiswandi/tadka/internal/pkg/goerror"
	"github.com/shandysiswandi/tadka/internal/pkg/jwt"
)

type LogoutInput struct {
	RefreshToken string
}

// Logout puts the refresh token on the denylist until it would expire anyway.
// Expired tokens are accepted and revoking twice is not an error.
func (s *Usecase) Logout(ctx context.Context, in LogoutInput) error {
	ctx, span := s.startSpan(ctx, "Logout")
	defer span.End()

	auth := jwt.GetAuth(ctx)
	if auth == nil {
		return goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}

	in.RefreshToken = strings.TrimSpace(in.RefreshToken)
	if in.RefreshToken == "" {
		return nil
	}

	clm, err := s.jwt.Verify(in.RefreshToken, jwt.TokenRefresh)
	if err != nil && !errors.Is(err, jwt.ErrTokenExpired) {
		slog.WarnContext(ctx, "logout with invalid refresh token", "user_id", auth.UserID, "error", err)
		return goerror.NewInvalidInput(nil, "refresh_token", "Invalid token")
	}

	if clm.UserID != auth.UserID {
		slog.WarnContext(ctx, "logout with refresh token of another user", "user_id", auth.UserID, "token_user_id", clm.UserID)
		return goerror.NewBusiness("token does not belong to the current user", goerror.CodeForbidden)
	}

	ttl := time.Second
	if clm.ExpiresAt != nil {
		ttl = max(clm.ExpiresAt.Sub(s.clock.Now()), time.Second)
	}

	if _, err := s.repoCache.RevokeToken(ctx, clm.ID, ttl); err != nil {
		slog.ErrorContext(ctx, "failed to repo revoke refresh token", "jti", clm.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
