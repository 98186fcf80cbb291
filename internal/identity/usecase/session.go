package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/tadka/internal/identity/entity"
	"github.com/shandysiswandi/tadka/internal/pkg/goerror"
	"github.com/shandysiswandi/tadka/internal/pkg/jwt"
)

type Session struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresIn  int64
	RefreshExpiresIn int64
}

// AuthOutput is returned by every flow that ends with a signed-in identity.
type AuthOutput struct {
	User    *entity.User
	Session *Session
	Created bool
}

func (s *Usecase) issueSession(ctx context.Context, user *entity.User) (*Session, error) {
	sub := jwt.Subject{UserID: user.ID, Email: user.Email, Phone: user.PhoneNumber}

	access, err := s.jwt.Generate(sub, jwt.TokenAccess)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access jwt token", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	refresh, err := s.jwt.Generate(sub, jwt.TokenRefresh)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate refresh jwt token", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &Session{
		AccessToken:      access.Value,
		RefreshToken:     refresh.Value,
		AccessExpiresIn:  int64(access.TTL.Seconds()),
		RefreshExpiresIn: int64(refresh.TTL.Seconds()),
	}, nil
}
