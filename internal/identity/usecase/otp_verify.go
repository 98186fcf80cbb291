package usecase

import (
	"context"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shandysiswandi/tadka/internal/identity/entity"
	"github.com/shandysiswandi/tadka/internal/pkg/goerror"
)

type OTPVerifyInput struct {
	PhoneNumber string `validate:"required,phone"`
	OTPCode     string `validate:"required,otpcode"`
}

func (s *Usecase) OTPVerify(ctx context.Context, in OTPVerifyInput) (*AuthOutput, error) {
	ctx, span := s.startSpan(ctx, "OTPVerify")
	defer span.End()

	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.OTPCode = strings.TrimSpace(in.OTPCode)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	err := s.checkCode(ctx, in.PhoneNumber, in.OTPCode)
	switch {
	case errors.Is(err, entity.ErrOTPNotFound):
		slog.WarnContext(ctx, "otp challenge not found")
		return nil, goerror.NewBusinessCause(err, "OTP not found. Please request a new OTP.", goerror.CodeNotFound)
	case errors.Is(err, entity.ErrOTPExpired):
		slog.WarnContext(ctx, "otp challenge expired")
		return nil, goerror.NewBusinessCause(err, "OTP has expired", goerror.CodeInvalidInput)
	case errors.Is(err, entity.ErrOTPThrottled):
		slog.WarnContext(ctx, "otp verify attempts exhausted")
		return nil, goerror.NewBusinessCause(err, "Too many invalid attempts. Please request a new OTP.", goerror.CodeTooManyRequest)
	case errors.Is(err, entity.ErrOTPInvalid):
		slog.WarnContext(ctx, "otp code mismatch")
		return nil, goerror.NewBusinessCause(err, "Invalid OTP", goerror.CodeInvalidInput)
	case err != nil:
		slog.ErrorContext(ctx, "failed to repo verify otp challenge", "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	user, created, err := s.repoDB.ResolveUserByPhone(ctx, entity.User{
		ID:                 s.uid.Generate(),
		PhoneNumber:        in.PhoneNumber,
		Handle:             entity.PhoneHandle(in.PhoneNumber),
		LanguagePreference: entity.LanguageEnglish,
		PhoneVerified:      true,
		CreatedAt:          now,
		UpdatedAt:          now,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo resolve user by phone", "error", err)
		return nil, goerror.NewServer(err)
	}

	sess, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}

	if created {
		s.publishUserRegistered(ctx, user, entity.ChannelPhone)
	}

	return &AuthOutput{User: user, Session: sess, Created: created}, nil
}

// checkCode compares code against the live challenge of phone under the row
// lock and marks it verified on a match. A wrong guess leaves the row as it
// was and only bumps the attempt counter of the current window.
func (s *Usecase) checkCode(ctx context.Context, phone, code string) error {
	now := s.clock.Now()
	limit := int64(s.cfg.GetInt("otp.max_verify_attempts"))

	sum, err := s.hmac.Hash(phone)
	if err != nil {
		return err
	}
	phoneKey := hex.EncodeToString(sum)

	err = s.repoDB.VerifyChallenge(ctx, phone, func(c *entity.OTPChallenge) error {
		if c.State(now) == entity.OTPStateExpired {
			return entity.ErrOTPExpired
		}

		if limit > 0 {
			n, err := s.repoCache.CountVerifyAttempts(ctx, phoneKey, c.ExpiresAt)
			if err != nil {
				slog.WarnContext(ctx, "failed to read otp attempt counter", "error", err)
			}
			if n >= limit {
				return entity.ErrOTPThrottled
			}
		}

		if subtle.ConstantTimeCompare([]byte(c.Code), []byte(code)) != 1 {
			if limit > 0 {
				ttl := c.ExpiresAt.Sub(now) + time.Minute
				if _, err := s.repoCache.IncrVerifyAttempts(ctx, phoneKey, c.ExpiresAt, ttl); err != nil {
					slog.WarnContext(ctx, "failed to bump otp attempt counter", "error", err)
				}
			}
			return entity.ErrOTPInvalid
		}

		c.Verified = true
		c.UpdatedAt = now
		return nil
	})
	if errors.Is(err, goerror.ErrNotFound) {
		return entity.ErrOTPNotFound
	}

	return err
}
