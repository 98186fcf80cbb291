package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/tadka/internal/identity/entity"
	"github.com/shandysiswandi/tadka/internal/pkg/goerror"
)

const otpMessage = "Your Tadka Tales verification code is: %s. Valid for %d minutes."

type OTPRequestInput struct {
	PhoneNumber string `validate:"required,phone"`
}

type OTPRequestOutput struct {
	PhoneNumber string
	ExpiresIn   int64
}

func (s *Usecase) OTPRequest(ctx context.Context, in OTPRequestInput) (*OTPRequestOutput, error) {
	ctx, span := s.startSpan(ctx, "OTPRequest")
	defer span.End()

	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	return s.requestCode(ctx, in.PhoneNumber)
}

// requestCode issues a code for phone unless the current one is still live,
// then delivers it outside the row lock.
func (s *Usecase) requestCode(ctx context.Context, phone string) (*OTPRequestOutput, error) {
	now := s.clock.Now()
	ttl := s.otpTTL()

	secret, err := s.otp.NewSecret()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp secret", "error", err)
		return nil, goerror.NewServer(err)
	}

	code, err := s.otp.DeriveCode(secret, now)
	if err != nil {
		slog.ErrorContext(ctx, "failed to derive otp code", "error", err)
		return nil, goerror.NewServer(err)
	}

	sealed, err := s.crypter.Seal([]byte(secret), phone)
	if err != nil {
		slog.ErrorContext(ctx, "failed to seal otp secret", "error", err)
		return nil, goerror.NewServer(err)
	}

	draft := entity.OTPChallenge{
		PhoneNumber: phone,
		Code:        code,
		SecretEnc:   sealed,
		ExpiresAt:   now.Add(ttl),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.repoDB.GetOrCreateChallenge(ctx, draft, func(c *entity.OTPChallenge, created bool) error {
		if created {
			return nil
		}

		// pending and verified windows are both still live
		if c.State(now) != entity.OTPStateExpired {
			return entity.ErrOTPThrottled
		}

		plain, err := s.crypter.Open(c.SecretEnc, phone)
		if err != nil {
			return fmt.Errorf("open otp secret: %w", err)
		}

		c.Reissue(now, ttl)
		c.Code, err = s.otp.DeriveCode(string(plain), now)
		if err != nil {
			return fmt.Errorf("derive otp code: %w", err)
		}

		code = c.Code
		return nil
	})
	if errors.Is(err, entity.ErrOTPThrottled) {
		slog.WarnContext(ctx, "otp requested while previous one is still valid")
		return nil, goerror.NewBusinessCause(err, "OTP already sent. Please wait before requesting a new one.", goerror.CodeTooManyRequest)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get or create otp challenge", "error", err)
		return nil, goerror.NewServer(err)
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.smsTimeout())
	defer cancel()

	text := fmt.Sprintf(otpMessage, code, int(ttl.Minutes()))
	if err := s.repoSMS.SendOTP(sendCtx, phone, text); err != nil {
		slog.ErrorContext(ctx, "failed to deliver otp", "error", err)
		return nil, goerror.NewBusinessCause(entity.ErrOTPDelivery, "failed to send otp", goerror.CodeDeliveryFailed)
	}

	return &OTPRequestOutput{
		PhoneNumber: phone,
		ExpiresIn:   int64(ttl.Seconds()),
	}, nil
}
