package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/tadka/internal/identity/entity"
	"github.com/shandysiswandi/tadka/internal/pkg/goerror"
)

type LoginInput struct {
	Email       string `validate:"omitempty,email"`
	Password    string
	PhoneNumber string `validate:"omitempty,phone"`
	OTPCode     string `validate:"omitempty,otpcode"`
}

// Login signs in with email and password or with phone number and code.
// Email wins when both are present.
func (s *Usecase) Login(ctx context.Context, in LoginInput) (*AuthOutput, error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.OTPCode = strings.TrimSpace(in.OTPCode)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	var (
		user *entity.User
		err  error
	)

	switch {
	case in.Email == "" && in.PhoneNumber == "":
		return nil, goerror.NewInvalidInput(nil, "email", "Either email or phone number is required")
	case in.Email != "" && in.Password == "":
		return nil, goerror.NewInvalidInput(nil, "password", "Password is required for email login")
	case in.Email != "":
		user, err = s.loginWithPassword(ctx, in.Email, in.Password)
	case in.OTPCode == "":
		return nil, goerror.NewInvalidInput(nil, "otp_code", "OTP is required for phone login")
	default:
		user, err = s.loginWithCode(ctx, in.PhoneNumber, in.OTPCode)
	}
	if err != nil {
		return nil, err
	}

	sess, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}

	return &AuthOutput{User: user, Session: sess}, nil
}

func (s *Usecase) loginWithPassword(ctx context.Context, email, password string) (*entity.User, error) {
	user, err := s.repoDB.GetUserByEmail(ctx, email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user account not found", "email", email)
		return nil, goerror.NewBusinessCause(entity.ErrInvalidCredentials, "Invalid email or password", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by email", "email", email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !user.HasPassword() || !s.password.Verify(user.PasswordHash, password) {
		slog.WarnContext(ctx, "password user account not match", "user_id", user.ID)
		return nil, goerror.NewBusinessCause(entity.ErrInvalidCredentials, "Invalid email or password", goerror.CodeUnauthorized)
	}

	return user, nil
}

func (s *Usecase) loginWithCode(ctx context.Context, phone, code string) (*entity.User, error) {
	err := s.checkCode(ctx, phone, code)
	switch {
	case errors.Is(err, entity.ErrOTPNotFound):
		slog.WarnContext(ctx, "otp challenge not found for login")
		return nil, goerror.NewBusinessCause(entity.ErrInvalidCredentials, "Invalid phone number or OTP", goerror.CodeUnauthorized)
	case errors.Is(err, entity.ErrOTPExpired):
		slog.WarnContext(ctx, "otp challenge expired")
		return nil, goerror.NewBusinessCause(err, "OTP has expired", goerror.CodeInvalidInput)
	case errors.Is(err, entity.ErrOTPThrottled):
		slog.WarnContext(ctx, "otp verify attempts exhausted")
		return nil, goerror.NewBusinessCause(err, "Too many invalid attempts. Please request a new OTP.", goerror.CodeTooManyRequest)
	case errors.Is(err, entity.ErrOTPInvalid):
		slog.WarnContext(ctx, "otp code mismatch")
		return nil, goerror.NewBusinessCause(err, "Invalid OTP", goerror.CodeUnauthorized)
	case err != nil:
		slog.ErrorContext(ctx, "failed to repo verify otp challenge", "error", err)
		return nil, goerror.NewServer(err)
	}

	user, err := s.repoDB.GetUserByPhone(ctx, phone)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user account not found for phone")
		return nil, goerror.NewBusinessCause(entity.ErrInvalidCredentials, "Invalid phone number or OTP", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by phone", "error", err)
		return nil, goerror.NewServer(err)
	}

	return user, nil
}
