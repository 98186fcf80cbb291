package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/tadka/internal/identity/entity"
	"github.com/shandysiswandi/tadka/internal/pkg/goerror"
	"github.com/shandysiswandi/tadka/internal/pkg/valueobject"
)

type RegisterInput struct {
	Email              string `validate:"required,email,max=254"`
	Password           string `validate:"required,password"`
	PasswordConfirm    string `validate:"required,eqfield=Password"`
	PhoneNumber        string `validate:"omitempty,phone"`
	FirstName          string `validate:"max=150"`
	LastName           string `validate:"max=150"`
	LanguagePreference string `validate:"omitempty,language"`
}

func (s *Usecase) Register(ctx context.Context, in RegisterInput) (*AuthOutput, error) {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	_, err := s.repoDB.GetUserByEmail(ctx, in.Email)
	if err == nil {
		slog.WarnContext(ctx, "email already registered", "email", in.Email)
		return nil, goerror.NewBusinessCause(entity.ErrUserExists, "User with this email already exists", goerror.CodeConflict)
	}
	if !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get user by email", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if in.PhoneNumber != "" {
		exists, err := s.repoDB.ExistsUserByPhone(ctx, in.PhoneNumber)
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo check user by phone", "error", err)
			return nil, goerror.NewServer(err)
		}
		if exists {
			slog.WarnContext(ctx, "phone number already registered")
			return nil, goerror.NewBusinessCause(entity.ErrUserExists, "User with this phone number already exists", goerror.CodeConflict)
		}
	}

	hashed, err := s.password.Hash(in.Password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	userID := s.uid.Generate()
	user := entity.User{
		ID:                 userID,
		Email:              in.Email,
		PhoneNumber:        in.PhoneNumber,
		PasswordHash:       string(hashed),
		Handle:             entity.EmailHandle(in.Email),
		FirstName:          in.FirstName,
		LastName:           in.LastName,
		LanguagePreference: entity.LanguageFromString(in.LanguagePreference),
		CreatedAt:          now,
		UpdatedAt:          now,
		Profile: &entity.Profile{
			UserID:            userID,
			CookingExperience: entity.CookingBeginner,
			FavoriteCuisines:  []string{},
			Preferences:       valueobject.JSONMap{},
			CreatedAt:         now,
			UpdatedAt:         now,
		},
	}

	err = s.repoDB.CreateUser(ctx, user)
	if errors.Is(err, goerror.ErrConflict) {
		slog.WarnContext(ctx, "user registration lost a uniqueness race", "email", in.Email)
		return nil, goerror.NewBusinessCause(entity.ErrUserExists, "Email or phone number already registered", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create user", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	sess, err := s.issueSession(ctx, &user)
	if err != nil {
		return nil, err
	}

	s.publishUserRegistered(ctx, &user, entity.ChannelEmail)

	return &AuthOutput{User: &user, Session: sess, Created: true}, nil
}

type RegisterPhoneInput struct {
	PhoneNumber        string `validate:"required,phone"`
	FirstName          string `validate:"max=30"`
	LastName           string `validate:"max=30"`
	LanguagePreference string `validate:"omitempty,language"`
}

// RegisterPhone starts a phone signup. The identity itself is created when
// the code is verified.
func (s *Usecase) RegisterPhone(ctx context.Context, in RegisterPhoneInput) (*OTPRequestOutput, error) {
	ctx, span := s.startSpan(ctx, "RegisterPhone")
	defer span.End()

	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	exists, err := s.repoDB.ExistsUserByPhone(ctx, in.PhoneNumber)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo check user by phone", "error", err)
		return nil, goerror.NewServer(err)
	}
	if exists {
		slog.WarnContext(ctx, "phone number already registered")
		return nil, goerror.NewBusinessCause(entity.ErrUserExists, "User with this phone number already exists", goerror.CodeConflict)
	}

	return s.requestCode(ctx, in.PhoneNumber)
}
