package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/tadka/internal/identity/entity"
	"github.com/shandysiswandi/tadka/internal/pkg/clock"
	"github.com/shandysiswandi/tadka/internal/pkg/config"
	"github.com/shandysiswandi/tadka/internal/pkg/crypter"
	"github.com/shandysiswandi/tadka/internal/pkg/goerror"
	"github.com/shandysiswandi/tadka/internal/pkg/hash"
	"github.com/shandysiswandi/tadka/internal/pkg/instrument"
	"github.com/shandysiswandi/tadka/internal/pkg/jwt"
	"github.com/shandysiswandi/tadka/internal/pkg/uid"
	"github.com/shandysiswandi/tadka/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultSMSTimeout     = 10 * time.Second
	defaultSweepRetention = 24 * time.Hour
)

type UserRegisteredEvent struct {
	UserID      int64
	Email       string
	PhoneNumber string
	Handle      string
	Channel     entity.RegistrationChannel
}

type repoMessaging interface {
	PublishUserRegistered(ctx context.Context, msg UserRegisteredEvent) error
}

type repoSMS interface {
	SendOTP(ctx context.Context, phone, text string) error
}

type repoCache interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) (bool, error)
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
	CountVerifyAttempts(ctx context.Context, phoneKey string, window time.Time) (int64, error)
	IncrVerifyAttempts(ctx context.Context, phoneKey string, window time.Time, ttl time.Duration) (int64, error)
}

type repoDB interface {
	GetOrCreateChallenge(ctx context.Context, draft entity.OTPChallenge, fn func(c *entity.OTPChallenge, created bool) error) error
	VerifyChallenge(ctx context.Context, phone string, fn func(c *entity.OTPChallenge) error) error
	DeleteStaleChallenges(ctx context.Context, before time.Time) (int64, error)

	ResolveUserByPhone(ctx context.Context, draft entity.User) (*entity.User, bool, error)
	CreateUser(ctx context.Context, user entity.User) error
	ExistsUserByPhone(ctx context.Context, phone string) (bool, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	GetUserByPhone(ctx context.Context, phone string) (*entity.User, error)
	GetUserByID(ctx context.Context, id int64, withProfile bool) (*entity.User, error)
	UpdateUserNames(ctx context.Context, in entity.UserNames) (*entity.User, error)
	UpdateUserPassword(ctx context.Context, id int64, hash string) error

	GetOrCreateProfile(ctx context.Context, userID int64) (*entity.Profile, error)
	UpsertProfile(ctx context.Context, p entity.Profile) (*entity.Profile, error)
}

type otpGenerator interface {
	NewSecret() (string, error)
	DeriveCode(secret string, at time.Time) (string, error)
	Period() time.Duration
}

type Usecase struct {
	repoDB        repoDB
	repoCache     repoCache
	repoSMS       repoSMS
	repoMessaging repoMessaging
	validator     validator.Validator
	cfg           config.Config
	password      hash.Hash
	hmac          hash.Hash
	crypter       crypter.Crypter
	otp           otpGenerator
	uid           uid.NumberID
	clock         clock.Clocker
	jwt           jwt.JWT
	ins           instrument.Instrumentation
}

type Dependency struct {
	RepoDB        repoDB
	RepoCache     repoCache
	RepoSMS       repoSMS
	RepoMessaging repoMessaging
	Validator     validator.Validator
	Config        config.Config
	Password      hash.Hash
	HMAC          hash.Hash
	Crypter       crypter.Crypter
	OTP           otpGenerator
	UID           uid.NumberID
	Clock         clock.Clocker
	JWT           jwt.JWT
	Instrument    instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoCache:     dep.RepoCache,
		repoSMS:       dep.RepoSMS,
		repoMessaging: dep.RepoMessaging,
		validator:     dep.Validator,
		cfg:           dep.Config,
		password:      dep.Password,
		hmac:          dep.HMAC,
		crypter:       dep.Crypter,
		otp:           dep.OTP,
		uid:           dep.UID,
		clock:         dep.Clock,
		jwt:           dep.JWT,
		ins:           dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.usecase").Start(ctx, name)
}

// otpTTL is the challenge window. Without otp.ttl_minutes it matches the
// code period, so a code never outlives the window it was derived for.
func (s *Usecase) otpTTL() time.Duration {
	if ttl := s.cfg.GetMinute("otp.ttl_minutes"); ttl > 0 {
		return ttl
	}
	return s.otp.Period()
}

func (s *Usecase) smsTimeout() time.Duration {
	if d := s.cfg.GetSecond("sms.timeout_seconds"); d > 0 {
		return d
	}
	return defaultSMSTimeout
}

// authenticated returns the identity behind the bearer token of the request.
func (s *Usecase) authenticated(ctx context.Context, withProfile bool) (*entity.User, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}

	user, err := s.repoDB.GetUserByID(ctx, clm.UserID, withProfile)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user account not found", "user_id", clm.UserID)
		return nil, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by id", "user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return user, nil
}

func (s *Usecase) publishUserRegistered(ctx context.Context, user *entity.User, channel entity.RegistrationChannel) {
	if err := s.repoMessaging.PublishUserRegistered(ctx, UserRegisteredEvent{
		UserID:      user.ID,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		Handle:      user.Handle,
		Channel:     channel,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish user registered", "user_id", user.ID, "error", err)
	}
}
