package identity

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/tadka/internal/identity/inbound"
	"github.com/shandysiswandi/tadka/internal/identity/outbound/cache"
	"github.com/shandysiswandi/tadka/internal/identity/outbound/db"
	"github.com/shandysiswandi/tadka/internal/identity/outbound/mq"
	"github.com/shandysiswandi/tadka/internal/identity/outbound/sms"
	"github.com/shandysiswandi/tadka/internal/identity/usecase"
	"github.com/shandysiswandi/tadka/internal/pkg/clock"
	"github.com/shandysiswandi/tadka/internal/pkg/config"
	"github.com/shandysiswandi/tadka/internal/pkg/crypter"
	"github.com/shandysiswandi/tadka/internal/pkg/goroutine"
	"github.com/shandysiswandi/tadka/internal/pkg/hash"
	"github.com/shandysiswandi/tadka/internal/pkg/instrument"
	"github.com/shandysiswandi/tadka/internal/pkg/jwt"
	"github.com/shandysiswandi/tadka/internal/pkg/messaging"
	"github.com/shandysiswandi/tadka/internal/pkg/otp"
	"github.com/shandysiswandi/tadka/internal/pkg/router"
	pkgsms "github.com/shandysiswandi/tadka/internal/pkg/sms"
	"github.com/shandysiswandi/tadka/internal/pkg/uid"
	"github.com/shandysiswandi/tadka/internal/pkg/validator"
)

type Dependency struct {
	Ctx        context.Context
	DBConn     *pgxpool.Pool              `validate:"required"`
	CacheConn  *redis.Client              `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Messaging  messaging.Messaging        `validate:"required"`
	SMS        pkgsms.Sender              `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	HMAC       hash.Hash                  `validate:"required"`
	Password   hash.Hash                  `validate:"required"`
	Crypter    crypter.Crypter            `validate:"required"`
	OTP        *otp.Generator             `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	JWT        jwt.JWT                    `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		RepoDB:        db.NewDB(dep.DBConn, dep.Clock, dep.Instrument),
		RepoCache:     cache.NewCache(dep.CacheConn, dep.Instrument),
		RepoSMS:       sms.NewSMS(dep.SMS, dep.Instrument),
		RepoMessaging: mq.NewMessaging(dep.Messaging, dep.Instrument),
		Validator:     dep.Validator,
		Config:        dep.Config,
		Password:      dep.Password,
		HMAC:          dep.HMAC,
		Crypter:       dep.Crypter,
		OTP:           dep.OTP,
		UID:           dep.UID,
		Clock:         dep.Clock,
		JWT:           dep.JWT,
		Instrument:    dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)
	if dep.Ctx != nil {
		dep.Goroutine.Every(dep.Ctx, "identity.otp.sweep", dep.Config.GetMinute("otp.sweep.interval_minutes"), uc.SweepChallenges)
	}

	return nil
}
