package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/tadka/internal/pkg/clock"
	"github.com/shandysiswandi/tadka/internal/pkg/config"
	"github.com/shandysiswandi/tadka/internal/pkg/crypter"
	"github.com/shandysiswandi/tadka/internal/pkg/goroutine"
	"github.com/shandysiswandi/tadka/internal/pkg/hash"
	"github.com/shandysiswandi/tadka/internal/pkg/idempotency"
	"github.com/shandysiswandi/tadka/internal/pkg/instrument"
	"github.com/shandysiswandi/tadka/internal/pkg/jwt"
	"github.com/shandysiswandi/tadka/internal/pkg/mail"
	"github.com/shandysiswandi/tadka/internal/pkg/messaging"
	"github.com/shandysiswandi/tadka/internal/pkg/otp"
	"github.com/shandysiswandi/tadka/internal/pkg/router"
	"github.com/shandysiswandi/tadka/internal/pkg/sms"
	"github.com/shandysiswandi/tadka/internal/pkg/uid"
	"github.com/shandysiswandi/tadka/internal/pkg/validator"
)

type closer struct {
	name string
	fn   func(context.Context) error
}

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	hmac      hash.Hash
	password  hash.Hash
	uid       uid.NumberID
	uuid      uid.StringID
	otp       *otp.Generator
	crypter   crypter.Crypter
	jwt       jwt.JWT

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	idemp     idempotency.Idempotency
	mail      mail.Mail
	sms       sms.Sender
	messaging messaging.Messaging

	// server
	router     *router.Router
	httpServer *http.Server

	// closers run last-in first-out on Stop.
	closers []closer
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initJWT()
	app.initDatabase()
	app.initCache()
	app.initMail()
	app.initSMS()
	app.initMessaging()
	app.initHTTPServer()
	app.initModules()

	return app
}

func (a *App) addCloser(name string, fn func(context.Context) error) {
	a.closers = append(a.closers, closer{name: name, fn: fn})
}
