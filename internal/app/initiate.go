package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	libOTP "github.com/pquerna/otp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/tadka/database"
	"github.com/shandysiswandi/tadka/internal/identity/inbound"
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
	"github.com/shandysiswandi/tadka/internal/pkg/migration"
	"github.com/shandysiswandi/tadka/internal/pkg/otp"
	"github.com/shandysiswandi/tadka/internal/pkg/router"
	"github.com/shandysiswandi/tadka/internal/pkg/sms"
	"github.com/shandysiswandi/tadka/internal/pkg/uid"
	"github.com/shandysiswandi/tadka/internal/pkg/validator"
)

const (
	passwordDriverBcrypt   = "bcrypt"
	passwordDriverArgon2id = "argon2id"
)

func (a *App) initConfig() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "/config/config.yaml"
		if os.Getenv("LOCAL") == "true" {
			path = "./config/config.yaml"
		}
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("app.tz"))

	a.config = cfg
	a.addCloser("Config", func(context.Context) error { return a.config.Close() })
}

func (a *App) initInstrument() {
	ins, err := instrument.New(context.Background(), &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
		LogLevel:         a.config.GetString("instrument.log_level"),
	})
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}

	a.ins = ins
	a.addCloser("Instrument", a.ins.Shutdown)
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.goroutine = goroutine.NewManager(a.config.GetInt("app.server.max_goroutine"))
	a.hmac = hash.NewHMACSHA256(a.config.GetString("hash.hmac.secret"))

	switch driver := strings.ToLower(strings.TrimSpace(a.config.GetString("hash.password.driver"))); driver {
	case passwordDriverArgon2id:
		a.password = hash.NewArgon2id(a.config.GetString("hash.argon2id.pepper"))
	case passwordDriverBcrypt, "":
		a.password = hash.NewBcrypt(a.config.GetInt("hash.bcrypt.cost"), a.config.GetString("hash.bcrypt.pepper"))
	default:
		slog.Error("failed to init password hash, unknown driver", "driver", driver)
		os.Exit(1)
	}

	validator, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = validator

	snow, err := uid.NewSnowflake()
	if err != nil {
		slog.Error("failed to init uid number snowflake", "error", err)
		os.Exit(1)
	}
	a.uid = snow

	a.otp = otp.NewGenerator(otp.Config{
		Issuer: a.config.GetString("otp.issuer"),
		Period: a.config.GetUint("otp.period_seconds"),
		Digits: libOTP.DigitsSix,
	})

	enc, err := crypter.NewAESGCM(a.config.GetBinary("otp.secret_key"))
	if err != nil {
		slog.Error("failed to init otp secret crypter, otp.secret_key must be base64 of 32 bytes", "error", err)
		os.Exit(1)
	}
	a.crypter = enc
}

func (a *App) initJWT() {
	defaultJWT, err := jwt.NewHS512(jwt.Config{
		Secret:     []byte(a.config.GetString("jwt.secret")),
		Issuer:     a.config.GetString("jwt.issuer"),
		Audiences:  a.config.GetArray("jwt.audiences"),
		AccessTTL:  a.config.GetMinute("jwt.access_ttl_minutes"),
		RefreshTTL: a.config.GetHour("jwt.refresh_ttl_hours"),
		Clock:      a.clock,
		UUID:       a.uuid,
	})
	if err != nil {
		slog.Error("failed to init jwt token", "error", err)
		os.Exit(1)
	}
	a.jwt = defaultJWT
}

func (a *App) initDatabase() {
	dsn := a.config.GetString("database.url")

	if a.config.GetBool("database.auto_migrate") {
		if err := migration.Run(dsn, database.Migrations, database.MigrationsDir, migration.Up); err != nil {
			slog.Error("failed to run DB migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("database migrations applied")
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		slog.Error("failed to parse DB connection string.", "error", err)
		os.Exit(1)
	}

	config.MaxConns = a.config.GetInt32("database.pool.max_conns")
	config.MinConns = a.config.GetInt32("database.pool.min_conns")
	config.MaxConnLifetime = a.config.GetSecond("database.pool.max_conn_lifetime_seconds")
	config.MaxConnIdleTime = a.config.GetSecond("database.pool.max_conn_idle_seconds")
	config.HealthCheckPeriod = a.config.GetSecond("database.pool.health_check_period_seconds")

	pool, err := pgxpool.NewWithConfig(a.ctx, config)
	if err != nil {
		slog.Error("failed to create DB connection pool", "error", err)
		os.Exit(1)
	}

	if err := a.ping(pool.Ping); err != nil {
		slog.Error("failed to ping DB", "error", err)
		os.Exit(1)
	}

	a.dbConn = pool
	a.addCloser("Database", func(context.Context) error {
		a.dbConn.Close()

		return nil
	})
}

func (a *App) initCache() {
	opt, err := redis.ParseURL(a.config.GetString("redis.url"))
	if err != nil {
		slog.Error("failed to parse redis url", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(opt)

	if err := a.ping(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }); err != nil {
		slog.Error("failed to init redis", "error", err)
		os.Exit(1)
	}

	a.cacheConn = rdb
	a.idemp = idempotency.New(a.cacheConn)
	a.addCloser("Redis", func(context.Context) error { return a.cacheConn.Close() })
}

// ping retries fn with fibonacci backoff until it succeeds or the budget in
// app.startup.ping_timeout_seconds runs out.
func (a *App) ping(fn func(context.Context) error) error {
	budget := a.config.GetSecond("app.startup.ping_timeout_seconds")
	if budget <= 0 {
		budget = 5 * time.Second
	}

	ctx, cancel := context.WithTimeout(a.ctx, budget)
	defer cancel()

	b := retry.NewFibonacci(200 * time.Millisecond)
	b = retry.WithCappedDuration(2*time.Second, b)

	return retry.Do(ctx, b, func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			slog.WarnContext(ctx, "dependency not ready, retrying", "error", err)
			return retry.RetryableError(err)
		}

		return nil
	})
}

func (a *App) initMail() {
	from := a.config.GetString("mail.from")

	if a.config.GetString("mail.driver") == "log" {
		a.mail = mail.NewLog(from)
	} else {
		client, err := mail.NewSMTP(mail.SMTPConfig{
			Host:     a.config.GetString("mail.host"),
			Port:     a.config.GetInt("mail.port"),
			Username: a.config.GetString("mail.username"),
			Password: a.config.GetString("mail.password"),
			From:     from,
		})
		if err != nil {
			slog.Error("failed to init mail", "error", err)
			os.Exit(1)
		}
		a.mail = client
	}

	a.addCloser("Mail", func(context.Context) error { return a.mail.Close() })
}

func (a *App) initSMS() {
	sender, err := sms.New(sms.Config{
		Driver:  a.config.GetString("sms.driver"),
		Timeout: a.config.GetSecond("sms.timeout_seconds"),
		Twilio: sms.TwilioConfig{
			AccountSID: a.config.GetString("sms.twilio.account_sid"),
			AuthToken:  a.config.GetString("sms.twilio.auth_token"),
			From:       a.config.GetString("sms.twilio.from"),
			BaseURL:    a.config.GetString("sms.twilio.base_url"),
		},
	})
	if err != nil {
		slog.Error("failed to init sms", "error", err)
		os.Exit(1)
	}

	a.sms = sender
}

func (a *App) initMessaging() {
	driver := a.config.GetString("messaging.driver")
	client, err := messaging.NewFromDriver(driver, messaging.FactoryOptions{
		NATS: messaging.NATSConfig{
			URL:  a.config.GetString("messaging.nats.url"),
			Name: a.config.GetString("messaging.nats.name"),
			Options: []nats.Option{
				nats.MaxReconnects(a.config.GetInt("messaging.nats.max_reconnects")),
				nats.Timeout(a.config.GetSecond("messaging.nats.timeout_seconds")),
				nats.ReconnectWait(a.config.GetSecond("messaging.nats.reconnect_wait_seconds")),
				nats.PingInterval(a.config.GetSecond("messaging.nats.ping_interval_seconds")),
				nats.MaxPingsOutstanding(a.config.GetInt("messaging.nats.max_pings_outstanding")),
				nats.RetryOnFailedConnect(a.config.GetBool("messaging.nats.retry_on_failed_connect")),
			},
		},
		Kafka: messaging.KafkaConfig{
			Brokers:  a.config.GetArray("messaging.kafka.brokers"),
			ClientID: a.config.GetString("messaging.kafka.client_id"),
		},
	})
	if err != nil {
		slog.Error("failed to init messaging", "error", err, "driver", driver)
		os.Exit(1)
	}

	a.messaging = client
	a.addCloser("Messaging", func(context.Context) error { return a.messaging.Close() })
}

func (a *App) initHTTPServer() {
	public := append(a.config.GetArray("router.public_endpoints"), inbound.PublicEndpoints...)

	a.router = router.NewRouter(router.Config{
		Config:          a.config,
		UUID:            a.uuid,
		JWT:             a.jwt,
		Instrument:      a.ins,
		PublicEndpoints: public,
	})

	routerWithCORS := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("app.server.cors"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           routerWithCORS,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
}
