package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sayetech/dataroom/internal/pkg/clock"
	"github.com/sayetech/dataroom/internal/pkg/config"
	"github.com/sayetech/dataroom/internal/pkg/goroutine"
	"github.com/sayetech/dataroom/internal/pkg/hash"
	"github.com/sayetech/dataroom/internal/pkg/idempotency"
	"github.com/sayetech/dataroom/internal/pkg/instrument"
	"github.com/sayetech/dataroom/internal/pkg/jwt"
	"github.com/sayetech/dataroom/internal/pkg/mail"
	"github.com/sayetech/dataroom/internal/pkg/messaging"
	"github.com/sayetech/dataroom/internal/pkg/mfa"
	"github.com/sayetech/dataroom/internal/pkg/otp"
	"github.com/sayetech/dataroom/internal/pkg/router"
	"github.com/sayetech/dataroom/internal/pkg/storage"
	"github.com/sayetech/dataroom/internal/pkg/uid"
	"github.com/sayetech/dataroom/internal/pkg/validator"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine    *goroutine.Manager
	validator    validator.Validator
	clock        clock.Clocker
	hmac         hash.Hash
	bcrypt       hash.Hash
	uid          uid.NumberID
	uuid         uid.StringID
	tokenID      uid.StringID
	passcode     otp.PasscodeGenerator
	totp         otp.OTP
	jwt          jwt.JWT
	mfaEncryptor mfa.Encryptor

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	idemp     idempotency.Idempotency
	mail      mail.Mail
	messaging messaging.Messaging
	storage   storage.Storage

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
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
	app.initStorage()
	app.initMessaging()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
