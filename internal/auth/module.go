// Package auth implements passwordless authentication for investors. Codes
// are issued per email and purpose, throttled per identity, and exchanged
// for a bearer token on successful verification.
package auth

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sayetech/dataroom/internal/auth/inbound"
	"github.com/sayetech/dataroom/internal/auth/outbound/db"
	"github.com/sayetech/dataroom/internal/auth/outbound/email"
	"github.com/sayetech/dataroom/internal/auth/usecase"
	"github.com/sayetech/dataroom/internal/pkg/clock"
	"github.com/sayetech/dataroom/internal/pkg/config"
	"github.com/sayetech/dataroom/internal/pkg/hash"
	"github.com/sayetech/dataroom/internal/pkg/idempotency"
	"github.com/sayetech/dataroom/internal/pkg/instrument"
	"github.com/sayetech/dataroom/internal/pkg/jwt"
	"github.com/sayetech/dataroom/internal/pkg/mail"
	"github.com/sayetech/dataroom/internal/pkg/otp"
	"github.com/sayetech/dataroom/internal/pkg/router"
	"github.com/sayetech/dataroom/internal/pkg/uid"
	"github.com/sayetech/dataroom/internal/pkg/validator"
)

type Dependency struct {
	DBConn      *pgxpool.Pool              `validate:"required"`
	Router      *router.Router             `validate:"required"`
	Idempotency idempotency.Idempotency    `validate:"required"`
	Mail        mail.Mail                  `validate:"required"`
	Config      config.Config              `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	UID         uid.NumberID               `validate:"required"`
	HMAC        hash.Hash                  `validate:"required"`
	Passcode    otp.PasscodeGenerator      `validate:"required"`
	Clock       clock.Clocker              `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
	JWT         jwt.JWT                    `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbAuth := db.NewDB(dep.DBConn, dep.Instrument)
	repoEmail := email.New(dep.Mail, dep.Config, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:      dbAuth,
		RepoEmail:   repoEmail,
		Idempotency: dep.Idempotency,
		Validator:   dep.Validator,
		Config:      dep.Config,
		HMAC:        dep.HMAC,
		Passcode:    dep.Passcode,
		UID:         dep.UID,
		Clock:       dep.Clock,
		JWT:         dep.JWT,
		Instrument:  dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
