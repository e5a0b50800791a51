// Package admin manages the staff accounts that operate the dataroom:
// password login with optional TOTP, account provisioning, and an audit
// trail of privileged actions.
package admin

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sayetech/dataroom/internal/admin/inbound"
	"github.com/sayetech/dataroom/internal/admin/outbound/db"
	"github.com/sayetech/dataroom/internal/admin/usecase"
	"github.com/sayetech/dataroom/internal/pkg/clock"
	"github.com/sayetech/dataroom/internal/pkg/config"
	"github.com/sayetech/dataroom/internal/pkg/hash"
	"github.com/sayetech/dataroom/internal/pkg/instrument"
	"github.com/sayetech/dataroom/internal/pkg/jwt"
	"github.com/sayetech/dataroom/internal/pkg/mfa"
	"github.com/sayetech/dataroom/internal/pkg/otp"
	"github.com/sayetech/dataroom/internal/pkg/router"
	"github.com/sayetech/dataroom/internal/pkg/uid"
	"github.com/sayetech/dataroom/internal/pkg/validator"
)

type Dependency struct {
	DBConn       *pgxpool.Pool              `validate:"required"`
	Router       *router.Router             `validate:"required"`
	Config       config.Config              `validate:"required"`
	Instrument   instrument.Instrumentation `validate:"required"`
	UID          uid.NumberID               `validate:"required"`
	Bcrypt       hash.Hash                  `validate:"required"`
	MFAEncryptor mfa.Encryptor              `validate:"required"`
	Totp         otp.OTP                    `validate:"required"`
	Clock        clock.Clocker              `validate:"required"`
	Validator    validator.Validator        `validate:"required"`
	JWT          jwt.JWT                    `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbAdmin := db.NewDB(dep.DBConn, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:       dbAdmin,
		Validator:    dep.Validator,
		Config:       dep.Config,
		Bcrypt:       dep.Bcrypt,
		MFAEncryptor: dep.MFAEncryptor,
		Totp:         dep.Totp,
		UID:          dep.UID,
		Clock:        dep.Clock,
		JWT:          dep.JWT,
		Instrument:   dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
