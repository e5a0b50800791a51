package app

import (
	"log/slog"
	"os"

	"github.com/sayetech/dataroom/internal/admin"
	"github.com/sayetech/dataroom/internal/auth"
	"github.com/sayetech/dataroom/internal/dataroom"
	"github.com/sayetech/dataroom/internal/notification"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.auth.enabled") {
		if err := auth.New(auth.Dependency{
			DBConn:      a.dbConn,
			Router:      a.router,
			Idempotency: a.idemp,
			Mail:        a.mail,
			Config:      a.config,
			Instrument:  a.ins,
			UID:         a.uid,
			HMAC:        a.hmac,
			Passcode:    a.passcode,
			Clock:       a.clock,
			Validator:   a.validator,
			JWT:         a.jwt,
		}); err != nil {
			slog.Error("failed to init module auth", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.dataroom.enabled") {
		if err := dataroom.New(dataroom.Dependency{
			DBConn:     a.dbConn,
			Router:     a.router,
			Messaging:  a.messaging,
			Storage:    a.storage,
			Config:     a.config,
			Instrument: a.ins,
			UID:        a.uid,
			Clock:      a.clock,
			Validator:  a.validator,
		}); err != nil {
			slog.Error("failed to init module dataroom", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.admin.enabled") {
		if err := admin.New(admin.Dependency{
			DBConn:       a.dbConn,
			Router:       a.router,
			Config:       a.config,
			Instrument:   a.ins,
			UID:          a.uid,
			Bcrypt:       a.bcrypt,
			MFAEncryptor: a.mfaEncryptor,
			Totp:         a.totp,
			Clock:        a.clock,
			Validator:    a.validator,
			JWT:          a.jwt,
		}); err != nil {
			slog.Error("failed to init module admin", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.notification.enabled") {
		if err := notification.New(notification.Dependency{
			Ctx:        a.ctx,
			DBConn:     a.dbConn,
			Messaging:  a.messaging,
			Config:     a.config,
			Instrument: a.ins,
			UID:        a.uid,
			UUID:       a.uuid,
			Clock:      a.clock,
			Goroutine:  a.goroutine,
			Validator:  a.validator,
			Mail:       a.mail,
		}); err != nil {
			slog.Error("failed to init module notification", "error", err)
			os.Exit(1)
		}
	}
}
