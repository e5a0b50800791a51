package usecase

import (
	"bytes"
	"testing"

	"github.com/sayetech/dataroom/internal/admin/entity"
	"github.com/sayetech/dataroom/internal/pkg/goerror"
)

func TestTOTPSetupWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(1, "sam@sayetech.io", entity.AdminRoleAdmin)

	_, err := env.uc.TOTPSetup(sessionContext(1, "admin"), TOTPSetupInput{
		CurrentPassword: "not my password",
	})
	if got := codeOf(t, err); got != goerror.CodeUnauthorized {
		t.Fatalf("expected unauthorized code, got %v", got)
	}
}

func TestTOTPSetupStoresPendingSecret(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(1, "sam@sayetech.io", entity.AdminRoleAdmin)

	out, err := env.uc.TOTPSetup(sessionContext(1, "admin"), TOTPSetupInput{
		CurrentPassword: "correct horse battery staple",
	})
	if err != nil {
		t.Fatalf("totp setup: %v", err)
	}
	if out.Secret != testTOTPSecret || out.URI == "" {
		t.Fatalf("unexpected output: %+v", out)
	}

	adm := env.repo.adminByID(1)
	if !bytes.Equal(adm.TOTPSecret, []byte("enc:"+testTOTPSecret)) {
		t.Fatalf("expected encrypted pending secret, got %q", adm.TOTPSecret)
	}
	if adm.TOTPEnabled {
		t.Fatal("factor must stay disabled until confirmed")
	}
}

func TestTOTPSetupAlreadyEnabled(t *testing.T) {
	env := newTestEnv(t)
	env.repo.addAdmin(entity.Admin{
		ID:          1,
		Email:       "sam@sayetech.io",
		Role:        entity.AdminRoleAdmin,
		Password:    "hashed:correct horse battery staple",
		TOTPSecret:  []byte("enc:" + testTOTPSecret),
		TOTPEnabled: true,
		IsActive:    true,
	})

	_, err := env.uc.TOTPSetup(sessionContext(1, "admin"), TOTPSetupInput{
		CurrentPassword: "correct horse battery staple",
	})
	if got := codeOf(t, err); got != goerror.CodeConflict {
		t.Fatalf("expected conflict code, got %v", got)
	}
}

func TestTOTPConfirmWithoutSetup(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(1, "sam@sayetech.io", entity.AdminRoleAdmin)

	err := env.uc.TOTPConfirm(sessionContext(1, "admin"), TOTPConfirmInput{Code: testTOTPCode})
	if got := codeOf(t, err); got != goerror.CodeInvalidInput {
		t.Fatalf("expected invalid input code, got %v", got)
	}
}

func TestTOTPConfirmWrongCode(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(1, "sam@sayetech.io", entity.AdminRoleAdmin)

	if _, err := env.uc.TOTPSetup(sessionContext(1, "admin"), TOTPSetupInput{
		CurrentPassword: "correct horse battery staple",
	}); err != nil {
		t.Fatalf("totp setup: %v", err)
	}

	err := env.uc.TOTPConfirm(sessionContext(1, "admin"), TOTPConfirmInput{Code: "000000"})
	if got := codeOf(t, err); got != goerror.CodeUnauthorized {
		t.Fatalf("expected unauthorized code, got %v", got)
	}

	if env.repo.adminByID(1).TOTPEnabled {
		t.Fatal("factor must not be enabled by a wrong code")
	}
}

func TestTOTPConfirmEnables(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(1, "sam@sayetech.io", entity.AdminRoleAdmin)

	if _, err := env.uc.TOTPSetup(sessionContext(1, "admin"), TOTPSetupInput{
		CurrentPassword: "correct horse battery staple",
	}); err != nil {
		t.Fatalf("totp setup: %v", err)
	}

	if err := env.uc.TOTPConfirm(sessionContext(1, "admin"), TOTPConfirmInput{Code: testTOTPCode}); err != nil {
		t.Fatalf("totp confirm: %v", err)
	}

	if !env.repo.adminByID(1).TOTPEnabled {
		t.Fatal("expected factor enabled")
	}

	log := env.repo.lastAuditLog()
	if log == nil || log.Action != "totp_enabled" {
		t.Fatalf("expected totp_enabled audit entry, got %+v", log)
	}
}

func TestPasswordChange(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(1, "sam@sayetech.io", entity.AdminRoleAdmin)

	err := env.uc.PasswordChange(sessionContext(1, "admin"), PasswordChangeInput{
		CurrentPassword: "correct horse battery staple",
		NewPassword:     "even longer passphrase here",
	})
	if err != nil {
		t.Fatalf("password change: %v", err)
	}

	adm := env.repo.adminByID(1)
	if adm.Password != "hashed:even longer passphrase here" {
		t.Fatalf("expected rehashed password, got %q", adm.Password)
	}

	log := env.repo.lastAuditLog()
	if log == nil || log.Action != "password_change" {
		t.Fatalf("expected password_change audit entry, got %+v", log)
	}
}

func TestPasswordChangeWrongCurrent(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(1, "sam@sayetech.io", entity.AdminRoleAdmin)

	err := env.uc.PasswordChange(sessionContext(1, "admin"), PasswordChangeInput{
		CurrentPassword: "not my password",
		NewPassword:     "even longer passphrase here",
	})
	if got := codeOf(t, err); got != goerror.CodeUnauthorized {
		t.Fatalf("expected unauthorized code, got %v", got)
	}
}
