package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sayetech/dataroom/internal/pkg/goerror"
	"github.com/sayetech/dataroom/internal/pkg/mfa"
)

type TOTPSetupInput struct {
	CurrentPassword string `validate:"required"`
}

type TOTPSetupOutput struct {
	Secret string
	URI    string
}

// TOTPSetup stores a fresh encrypted seed for the admin. The factor stays
// disabled until TOTPConfirm proves the authenticator was enrolled.
func (s *Usecase) TOTPSetup(ctx context.Context, in TOTPSetupInput) (*TOTPSetupOutput, error) {
	ctx, span := s.startSpan(ctx, "TOTPSetup")
	defer span.End()

	adm, err := s.authenticatedAdmin(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if !s.bcrypt.Verify(adm.Password, in.CurrentPassword) {
		slog.WarnContext(ctx, "current password not match", "admin_id", adm.ID)
		return nil, goerror.NewBusiness("current password is incorrect", goerror.CodeUnauthorized)
	}

	if adm.TOTPEnabled {
		return nil, goerror.NewBusiness("authenticator is already enabled", goerror.CodeConflict)
	}

	secret, uri, err := s.totp.Generate(adm.Email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate totp secret", "admin_id", adm.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	encrypted, err := s.mfaEncryptor.Encrypt([]byte(secret), mfa.Scope{
		UserID:  adm.ID,
		Purpose: mfa.PurposeOTPSeed,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to encrypt totp secret", "admin_id", adm.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoDB.SetAdminTOTPSecret(ctx, adm.ID, encrypted); err != nil {
		slog.ErrorContext(ctx, "failed to repo set admin totp secret", "admin_id", adm.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &TOTPSetupOutput{
		Secret: secret,
		URI:    uri,
	}, nil
}

type TOTPConfirmInput struct {
	Code string `validate:"required,len=6,numeric"`
}

func (s *Usecase) TOTPConfirm(ctx context.Context, in TOTPConfirmInput) error {
	ctx, span := s.startSpan(ctx, "TOTPConfirm")
	defer span.End()

	adm, err := s.authenticatedAdmin(ctx)
	if err != nil {
		return err
	}

	in.Code = strings.TrimSpace(in.Code)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	if adm.TOTPEnabled {
		return goerror.NewBusiness("authenticator is already enabled", goerror.CodeConflict)
	}
	if len(adm.TOTPSecret) == 0 {
		return goerror.NewBusiness("authenticator setup has not been started", goerror.CodeInvalidInput)
	}

	secret, err := s.mfaEncryptor.Decrypt(adm.TOTPSecret, mfa.Scope{
		UserID:  adm.ID,
		Purpose: mfa.PurposeOTPSeed,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to decrypt totp secret", "admin_id", adm.ID, "error", err)
		return goerror.NewServer(err)
	}

	if !s.totp.Validate(in.Code, string(secret), s.clock.Now()) {
		slog.WarnContext(ctx, "invalid totp code", "admin_id", adm.ID)
		return goerror.NewBusiness("invalid authenticator code", goerror.CodeUnauthorized)
	}

	enabled, err := s.repoDB.EnableAdminTOTP(ctx, adm.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo enable admin totp", "admin_id", adm.ID, "error", err)
		return goerror.NewServer(err)
	}
	if !enabled {
		return goerror.NewBusiness("authenticator setup has not been started", goerror.CodeInvalidInput)
	}

	s.audit(ctx, adm.ID, "totp_enabled", "admin", adm.ID, nil)

	return nil
}
