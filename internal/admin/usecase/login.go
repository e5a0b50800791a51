package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/sayetech/dataroom/internal/pkg/goerror"
	"github.com/sayetech/dataroom/internal/pkg/mfa"
)

type LoginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
	TOTPCode string
}

type LoginOutput struct {
	AccessToken string
	// TOTPRequired is set when credentials were valid but a TOTP code is
	// still needed.
	TOTPRequired bool
}

func (s *Usecase) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.TOTPCode = strings.TrimSpace(in.TOTPCode)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	adm, err := s.repoDB.GetAdminByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "admin account not found", "email", in.Email)
		return nil, goerror.NewBusiness("invalid email or password", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get admin by email", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !adm.IsActive {
		slog.WarnContext(ctx, "login to deactivated admin account", "admin_id", adm.ID)
		return nil, goerror.NewBusiness("Account is deactivated", goerror.CodeForbidden)
	}

	if !s.bcrypt.Verify(adm.Password, in.Password) {
		slog.WarnContext(ctx, "password admin account not match", "admin_id", adm.ID)
		return nil, goerror.NewBusiness("invalid email or password", goerror.CodeUnauthorized)
	}

	if adm.TOTPEnabled {
		if in.TOTPCode == "" {
			return &LoginOutput{TOTPRequired: true}, nil
		}

		secret, err := s.mfaEncryptor.Decrypt(adm.TOTPSecret, mfa.Scope{
			UserID:  adm.ID,
			Purpose: mfa.PurposeOTPSeed,
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to decrypt totp secret", "admin_id", adm.ID, "error", err)
			return nil, goerror.NewServer(err)
		}

		if !s.totp.Validate(in.TOTPCode, string(secret), s.clock.Now()) {
			slog.WarnContext(ctx, "invalid totp code", "admin_id", adm.ID)
			return nil, goerror.NewBusiness("invalid authenticator code", goerror.CodeUnauthorized)
		}
	}

	token, err := s.jwt.Generate(adm.ID, adm.Email, adm.Role.String())
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access jwt token", "admin_id", adm.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &LoginOutput{AccessToken: token}, nil
}
