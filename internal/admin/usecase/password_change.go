package usecase

import (
	"context"
	"log/slog"

	"github.com/sayetech/dataroom/internal/pkg/goerror"
)

type PasswordChangeInput struct {
	CurrentPassword string `validate:"required"`
	NewPassword     string `validate:"required,min=12,max=128"`
}

func (s *Usecase) PasswordChange(ctx context.Context, in PasswordChangeInput) error {
	ctx, span := s.startSpan(ctx, "PasswordChange")
	defer span.End()

	adm, err := s.authenticatedAdmin(ctx)
	if err != nil {
		return err
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	if !s.bcrypt.Verify(adm.Password, in.CurrentPassword) {
		slog.WarnContext(ctx, "current password not match", "admin_id", adm.ID)
		return goerror.NewBusiness("current password is incorrect", goerror.CodeUnauthorized)
	}

	newHash, err := s.bcrypt.Hash(in.NewPassword)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash new password", "admin_id", adm.ID, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoDB.UpdateAdminPassword(ctx, adm.ID, string(newHash)); err != nil {
		slog.ErrorContext(ctx, "failed to repo update admin password", "admin_id", adm.ID, "error", err)
		return goerror.NewServer(err)
	}

	s.audit(ctx, adm.ID, "password_change", "admin", adm.ID, nil)

	return nil
}
