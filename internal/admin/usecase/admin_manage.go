package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/sayetech/dataroom/internal/admin/entity"
	"github.com/sayetech/dataroom/internal/pkg/goerror"
)

type AdminCreateInput struct {
	Email    string `validate:"required,email"`
	FullName string `validate:"required,max=200"`
	Password string `validate:"required,min=12,max=128"`
	Role     string `validate:"required,oneof=admin super_admin"`
}

type AdminCreateOutput struct {
	AdminID int64
}

func (s *Usecase) AdminCreate(ctx context.Context, in AdminCreateInput) (*AdminCreateOutput, error) {
	ctx, span := s.startSpan(ctx, "AdminCreate")
	defer span.End()

	actor, err := s.authenticatedSuperAdmin(ctx)
	if err != nil {
		return nil, err
	}

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	passwordHash, err := s.bcrypt.Hash(in.Password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash admin password", "error", err)
		return nil, goerror.NewServer(err)
	}

	adm := entity.NewAdmin{
		ID:        s.uid.Generate(),
		Email:     in.Email,
		FullName:  strings.TrimSpace(in.FullName),
		Role:      entity.AdminRoleFromString(in.Role),
		Password:  string(passwordHash),
		CreatedBy: actor.ID,
	}

	if err := s.repoDB.CreateAdmin(ctx, adm); err != nil {
		if errors.Is(err, goerror.ErrConflict) {
			return nil, goerror.NewBusiness("An admin with this email already exists.", goerror.CodeConflict)
		}
		slog.ErrorContext(ctx, "failed to repo create admin", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	s.audit(ctx, actor.ID, "admin_create", "admin", adm.ID, map[string]any{
		"email": adm.Email,
		"role":  adm.Role.String(),
	})

	return &AdminCreateOutput{AdminID: adm.ID}, nil
}

type AdminListOutput struct {
	Admins []entity.Admin
}

func (s *Usecase) AdminList(ctx context.Context) (*AdminListOutput, error) {
	ctx, span := s.startSpan(ctx, "AdminList")
	defer span.End()

	if _, err := s.authenticatedSuperAdmin(ctx); err != nil {
		return nil, err
	}

	admins, err := s.repoDB.GetAdminList(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get admin list", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &AdminListOutput{Admins: admins}, nil
}

type AdminSetActiveInput struct {
	AdminID int64 `validate:"required"`
	Active  bool
}

func (s *Usecase) AdminSetActive(ctx context.Context, in AdminSetActiveInput) error {
	ctx, span := s.startSpan(ctx, "AdminSetActive")
	defer span.End()

	actor, err := s.authenticatedSuperAdmin(ctx)
	if err != nil {
		return err
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	if in.AdminID == actor.ID {
		return goerror.NewBusiness("You cannot deactivate your own account.", goerror.CodeInvalidInput)
	}

	if _, err := s.repoDB.GetAdminByID(ctx, in.AdminID); err != nil {
		if errors.Is(err, goerror.ErrNotFound) {
			return goerror.NewBusiness("Admin not found", goerror.CodeNotFound)
		}
		slog.ErrorContext(ctx, "failed to repo get admin by id", "admin_id", in.AdminID, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoDB.SetAdminActive(ctx, in.AdminID, in.Active); err != nil {
		slog.ErrorContext(ctx, "failed to repo set admin active", "admin_id", in.AdminID, "error", err)
		return goerror.NewServer(err)
	}

	action := "admin_deactivate"
	if in.Active {
		action = "admin_activate"
	}
	s.audit(ctx, actor.ID, action, "admin", in.AdminID, nil)

	return nil
}
