package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sayetech/dataroom/internal/admin/entity"
	"github.com/sayetech/dataroom/internal/pkg/clock"
	"github.com/sayetech/dataroom/internal/pkg/config"
	"github.com/sayetech/dataroom/internal/pkg/goerror"
	"github.com/sayetech/dataroom/internal/pkg/hash"
	"github.com/sayetech/dataroom/internal/pkg/instrument"
	"github.com/sayetech/dataroom/internal/pkg/jwt"
	"github.com/sayetech/dataroom/internal/pkg/mfa"
	"github.com/sayetech/dataroom/internal/pkg/otp"
	"github.com/sayetech/dataroom/internal/pkg/uid"
	"github.com/sayetech/dataroom/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	GetAdminByEmail(ctx context.Context, email string) (*entity.Admin, error)
	GetAdminByID(ctx context.Context, id int64) (*entity.Admin, error)
	GetAdminList(ctx context.Context) ([]entity.Admin, error)
	CreateAdmin(ctx context.Context, in entity.NewAdmin) error
	UpdateAdminPassword(ctx context.Context, id int64, hash string) error
	SetAdminTOTPSecret(ctx context.Context, id int64, secret []byte) error
	// EnableAdminTOTP flips totp_enabled for an admin that has a pending
	// secret; reports false when there was nothing to enable.
	EnableAdminTOTP(ctx context.Context, id int64) (bool, error)
	SetAdminActive(ctx context.Context, id int64, active bool) error

	CreateAuditLog(ctx context.Context, in entity.AuditLog) error
	GetAuditLogList(ctx context.Context, filter entity.AuditLogListFilter) ([]entity.AuditLog, int64, error)
}

type Usecase struct {
	repoDB       repoDB
	validator    validator.Validator
	cfg          config.Config
	bcrypt       hash.Hash
	mfaEncryptor mfa.Encryptor
	totp         otp.OTP
	uid          uid.NumberID
	clock        clock.Clocker
	jwt          jwt.JWT
	ins          instrument.Instrumentation
}

type Dependency struct {
	RepoDB       repoDB
	Validator    validator.Validator
	Config       config.Config
	Bcrypt       hash.Hash
	MFAEncryptor mfa.Encryptor
	Totp         otp.OTP
	UID          uid.NumberID
	Clock        clock.Clocker
	JWT          jwt.JWT
	Instrument   instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:       dep.RepoDB,
		validator:    dep.Validator,
		cfg:          dep.Config,
		bcrypt:       dep.Bcrypt,
		mfaEncryptor: dep.MFAEncryptor,
		totp:         dep.Totp,
		uid:          dep.UID,
		clock:        dep.Clock,
		jwt:          dep.JWT,
		ins:          dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("admin.usecase").Start(ctx, name)
}

// authenticatedAdmin loads the admin account behind the current session.
func (s *Usecase) authenticatedAdmin(ctx context.Context) (*entity.Admin, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	if entity.AdminRoleFromString(clm.Role).IsUnknown() {
		slog.WarnContext(ctx, "admin route accessed without admin role", "user_id", clm.UserID, "role", clm.Role)
		return nil, goerror.NewBusiness("Account not allowed", goerror.CodeForbidden)
	}

	adm, err := s.repoDB.GetAdminByID(ctx, clm.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "admin session without account", "admin_id", clm.UserID)
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get admin by id", "admin_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !adm.IsActive {
		slog.WarnContext(ctx, "inactive admin session", "admin_id", adm.ID)
		return nil, goerror.NewBusiness("Account is deactivated", goerror.CodeForbidden)
	}

	return adm, nil
}

func (s *Usecase) authenticatedSuperAdmin(ctx context.Context) (*entity.Admin, error) {
	adm, err := s.authenticatedAdmin(ctx)
	if err != nil {
		return nil, err
	}

	if adm.Role != entity.AdminRoleSuperAdmin {
		slog.WarnContext(ctx, "super admin route accessed without super admin role", "admin_id", adm.ID)
		return nil, goerror.NewBusiness("Account not allowed", goerror.CodeForbidden)
	}

	return adm, nil
}

func (s *Usecase) audit(ctx context.Context, adminID int64, action, ent string, entityID int64, metadata map[string]any) {
	if err := s.repoDB.CreateAuditLog(ctx, entity.AuditLog{
		ID:        s.uid.Generate(),
		AdminID:   adminID,
		Action:    action,
		Entity:    ent,
		EntityID:  entityID,
		Metadata:  metadata,
		CreatedAt: s.clock.Now(),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo create audit log", "admin_id", adminID, "action", action, "error", err)
	}
}
