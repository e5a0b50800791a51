package inbound

import (
	"context"

	"github.com/sayetech/dataroom/internal/admin/usecase"
	"github.com/sayetech/dataroom/internal/pkg/router"
)

type uc interface {
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error)
	PasswordChange(ctx context.Context, in usecase.PasswordChangeInput) error

	TOTPSetup(ctx context.Context, in usecase.TOTPSetupInput) (*usecase.TOTPSetupOutput, error)
	TOTPConfirm(ctx context.Context, in usecase.TOTPConfirmInput) error

	AdminCreate(ctx context.Context, in usecase.AdminCreateInput) (*usecase.AdminCreateOutput, error)
	AdminList(ctx context.Context) (*usecase.AdminListOutput, error)
	AdminSetActive(ctx context.Context, in usecase.AdminSetActiveInput) error

	AuditLogList(ctx context.Context, in usecase.AuditLogListInput) (*usecase.AuditLogListOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/admin/login", end.Login)
	r.POST("/api/v1/admin/password/change", end.PasswordChange)

	r.POST("/api/v1/admin/totp/setup", end.TOTPSetup)
	r.POST("/api/v1/admin/totp/confirm", end.TOTPConfirm)

	r.POST("/api/v1/admin/admins", end.AdminCreate)
	r.GET("/api/v1/admin/admins", end.AdminList)
	r.PUT("/api/v1/admin/admins/:id/active", end.AdminSetActive)

	r.GET("/api/v1/admin/audit-logs", end.AuditLogList)
}
