package inbound

import (
	"time"

	"github.com/sayetech/dataroom/internal/admin/entity"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	TOTPCode string `json:"totp_code,omitempty"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token,omitempty"`
	TOTPRequired bool   `json:"totp_required,omitempty"`
}

func (r LoginResponse) Message() string {
	if r.TOTPRequired {
		return "Authenticator code required."
	}
	return "Login successful."
}

type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type PasswordChangeResponse struct{}

func (PasswordChangeResponse) Message() string {
	return "Password updated."
}

type TOTPSetupRequest struct {
	CurrentPassword string `json:"current_password"`
}

type TOTPSetupResponse struct {
	Secret string `json:"secret"`
	URI    string `json:"uri"`
}

func (TOTPSetupResponse) Message() string {
	return "Scan the code with your authenticator app, then confirm with a generated code."
}

type TOTPConfirmRequest struct {
	Code string `json:"code"`
}

type TOTPConfirmResponse struct{}

func (TOTPConfirmResponse) Message() string {
	return "Authenticator enabled."
}

type AdminCreateRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type AdminCreateResponse struct {
	AdminID int64 `json:"admin_id,string"`
}

func (AdminCreateResponse) Message() string {
	return "Admin account created."
}

type AdminResponse struct {
	ID          int64     `json:"id,string"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	Role        string    `json:"role"`
	TOTPEnabled bool      `json:"totp_enabled"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func newAdminResponse(adm entity.Admin) AdminResponse {
	return AdminResponse{
		ID:          adm.ID,
		Email:       adm.Email,
		FullName:    adm.FullName,
		Role:        adm.Role.String(),
		TOTPEnabled: adm.TOTPEnabled,
		IsActive:    adm.IsActive,
		CreatedAt:   adm.CreatedAt,
	}
}

type AdminsResponse struct {
	Admins []AdminResponse `json:"admins"`
}

type AdminSetActiveRequest struct {
	Active bool `json:"active"`
}

type AdminSetActiveResponse struct {
	active bool
}

func (r AdminSetActiveResponse) Message() string {
	if r.active {
		return "Admin account activated."
	}
	return "Admin account deactivated."
}

type AuditLogResponse struct {
	ID        int64          `json:"id,string"`
	AdminID   int64          `json:"admin_id,string"`
	Action    string         `json:"action"`
	Entity    string         `json:"entity"`
	EntityID  int64          `json:"entity_id,string"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

func newAuditLogResponse(log entity.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:        log.ID,
		AdminID:   log.AdminID,
		Action:    log.Action,
		Entity:    log.Entity,
		EntityID:  log.EntityID,
		Metadata:  log.Metadata,
		CreatedAt: log.CreatedAt,
	}
}

type AuditLogsResponse struct {
	Logs []AuditLogResponse `json:"logs"`
	// meta
	total int64
	size  int32
	page  int32
}

func (r AuditLogsResponse) Meta() map[string]any {
	return map[string]any{
		"total": r.total,
		"size":  r.size,
		"page":  r.page,
	}
}
