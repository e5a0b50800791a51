package inbound

import (
	"github.com/sayetech/dataroom/internal/admin/usecase"
	"github.com/sayetech/dataroom/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for admin operations.
type HTTPEndpoint struct {
	uc uc
}

// Login authenticates an admin with email, password and, when enrolled, a
// TOTP code.
func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Login(r.Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		TOTPCode: req.TOTPCode,
	})
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		AccessToken:  resp.AccessToken,
		TOTPRequired: resp.TOTPRequired,
	}, nil
}

// PasswordChange rotates the authenticated admin's password.
func (h *HTTPEndpoint) PasswordChange(r *router.Request) (any, error) {
	var req PasswordChangeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.PasswordChange(r.Context(), usecase.PasswordChangeInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}); err != nil {
		return nil, err
	}

	return &PasswordChangeResponse{}, nil
}

// TOTPSetup starts authenticator enrollment for the authenticated admin.
func (h *HTTPEndpoint) TOTPSetup(r *router.Request) (any, error) {
	var req TOTPSetupRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.TOTPSetup(r.Context(), usecase.TOTPSetupInput{
		CurrentPassword: req.CurrentPassword,
	})
	if err != nil {
		return nil, err
	}

	return &TOTPSetupResponse{
		Secret: resp.Secret,
		URI:    resp.URI,
	}, nil
}

// TOTPConfirm finishes authenticator enrollment with a first valid code.
func (h *HTTPEndpoint) TOTPConfirm(r *router.Request) (any, error) {
	var req TOTPConfirmRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.TOTPConfirm(r.Context(), usecase.TOTPConfirmInput{
		Code: req.Code,
	}); err != nil {
		return nil, err
	}

	return &TOTPConfirmResponse{}, nil
}

// AdminCreate registers a new admin account.
func (h *HTTPEndpoint) AdminCreate(r *router.Request) (any, error) {
	var req AdminCreateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.AdminCreate(r.Context(), usecase.AdminCreateInput{
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return nil, err
	}

	return &AdminCreateResponse{AdminID: resp.AdminID}, nil
}

// AdminList returns every admin account.
func (h *HTTPEndpoint) AdminList(r *router.Request) (any, error) {
	resp, err := h.uc.AdminList(r.Context())
	if err != nil {
		return nil, err
	}

	admins := make([]AdminResponse, 0, len(resp.Admins))
	for _, adm := range resp.Admins {
		admins = append(admins, newAdminResponse(adm))
	}

	return AdminsResponse{Admins: admins}, nil
}

// AdminSetActive activates or deactivates an admin account.
func (h *HTTPEndpoint) AdminSetActive(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req AdminSetActiveRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.AdminSetActive(r.Context(), usecase.AdminSetActiveInput{
		AdminID: id,
		Active:  req.Active,
	}); err != nil {
		return nil, err
	}

	return AdminSetActiveResponse{active: req.Active}, nil
}

// AuditLogList returns admin audit entries, newest first.
func (h *HTTPEndpoint) AuditLogList(r *router.Request) (any, error) {
	adminID, err := r.GetQueryInt64("admin_id")
	if err != nil {
		return nil, err
	}

	size, err := r.GetQueryInt32("size")
	if err != nil {
		return nil, err
	}

	page, err := r.GetQueryInt32("page")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.AuditLogList(r.Context(), usecase.AuditLogListInput{
		AdminID: adminID,
		Size:    size,
		Page:    page,
	})
	if err != nil {
		return nil, err
	}

	logs := make([]AuditLogResponse, 0, len(resp.Logs))
	for _, log := range resp.Logs {
		logs = append(logs, newAuditLogResponse(log))
	}

	return AuditLogsResponse{
		total: resp.Total,
		size:  resp.Size,
		page:  resp.Page,
		Logs:  logs,
	}, nil
}
