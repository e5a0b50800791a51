package inbound

import (
	"github.com/sayetech/dataroom/internal/auth/usecase"
	"github.com/sayetech/dataroom/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for passcode authentication.
type HTTPEndpoint struct {
	uc uc
}

// RequestCode issues a one-time passcode and emails it to the caller.
func (h *HTTPEndpoint) RequestCode(r *router.Request) (any, error) {
	var req RequestCodeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if req.Purpose == "" {
		req.Purpose = "login"
	}

	resp, err := h.uc.RequestCode(r.Context(), usecase.RequestCodeInput{
		Email:   req.Email,
		Purpose: req.Purpose,
	})
	if err != nil {
		return nil, err
	}

	return RequestCodeResponse{
		ExpiresAt:         resp.ExpiresAt,
		AttemptsRemaining: resp.AttemptsRemaining,
	}, nil
}

// VerifyCode checks a submitted passcode and returns a bearer token.
func (h *HTTPEndpoint) VerifyCode(r *router.Request) (any, error) {
	var req VerifyCodeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if req.Purpose == "" {
		req.Purpose = "login"
	}

	resp, err := h.uc.VerifyCode(r.Context(), usecase.VerifyCodeInput{
		Email:   req.Email,
		Purpose: req.Purpose,
		Code:    req.Code,
	})
	if err != nil {
		return nil, err
	}

	return VerifyCodeResponse{
		AccessToken: resp.AccessToken,
		SubjectID:   resp.InvestorID,
	}, nil
}

// RemainingAttempts reports the attempt budget left on the live passcode.
func (h *HTTPEndpoint) RemainingAttempts(r *router.Request) (any, error) {
	purpose := r.GetQuery("purpose")
	if purpose == "" {
		purpose = "login"
	}

	resp, err := h.uc.RemainingAttempts(r.Context(), usecase.RemainingAttemptsInput{
		Email:   r.GetQuery("email"),
		Purpose: purpose,
	})
	if err != nil {
		return nil, err
	}

	return RemainingAttemptsResponse{
		AttemptsRemaining: resp.AttemptsRemaining,
		MaxAttempts:       resp.MaxAttempts,
	}, nil
}

// Me returns the profile of the authenticated investor.
func (h *HTTPEndpoint) Me(r *router.Request) (any, error) {
	resp, err := h.uc.Me(r.Context())
	if err != nil {
		return nil, err
	}

	return MeResponse{
		InvestorID:      resp.InvestorID,
		Email:           resp.Email,
		FullName:        resp.FullName,
		Company:         resp.Company,
		NDAAccepted:     resp.NDAAccepted,
		CanDownload:     resp.CanDownload,
		AccessExpiresAt: resp.AccessExpiresAt,
		LastLoginAt:     resp.LastLoginAt,
	}, nil
}
