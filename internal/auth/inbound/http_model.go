package inbound

import "time"

type RequestCodeRequest struct {
	Email   string `json:"email"`
	Purpose string `json:"purpose,omitempty"`
}

type RequestCodeResponse struct {
	ExpiresAt         time.Time `json:"expires_at"`
	AttemptsRemaining int32     `json:"attempts_remaining"`
}

func (RequestCodeResponse) Message() string {
	return "A verification code has been sent to your email address."
}

type VerifyCodeRequest struct {
	Email   string `json:"email"`
	Purpose string `json:"purpose,omitempty"`
	Code    string `json:"code"`
}

type VerifyCodeResponse struct {
	AccessToken string `json:"access_token"`
	SubjectID   int64  `json:"subject_id,string"`
}

func (VerifyCodeResponse) Message() string {
	return "Verification successful."
}

type RemainingAttemptsResponse struct {
	AttemptsRemaining int32 `json:"attempts_remaining"`
	MaxAttempts       int32 `json:"max_attempts"`
}

type MeResponse struct {
	InvestorID      int64      `json:"investor_id,string"`
	Email           string     `json:"email"`
	FullName        string     `json:"full_name,omitempty"`
	Company         string     `json:"company,omitempty"`
	NDAAccepted     bool       `json:"nda_accepted"`
	CanDownload     bool       `json:"can_download"`
	AccessExpiresAt *time.Time `json:"access_expires_at,omitempty"`
	LastLoginAt     *time.Time `json:"last_login_at,omitempty"`
}
