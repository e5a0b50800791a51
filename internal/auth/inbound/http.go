package inbound

import (
	"context"

	"github.com/sayetech/dataroom/internal/auth/usecase"
	"github.com/sayetech/dataroom/internal/pkg/router"
)

type uc interface {
	RequestCode(ctx context.Context, in usecase.RequestCodeInput) (*usecase.RequestCodeOutput, error)
	VerifyCode(ctx context.Context, in usecase.VerifyCodeInput) (*usecase.VerifyCodeOutput, error)
	RemainingAttempts(ctx context.Context, in usecase.RemainingAttemptsInput) (*usecase.RemainingAttemptsOutput, error)
	Me(ctx context.Context) (*usecase.MeOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/auth/otp/request", end.RequestCode)
	r.POST("/api/v1/auth/otp/verify", end.VerifyCode)
	r.GET("/api/v1/auth/otp/attempts", end.RemainingAttempts)
	r.GET("/api/v1/auth/me", end.Me)
}
