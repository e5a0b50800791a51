package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sayetech/dataroom/internal/pkg/goerror"
	"github.com/sayetech/dataroom/internal/pkg/jwt"
)

type MeOutput struct {
	InvestorID      int64
	Email           string
	FullName        string
	Company         string
	NDAAccepted     bool
	CanDownload     bool
	AccessExpiresAt *time.Time
	LastLoginAt     *time.Time
}

// Me returns the profile behind the current investor session.
func (s *Usecase) Me(ctx context.Context) (*MeOutput, error) {
	ctx, span := s.startSpan(ctx, "Me")
	defer span.End()

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}
	if clm.Role != "investor" {
		slog.WarnContext(ctx, "investor profile accessed without investor role", "user_id", clm.UserID, "role", clm.Role)
		return nil, goerror.NewBusiness("Account not allowed", goerror.CodeForbidden)
	}

	inv, err := s.repoDB.GetInvestorByID(ctx, clm.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "investor session without account", "investor_id", clm.UserID)
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get investor by id", "investor_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &MeOutput{
		InvestorID:      inv.ID,
		Email:           inv.Email,
		FullName:        inv.FullName,
		Company:         inv.Company,
		NDAAccepted:     inv.NDAAccepted,
		CanDownload:     inv.CanDownload,
		AccessExpiresAt: inv.AccessExpiresAt,
		LastLoginAt:     inv.LastLoginAt,
	}, nil
}
