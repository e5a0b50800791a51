package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/sayetech/dataroom/internal/dataroom/entity"
	"github.com/sayetech/dataroom/internal/pkg/goerror"
)

type NDACurrentOutput struct {
	NDA        entity.NDA
	Accepted   bool
	AcceptedAt *time.Time
}

// NDACurrent returns the NDA the investor must accept, together with their
// acceptance state.
func (s *Usecase) NDACurrent(ctx context.Context) (*NDACurrentOutput, error) {
	ctx, span := s.startSpan(ctx, "NDACurrent")
	defer span.End()

	inv, err := s.authenticatedInvestor(ctx)
	if err != nil {
		return nil, err
	}

	nda, err := s.repoDB.GetCurrentNDA(ctx)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "no current NDA configured")
		return nil, goerror.NewBusiness("No NDA is configured.", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get current NDA", "error", err)
		return nil, goerror.NewServer(err)
	}

	out := &NDACurrentOutput{NDA: *nda}

	acc, err := s.repoDB.GetNDAAcceptance(ctx, inv.ID)
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get NDA acceptance", "investor_id", inv.ID, "error", err)
		return nil, goerror.NewServer(err)
	}
	if acc != nil {
		out.Accepted = true
		out.AcceptedAt = &acc.AcceptedAt
	}

	return out, nil
}

type NDAAcceptInput struct {
	SignatureName string `validate:"required,max=200"`
	IPAddress     string
	UserAgent     string
}

func (s *Usecase) NDAAccept(ctx context.Context, in NDAAcceptInput) error {
	ctx, span := s.startSpan(ctx, "NDAAccept")
	defer span.End()

	inv, err := s.authenticatedInvestor(ctx)
	if err != nil {
		return err
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	if inv.NDAAccepted {
		slog.WarnContext(ctx, "NDA already accepted", "investor_id", inv.ID)
		return goerror.NewBusiness("NDA has already been accepted.", goerror.CodeConflict)
	}

	nda, err := s.repoDB.GetCurrentNDA(ctx)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "no current NDA configured")
		return goerror.NewBusiness("No NDA is configured.", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get current NDA", "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoDB.AcceptNDA(ctx, entity.NDAAcceptance{
		ID:            s.uid.Generate(),
		NDAID:         nda.ID,
		InvestorID:    inv.ID,
		SignatureName: strings.TrimSpace(in.SignatureName),
		IPAddress:     in.IPAddress,
		UserAgent:     in.UserAgent,
		AcceptedAt:    s.clock.Now(),
	}); err != nil {
		if errors.Is(err, goerror.ErrConflict) {
			return goerror.NewBusiness("NDA has already been accepted.", goerror.CodeConflict)
		}
		slog.ErrorContext(ctx, "failed to repo accept NDA", "investor_id", inv.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
