package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/sayetech/dataroom/internal/dataroom/entity"
	"github.com/sayetech/dataroom/internal/pkg/goerror"
)

type AccessRequestSubmitInput struct {
	Email    string `validate:"required,email"`
	FullName string `validate:"required,max=200"`
	Company  string `validate:"required,max=200"`
	Message  string `validate:"max=2000"`
}

func (s *Usecase) AccessRequestSubmit(ctx context.Context, in AccessRequestSubmitInput) error {
	ctx, span := s.startSpan(ctx, "AccessRequestSubmit")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	if _, err := s.repoDB.GetInvestorByEmail(ctx, in.Email); err == nil {
		slog.WarnContext(ctx, "access request for existing investor", "email", in.Email)
		return goerror.NewBusiness("An account with this email already has access.", goerror.CodeConflict)
	} else if !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get investor by email", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	if _, err := s.repoDB.GetPendingAccessRequestByEmail(ctx, in.Email); err == nil {
		slog.WarnContext(ctx, "duplicate pending access request", "email", in.Email)
		return goerror.NewBusiness("A request for this email is already under review.", goerror.CodeConflict)
	} else if !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get pending access request", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	req := entity.NewAccessRequest{
		ID:       s.uid.Generate(),
		Email:    in.Email,
		FullName: strings.TrimSpace(in.FullName),
		Company:  strings.TrimSpace(in.Company),
		Message:  strings.TrimSpace(in.Message),
	}

	if err := s.repoDB.CreateAccessRequest(ctx, req); err != nil {
		if errors.Is(err, goerror.ErrConflict) {
			return goerror.NewBusiness("A request for this email is already under review.", goerror.CodeConflict)
		}
		slog.ErrorContext(ctx, "failed to repo create access request", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoMessaging.PublishAccessRequestSubmitted(ctx, AccessRequestSubmittedEvent{
		RequestID: req.ID,
		Email:     req.Email,
		FullName:  req.FullName,
		Company:   req.Company,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish access request submitted", "request_id", req.ID, "error", err)
	}

	return nil
}
