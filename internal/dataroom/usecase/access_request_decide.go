package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sayetech/dataroom/internal/dataroom/entity"
	"github.com/sayetech/dataroom/internal/pkg/goerror"
)

type AccessRequestDecideInput struct {
	RequestID int64 `validate:"required"`
	Approve   bool
	// CanDownload grants download on top of view when approving.
	CanDownload bool
}

type AccessRequestDecideOutput struct {
	InvestorID      int64
	AccessExpiresAt *time.Time
}

// AccessRequestDecide approves or rejects a pending request. Approval
// provisions the investor account inside the same transaction that flips the
// request status, so a crash cannot leave an approved request without an
// account.
func (s *Usecase) AccessRequestDecide(ctx context.Context, in AccessRequestDecideInput) (*AccessRequestDecideOutput, error) {
	ctx, span := s.startSpan(ctx, "AccessRequestDecide")
	defer span.End()

	clm, err := s.authenticatedAdmin(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	req, err := s.repoDB.GetAccessRequestByID(ctx, in.RequestID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("Access request not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get access request", "request_id", in.RequestID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if req.Status.IsTerminal() {
		slog.WarnContext(ctx, "decision on decided access request", "request_id", req.ID, "status", req.Status.String())
		return nil, goerror.NewBusiness("This request has already been decided.", goerror.CodeConflict)
	}

	decide := entity.DecideAccessRequest{
		RequestID: req.ID,
		AdminID:   clm.UserID,
		NewStatus: entity.AccessRequestStatusRejected,
		DecidedAt: s.clock.Now(),
	}

	out := &AccessRequestDecideOutput{}
	if in.Approve {
		expiresAt := decide.DecidedAt.Add(s.cfg.GetDay("modules.dataroom.access_ttl_days"))
		decide.NewStatus = entity.AccessRequestStatusApproved
		decide.InvestorID = s.uid.Generate()
		decide.AccessExpiresAt = &expiresAt
		decide.CanDownload = in.CanDownload

		out.InvestorID = decide.InvestorID
		out.AccessExpiresAt = decide.AccessExpiresAt
	}

	if err := s.repoDB.DecideAccessRequest(ctx, decide); err != nil {
		if errors.Is(err, goerror.ErrNotFound) {
			return nil, goerror.NewBusiness("This request has already been decided.", goerror.CodeConflict)
		}
		slog.ErrorContext(ctx, "failed to repo decide access request", "request_id", req.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoMessaging.PublishAccessRequestDecided(ctx, AccessRequestDecidedEvent{
		RequestID:       req.ID,
		Email:           req.Email,
		FullName:        req.FullName,
		Approved:        in.Approve,
		AccessExpiresAt: decide.AccessExpiresAt,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish access request decided", "request_id", req.ID, "error", err)
	}

	return out, nil
}
