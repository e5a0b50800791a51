package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sayetech/dataroom/internal/dataroom/entity"
	"github.com/sayetech/dataroom/internal/pkg/goerror"
)

type AccessRequestListInput struct {
	Status int16
	Size   int32
	Page   int32
}

type AccessRequestListOutput struct {
	Requests []entity.AccessRequest
	Total    int64
	Size     int32
	Page     int32
}

func (s *Usecase) AccessRequestList(ctx context.Context, in AccessRequestListInput) (*AccessRequestListOutput, error) {
	ctx, span := s.startSpan(ctx, "AccessRequestList")
	defer span.End()

	if _, err := s.authenticatedAdmin(ctx); err != nil {
		return nil, err
	}

	if in.Size <= 0 || in.Size > 100 {
		in.Size = 20
	}
	if in.Page <= 0 {
		in.Page = 1
	}

	filter := entity.AccessRequestListFilter{
		Size: in.Size,
		Page: in.Page,
	}
	if in.Status != 0 {
		filter.IsFilterByStatus = true
		filter.Status = entity.AccessRequestStatus(in.Status)
	}

	requests, total, err := s.repoDB.GetAccessRequestList(ctx, filter)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get access request list", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &AccessRequestListOutput{
		Requests: requests,
		Total:    total,
		Size:     in.Size,
		Page:     in.Page,
	}, nil
}

type AccessRequestDetailInput struct {
	ID int64 `validate:"required"`
}

type AccessRequestDetailOutput struct {
	Request entity.AccessRequest
}

func (s *Usecase) AccessRequestDetail(ctx context.Context, in AccessRequestDetailInput) (*AccessRequestDetailOutput, error) {
	ctx, span := s.startSpan(ctx, "AccessRequestDetail")
	defer span.End()

	if _, err := s.authenticatedAdmin(ctx); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	req, err := s.repoDB.GetAccessRequestByID(ctx, in.ID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("Access request not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get access request", "request_id", in.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &AccessRequestDetailOutput{Request: *req}, nil
}
