package usecase

import (
	"context"
	"log/slog"

	"github.com/sayetech/dataroom/internal/dataroom/entity"
	"github.com/sayetech/dataroom/internal/pkg/goerror"
)

type AccessLogListInput struct {
	DocumentID int64
	InvestorID int64
	Size       int32
	Page       int32
}

type AccessLogListOutput struct {
	Logs  []entity.DocumentAccessLog
	Total int64
	Size  int32
	Page  int32
}

func (s *Usecase) AccessLogList(ctx context.Context, in AccessLogListInput) (*AccessLogListOutput, error) {
	ctx, span := s.startSpan(ctx, "AccessLogList")
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

	logs, total, err := s.repoDB.GetAccessLogList(ctx, entity.AccessLogListFilter{
		DocumentID: in.DocumentID,
		InvestorID: in.InvestorID,
		Size:       in.Size,
		Page:       in.Page,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get access log list", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &AccessLogListOutput{
		Logs:  logs,
		Total: total,
		Size:  in.Size,
		Page:  in.Page,
	}, nil
}
