package usecase

import (
	"context"
	"log/slog"

	"github.com/sayetech/dataroom/internal/admin/entity"
	"github.com/sayetech/dataroom/internal/pkg/goerror"
)

type AuditLogListInput struct {
	AdminID int64
	Size    int32
	Page    int32
}

type AuditLogListOutput struct {
	Logs  []entity.AuditLog
	Total int64
	Size  int32
	Page  int32
}

func (s *Usecase) AuditLogList(ctx context.Context, in AuditLogListInput) (*AuditLogListOutput, error) {
	ctx, span := s.startSpan(ctx, "AuditLogList")
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

	logs, total, err := s.repoDB.GetAuditLogList(ctx, entity.AuditLogListFilter{
		AdminID: in.AdminID,
		Size:    in.Size,
		Page:    in.Page,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get audit log list", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &AuditLogListOutput{
		Logs:  logs,
		Total: total,
		Size:  in.Size,
		Page:  in.Page,
	}, nil
}
