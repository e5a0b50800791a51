package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sayetech/dataroom/internal/dataroom/entity"
	"github.com/sayetech/dataroom/internal/pkg/goerror"
)

type DocumentLinkInput struct {
	DocumentID int64 `validate:"required"`
	IPAddress  string
	UserAgent  string
}

type DocumentLinkOutput struct {
	URL       string
	ExpiresAt time.Time
}

// DocumentView returns a short-lived signed URL for inline viewing and logs
// the access.
func (s *Usecase) DocumentView(ctx context.Context, in DocumentLinkInput) (*DocumentLinkOutput, error) {
	ctx, span := s.startSpan(ctx, "DocumentView")
	defer span.End()

	return s.documentLink(ctx, in, entity.AccessActionView)
}

// DocumentDownload returns a short-lived signed URL for download. Investors
// without the download grant are refused.
func (s *Usecase) DocumentDownload(ctx context.Context, in DocumentLinkInput) (*DocumentLinkOutput, error) {
	ctx, span := s.startSpan(ctx, "DocumentDownload")
	defer span.End()

	return s.documentLink(ctx, in, entity.AccessActionDownload)
}

func (s *Usecase) documentLink(ctx context.Context, in DocumentLinkInput, action entity.AccessAction) (*DocumentLinkOutput, error) {
	inv, err := s.ndaAccepted(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if action == entity.AccessActionDownload && !inv.CanDownload {
		slog.WarnContext(ctx, "download without download grant", "investor_id", inv.ID, "document_id", in.DocumentID)
		return nil, goerror.NewBusiness("Your account is not allowed to download documents.", goerror.CodeForbidden)
	}

	doc, err := s.repoDB.GetDocumentByID(ctx, in.DocumentID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("Document not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get document", "document_id", in.DocumentID, "error", err)
		return nil, goerror.NewServer(err)
	}

	expiry := s.cfg.GetMinute("modules.dataroom.link_ttl_minutes")
	url, err := s.storage.PresignGet(ctx, s.bucket(), doc.ObjectKey, expiry)
	if err != nil {
		slog.ErrorContext(ctx, "failed to presign document url", "document_id", doc.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoDB.CreateAccessLog(ctx, entity.DocumentAccessLog{
		ID:         s.uid.Generate(),
		DocumentID: doc.ID,
		InvestorID: inv.ID,
		Action:     action,
		IPAddress:  in.IPAddress,
		UserAgent:  in.UserAgent,
		CreatedAt:  s.clock.Now(),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo create access log", "document_id", doc.ID, "error", err)
	}

	return &DocumentLinkOutput{
		URL:       url,
		ExpiresAt: s.clock.Now().Add(expiry),
	}, nil
}
