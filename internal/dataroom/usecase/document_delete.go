package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sayetech/dataroom/internal/pkg/goerror"
)

type DocumentDeleteInput struct {
	DocumentID int64 `validate:"required"`
}

// DocumentDelete removes the database row first so the document disappears
// from listings even if the object removal fails.
func (s *Usecase) DocumentDelete(ctx context.Context, in DocumentDeleteInput) error {
	ctx, span := s.startSpan(ctx, "DocumentDelete")
	defer span.End()

	if _, err := s.authenticatedAdmin(ctx); err != nil {
		return err
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	doc, err := s.repoDB.GetDocumentByID(ctx, in.DocumentID)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("Document not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get document", "document_id", in.DocumentID, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoDB.DeleteDocument(ctx, doc.ID); err != nil {
		slog.ErrorContext(ctx, "failed to repo delete document", "document_id", doc.ID, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.storage.DeleteObject(ctx, s.bucket(), doc.ObjectKey); err != nil {
		slog.ErrorContext(ctx, "failed to delete document object", "key", doc.ObjectKey, "error", err)
	}

	return nil
}
