package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sayetech/dataroom/internal/dataroom/entity"
	"github.com/sayetech/dataroom/internal/pkg/goerror"
)

type DocumentListInput struct {
	CategoryID int64 `validate:"required"`
}

type DocumentListOutput struct {
	Category  entity.DocumentCategory
	Documents []entity.Document
}

func (s *Usecase) DocumentList(ctx context.Context, in DocumentListInput) (*DocumentListOutput, error) {
	ctx, span := s.startSpan(ctx, "DocumentList")
	defer span.End()

	if _, err := s.ndaAccepted(ctx); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	category, err := s.repoDB.GetCategoryByID(ctx, in.CategoryID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("Category not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get category", "category_id", in.CategoryID, "error", err)
		return nil, goerror.NewServer(err)
	}

	documents, err := s.repoDB.GetDocumentListByCategory(ctx, in.CategoryID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get document list", "category_id", in.CategoryID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &DocumentListOutput{
		Category:  *category,
		Documents: documents,
	}, nil
}

type DocumentDetailInput struct {
	DocumentID int64 `validate:"required"`
}

type DocumentDetailOutput struct {
	Document entity.Document
}

func (s *Usecase) DocumentDetail(ctx context.Context, in DocumentDetailInput) (*DocumentDetailOutput, error) {
	ctx, span := s.startSpan(ctx, "DocumentDetail")
	defer span.End()

	if _, err := s.ndaAccepted(ctx); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	doc, err := s.repoDB.GetDocumentByID(ctx, in.DocumentID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("Document not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get document", "document_id", in.DocumentID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &DocumentDetailOutput{Document: *doc}, nil
}
