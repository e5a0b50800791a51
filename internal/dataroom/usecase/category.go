package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/sayetech/dataroom/internal/dataroom/entity"
	"github.com/sayetech/dataroom/internal/pkg/goerror"
)

type CategoryListInput struct {
	// ParentID of zero lists the top-level categories.
	ParentID int64
}

type CategoryListOutput struct {
	Categories []entity.DocumentCategory
}

// CategoryList is available to any authenticated session; document content
// itself stays behind the NDA gate.
func (s *Usecase) CategoryList(ctx context.Context, in CategoryListInput) (*CategoryListOutput, error) {
	ctx, span := s.startSpan(ctx, "CategoryList")
	defer span.End()

	if _, err := s.authenticatedAdmin(ctx); err != nil {
		if _, invErr := s.authenticatedInvestor(ctx); invErr != nil {
			return nil, invErr
		}
	}

	if in.ParentID != 0 {
		if _, err := s.categoryByID(ctx, in.ParentID); err != nil {
			return nil, err
		}
	}

	categories, err := s.repoDB.GetCategoryList(ctx, in.ParentID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get category list", "parent_id", in.ParentID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &CategoryListOutput{Categories: categories}, nil
}

type CategoryDetailInput struct {
	CategoryID int64
}

type CategoryDetailOutput struct {
	Category entity.DocumentCategory
}

func (s *Usecase) CategoryDetail(ctx context.Context, in CategoryDetailInput) (*CategoryDetailOutput, error) {
	ctx, span := s.startSpan(ctx, "CategoryDetail")
	defer span.End()

	if _, err := s.authenticatedAdmin(ctx); err != nil {
		if _, invErr := s.authenticatedInvestor(ctx); invErr != nil {
			return nil, invErr
		}
	}

	cat, err := s.categoryByID(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}

	return &CategoryDetailOutput{Category: *cat}, nil
}

type CategoryCreateInput struct {
	Slug        string `validate:"required,max=100,lowercase"`
	Name        string `validate:"required,max=200"`
	Description string `validate:"max=1000"`
	ParentID    int64
	SortOrder   int32
}

func (s *Usecase) CategoryCreate(ctx context.Context, in CategoryCreateInput) error {
	ctx, span := s.startSpan(ctx, "CategoryCreate")
	defer span.End()

	if _, err := s.authenticatedAdmin(ctx); err != nil {
		return err
	}

	in.Slug = strings.TrimSpace(in.Slug)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	var parentID *int64
	if in.ParentID != 0 {
		parent, err := s.categoryByID(ctx, in.ParentID)
		if err != nil {
			return err
		}
		if parent.ParentID != nil {
			return goerror.NewBusiness("Categories can only be nested one level deep.", goerror.CodeInvalidInput)
		}
		parentID = &parent.ID
	}

	err := s.repoDB.CreateCategory(ctx, entity.DocumentCategory{
		ID:          s.uid.Generate(),
		Slug:        in.Slug,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		ParentID:    parentID,
		SortOrder:   in.SortOrder,
	})
	if errors.Is(err, goerror.ErrConflict) {
		return goerror.NewBusiness("A category with this slug already exists.", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create category", "slug", in.Slug, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}

func (s *Usecase) categoryByID(ctx context.Context, id int64) (*entity.DocumentCategory, error) {
	cat, err := s.repoDB.GetCategoryByID(ctx, id)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("Category not found.", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get category by id", "category_id", id, "error", err)
		return nil, goerror.NewServer(err)
	}

	return cat, nil
}
