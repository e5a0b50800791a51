package inbound

import (
	"context"

	"github.com/sayetech/dataroom/internal/dataroom/usecase"
	"github.com/sayetech/dataroom/internal/pkg/router"
)

type uc interface {
	AccessRequestSubmit(ctx context.Context, in usecase.AccessRequestSubmitInput) error
	AccessRequestList(ctx context.Context, in usecase.AccessRequestListInput) (*usecase.AccessRequestListOutput, error)
	AccessRequestDetail(ctx context.Context, in usecase.AccessRequestDetailInput) (*usecase.AccessRequestDetailOutput, error)
	AccessRequestDecide(ctx context.Context, in usecase.AccessRequestDecideInput) (*usecase.AccessRequestDecideOutput, error)

	NDACurrent(ctx context.Context) (*usecase.NDACurrentOutput, error)
	NDAAccept(ctx context.Context, in usecase.NDAAcceptInput) error

	CategoryList(ctx context.Context, in usecase.CategoryListInput) (*usecase.CategoryListOutput, error)
	CategoryDetail(ctx context.Context, in usecase.CategoryDetailInput) (*usecase.CategoryDetailOutput, error)
	CategoryCreate(ctx context.Context, in usecase.CategoryCreateInput) error

	DocumentUpload(ctx context.Context, in usecase.DocumentUploadInput) (*usecase.DocumentUploadOutput, error)
	DocumentList(ctx context.Context, in usecase.DocumentListInput) (*usecase.DocumentListOutput, error)
	DocumentDetail(ctx context.Context, in usecase.DocumentDetailInput) (*usecase.DocumentDetailOutput, error)
	DocumentView(ctx context.Context, in usecase.DocumentLinkInput) (*usecase.DocumentLinkOutput, error)
	DocumentDownload(ctx context.Context, in usecase.DocumentLinkInput) (*usecase.DocumentLinkOutput, error)
	DocumentDelete(ctx context.Context, in usecase.DocumentDeleteInput) error

	AccessLogList(ctx context.Context, in usecase.AccessLogListInput) (*usecase.AccessLogListOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Access Requests (submission is public)
	r.POST("/api/v1/dataroom/access-requests", end.AccessRequestSubmit)
	r.GET("/api/v1/dataroom/access-requests", end.AccessRequestList)
	r.GET("/api/v1/dataroom/access-requests/:id", end.AccessRequestDetail)
	r.POST("/api/v1/dataroom/access-requests/:id/decision", end.AccessRequestDecide)

	// NDA
	r.GET("/api/v1/dataroom/nda", end.NDACurrent)
	r.POST("/api/v1/dataroom/nda/accept", end.NDAAccept)

	// Categories & Documents
	r.GET("/api/v1/dataroom/categories", end.CategoryList)
	r.POST("/api/v1/dataroom/categories", end.CategoryCreate)
	r.GET("/api/v1/dataroom/categories/:id", end.CategoryDetail)
	r.GET("/api/v1/dataroom/categories/:id/subcategories", end.CategorySubcategories)
	r.GET("/api/v1/dataroom/categories/:id/documents", end.DocumentList)
	r.POST("/api/v1/dataroom/documents", end.DocumentUpload)
	r.GET("/api/v1/dataroom/documents/:id", end.DocumentDetail)
	r.GET("/api/v1/dataroom/documents/:id/view", end.DocumentView)
	r.GET("/api/v1/dataroom/documents/:id/download", end.DocumentDownload)
	r.DELETE("/api/v1/dataroom/documents/:id", end.DocumentDelete)

	// Audit
	r.GET("/api/v1/dataroom/access-logs", end.AccessLogList)
}
