package inbound

import (
	"time"

	"github.com/sayetech/dataroom/internal/dataroom/entity"
)

type AccessRequestSubmitRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Company  string `json:"company"`
	Message  string `json:"message,omitempty"`
}

type AccessRequestSubmitResponse struct{}

func (AccessRequestSubmitResponse) Message() string {
	return "Your access request has been received. We will be in touch once it has been reviewed."
}

type AccessRequestResponse struct {
	ID        int64      `json:"id,string"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name"`
	Company   string     `json:"company"`
	Message   string     `json:"message,omitempty"`
	Status    string     `json:"status"`
	DecidedBy *int64     `json:"decided_by,string,omitempty"`
	DecidedAt *time.Time `json:"decided_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func newAccessRequestResponse(req entity.AccessRequest) AccessRequestResponse {
	return AccessRequestResponse{
		ID:        req.ID,
		Email:     req.Email,
		FullName:  req.FullName,
		Company:   req.Company,
		Message:   req.Message,
		Status:    req.Status.String(),
		DecidedBy: req.DecidedBy,
		DecidedAt: req.DecidedAt,
		CreatedAt: req.CreatedAt,
	}
}

type AccessRequestsResponse struct {
	Requests []AccessRequestResponse `json:"requests"`
	// meta
	total int64
	size  int32
	page  int32
}

func (r AccessRequestsResponse) Meta() map[string]any {
	return map[string]any{
		"total": r.total,
		"size":  r.size,
		"page":  r.page,
	}
}

type AccessRequestDecideRequest struct {
	Approve     bool `json:"approve"`
	CanDownload bool `json:"can_download,omitempty"`
}

type AccessRequestDecideResponse struct {
	InvestorID      int64      `json:"investor_id,string,omitempty"`
	AccessExpiresAt *time.Time `json:"access_expires_at,omitempty"`

	approved bool
}

func (r AccessRequestDecideResponse) Message() string {
	if r.approved {
		return "Access request approved."
	}
	return "Access request rejected."
}

type NDAResponse struct {
	ID         int64      `json:"id,string"`
	Version    string     `json:"version"`
	Title      string     `json:"title"`
	Body       string     `json:"body"`
	Accepted   bool       `json:"accepted"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
}

type NDAAcceptRequest struct {
	SignatureName string `json:"signature_name"`
}

type NDAAcceptResponse struct{}

func (NDAAcceptResponse) Message() string {
	return "NDA accepted. You now have access to the dataroom documents."
}

type CategoryCreateRequest struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ParentID    int64  `json:"parent_id,string,omitempty"`
	SortOrder   int32  `json:"sort_order,omitempty"`
}

type CategoryResponse struct {
	ID          int64  `json:"id,string"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ParentID    *int64 `json:"parent_id,string,omitempty"`
	SortOrder   int32  `json:"sort_order"`
}

func newCategoryResponse(cat entity.DocumentCategory) CategoryResponse {
	return CategoryResponse{
		ID:          cat.ID,
		Slug:        cat.Slug,
		Name:        cat.Name,
		Description: cat.Description,
		ParentID:    cat.ParentID,
		SortOrder:   cat.SortOrder,
	}
}

type CategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

func newCategoriesResponse(categories []entity.DocumentCategory) CategoriesResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for _, item := range categories {
		out = append(out, newCategoryResponse(item))
	}
	return CategoriesResponse{Categories: out}
}

type DocumentUploadResponse struct {
	DocumentID int64 `json:"document_id,string"`
}

func (DocumentUploadResponse) Message() string {
	return "Document uploaded."
}

type DocumentResponse struct {
	ID          int64     `json:"id,string"`
	CategoryID  int64     `json:"category_id,string"`
	Title       string    `json:"title"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

func newDocumentResponse(doc entity.Document) DocumentResponse {
	return DocumentResponse{
		ID:          doc.ID,
		CategoryID:  doc.CategoryID,
		Title:       doc.Title,
		FileName:    doc.FileName,
		ContentType: doc.ContentType,
		SizeBytes:   doc.SizeBytes,
		CreatedAt:   doc.CreatedAt,
	}
}

type DocumentsResponse struct {
	Category  CategoryResponse   `json:"category"`
	Documents []DocumentResponse `json:"documents"`
}

type DocumentLinkResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AccessLogResponse struct {
	ID         int64     `json:"id,string"`
	DocumentID int64     `json:"document_id,string"`
	InvestorID int64     `json:"investor_id,string"`
	Action     string    `json:"action"`
	IPAddress  string    `json:"ip_address"`
	UserAgent  string    `json:"user_agent"`
	CreatedAt  time.Time `json:"created_at"`
}

type AccessLogsResponse struct {
	Logs []AccessLogResponse `json:"logs"`
	// meta
	total int64
	size  int32
	page  int32
}

func (r AccessLogsResponse) Meta() map[string]any {
	return map[string]any{
		"total": r.total,
		"size":  r.size,
		"page":  r.page,
	}
}
