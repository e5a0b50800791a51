package inbound

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/sayetech/dataroom/internal/dataroom/usecase"
	"github.com/sayetech/dataroom/internal/pkg/goerror"
	"github.com/sayetech/dataroom/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for the investor dataroom.
type HTTPEndpoint struct {
	uc uc
}

// AccessRequestSubmit accepts a public dataroom access request.
func (h *HTTPEndpoint) AccessRequestSubmit(r *router.Request) (any, error) {
	var req AccessRequestSubmitRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.AccessRequestSubmit(r.Context(), usecase.AccessRequestSubmitInput{
		Email:    req.Email,
		FullName: req.FullName,
		Company:  req.Company,
		Message:  req.Message,
	}); err != nil {
		return nil, err
	}

	return &AccessRequestSubmitResponse{}, nil
}

// AccessRequestList returns access requests for admin review.
func (h *HTTPEndpoint) AccessRequestList(r *router.Request) (any, error) {
	status, err := r.GetQueryInt16("status")
	if err != nil {
		return nil, err
	}

	size, err := r.GetQueryInt32("size")
	if err != nil {
		return nil, err
	}

	page, err := r.GetQueryInt32("page")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.AccessRequestList(r.Context(), usecase.AccessRequestListInput{
		Status: status,
		Size:   size,
		Page:   page,
	})
	if err != nil {
		return nil, err
	}

	requests := make([]AccessRequestResponse, 0, len(resp.Requests))
	for _, item := range resp.Requests {
		requests = append(requests, newAccessRequestResponse(item))
	}

	return AccessRequestsResponse{
		total:    resp.Total,
		size:     resp.Size,
		page:     resp.Page,
		Requests: requests,
	}, nil
}

// AccessRequestDetail returns a single access request.
func (h *HTTPEndpoint) AccessRequestDetail(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.AccessRequestDetail(r.Context(), usecase.AccessRequestDetailInput{ID: id})
	if err != nil {
		return nil, err
	}

	return newAccessRequestResponse(resp.Request), nil
}

// AccessRequestDecide approves or rejects a pending access request.
func (h *HTTPEndpoint) AccessRequestDecide(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req AccessRequestDecideRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.AccessRequestDecide(r.Context(), usecase.AccessRequestDecideInput{
		RequestID:   id,
		Approve:     req.Approve,
		CanDownload: req.CanDownload,
	})
	if err != nil {
		return nil, err
	}

	out := AccessRequestDecideResponse{approved: req.Approve}
	if req.Approve {
		out.InvestorID = resp.InvestorID
		out.AccessExpiresAt = resp.AccessExpiresAt
	}

	return out, nil
}

// NDACurrent returns the NDA text and the caller's acceptance state.
func (h *HTTPEndpoint) NDACurrent(r *router.Request) (any, error) {
	resp, err := h.uc.NDACurrent(r.Context())
	if err != nil {
		return nil, err
	}

	return NDAResponse{
		ID:         resp.NDA.ID,
		Version:    resp.NDA.Version,
		Title:      resp.NDA.Title,
		Body:       resp.NDA.Body,
		Accepted:   resp.Accepted,
		AcceptedAt: resp.AcceptedAt,
	}, nil
}

// NDAAccept records the caller's NDA acceptance.
func (h *HTTPEndpoint) NDAAccept(r *router.Request) (any, error) {
	var req NDAAcceptRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.NDAAccept(r.Context(), usecase.NDAAcceptInput{
		SignatureName: req.SignatureName,
		IPAddress:     r.RemoteAddr,
		UserAgent:     r.UserAgent(),
	}); err != nil {
		return nil, err
	}

	return &NDAAcceptResponse{}, nil
}

// CategoryList returns the top-level dataroom categories.
func (h *HTTPEndpoint) CategoryList(r *router.Request) (any, error) {
	resp, err := h.uc.CategoryList(r.Context(), usecase.CategoryListInput{})
	if err != nil {
		return nil, err
	}

	return newCategoriesResponse(resp.Categories), nil
}

// CategoryDetail returns a single category.
func (h *HTTPEndpoint) CategoryDetail(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.CategoryDetail(r.Context(), usecase.CategoryDetailInput{CategoryID: id})
	if err != nil {
		return nil, err
	}

	return newCategoryResponse(resp.Category), nil
}

// CategorySubcategories returns the children of a category.
func (h *HTTPEndpoint) CategorySubcategories(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.CategoryList(r.Context(), usecase.CategoryListInput{ParentID: id})
	if err != nil {
		return nil, err
	}

	return newCategoriesResponse(resp.Categories), nil
}

// CategoryCreate adds a new document category.
func (h *HTTPEndpoint) CategoryCreate(r *router.Request) (any, error) {
	var req CategoryCreateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.CategoryCreate(r.Context(), usecase.CategoryCreateInput{
		Slug:        req.Slug,
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
		SortOrder:   req.SortOrder,
	}); err != nil {
		return nil, err
	}

	return nil, nil
}

// DocumentUpload stores a document file under a category.
func (h *HTTPEndpoint) DocumentUpload(r *router.Request) (any, error) {
	ctx := r.Context()

	categoryID, err := r.GetQueryInt64("category_id")
	if err != nil {
		return nil, err
	}

	fileName := r.GetQuery("file_name")

	file, err := r.StreamSingleFile("document")
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := file.Close(); err != nil {
			slog.ErrorContext(ctx, "failed to close file", "error", err)
		}
	}()

	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, goerror.NewInvalidFormat()
	}

	contentType := http.DetectContentType(head[:n])
	// Office formats sniff as zip; trust the file extension there.
	if contentType == "application/zip" || contentType == "application/octet-stream" {
		if byExt := mime.TypeByExtension(path.Ext(fileName)); byExt != "" {
			contentType, _, _ = strings.Cut(byExt, ";")
		}
	}

	resp, err := h.uc.DocumentUpload(ctx, usecase.DocumentUploadInput{
		CategoryID:  categoryID,
		Title:       r.GetQuery("title"),
		FileName:    fileName,
		ContentType: contentType,
		File:        io.MultiReader(bytes.NewReader(head[:n]), file),
	})
	if err != nil {
		return nil, err
	}

	return DocumentUploadResponse{DocumentID: resp.DocumentID}, nil
}

// DocumentList returns the documents in a category.
func (h *HTTPEndpoint) DocumentList(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.DocumentList(r.Context(), usecase.DocumentListInput{CategoryID: id})
	if err != nil {
		return nil, err
	}

	documents := make([]DocumentResponse, 0, len(resp.Documents))
	for _, item := range resp.Documents {
		documents = append(documents, newDocumentResponse(item))
	}

	return DocumentsResponse{
		Category:  newCategoryResponse(resp.Category),
		Documents: documents,
	}, nil
}

// DocumentDetail returns document metadata.
func (h *HTTPEndpoint) DocumentDetail(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.DocumentDetail(r.Context(), usecase.DocumentDetailInput{DocumentID: id})
	if err != nil {
		return nil, err
	}

	return newDocumentResponse(resp.Document), nil
}

// DocumentView returns a signed URL for inline viewing.
func (h *HTTPEndpoint) DocumentView(r *router.Request) (any, error) {
	return h.documentLink(r, h.uc.DocumentView)
}

// DocumentDownload returns a signed URL for download.
func (h *HTTPEndpoint) DocumentDownload(r *router.Request) (any, error) {
	return h.documentLink(r, h.uc.DocumentDownload)
}

func (h *HTTPEndpoint) documentLink(
	r *router.Request,
	fn func(ctx context.Context, in usecase.DocumentLinkInput) (*usecase.DocumentLinkOutput, error),
) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	resp, err := fn(r.Context(), usecase.DocumentLinkInput{
		DocumentID: id,
		IPAddress:  r.RemoteAddr,
		UserAgent:  r.UserAgent(),
	})
	if err != nil {
		return nil, err
	}

	return DocumentLinkResponse{
		URL:       resp.URL,
		ExpiresAt: resp.ExpiresAt,
	}, nil
}

// DocumentDelete removes a document.
func (h *HTTPEndpoint) DocumentDelete(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	return nil, h.uc.DocumentDelete(r.Context(), usecase.DocumentDeleteInput{DocumentID: id})
}

// AccessLogList returns document access logs for audit.
func (h *HTTPEndpoint) AccessLogList(r *router.Request) (any, error) {
	documentID, err := r.GetQueryInt64("document_id")
	if err != nil {
		return nil, err
	}

	investorID, err := r.GetQueryInt64("investor_id")
	if err != nil {
		return nil, err
	}

	size, err := r.GetQueryInt32("size")
	if err != nil {
		return nil, err
	}

	page, err := r.GetQueryInt32("page")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.AccessLogList(r.Context(), usecase.AccessLogListInput{
		DocumentID: documentID,
		InvestorID: investorID,
		Size:       size,
		Page:       page,
	})
	if err != nil {
		return nil, err
	}

	logs := make([]AccessLogResponse, 0, len(resp.Logs))
	for _, item := range resp.Logs {
		logs = append(logs, AccessLogResponse{
			ID:         item.ID,
			DocumentID: item.DocumentID,
			InvestorID: item.InvestorID,
			Action:     item.Action.String(),
			IPAddress:  item.IPAddress,
			UserAgent:  item.UserAgent,
			CreatedAt:  item.CreatedAt,
		})
	}

	return AccessLogsResponse{
		total: resp.Total,
		size:  resp.Size,
		page:  resp.Page,
		Logs:  logs,
	}, nil
}
