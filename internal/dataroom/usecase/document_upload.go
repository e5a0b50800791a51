package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strconv"
	"strings"

	"github.com/sayetech/dataroom/internal/dataroom/entity"
	"github.com/sayetech/dataroom/internal/pkg/goerror"
	"github.com/sayetech/dataroom/internal/pkg/storage"
)

//nolint:gochecknoglobals // global for fast reuse
var documentContentTypes = map[string]struct{}{
	"application/pdf": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         {},
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": {},
	"image/jpeg": {},
	"image/png":  {},
}

var errDocumentTooLarge = errors.New("document exceeds max size")

type DocumentUploadInput struct {
	CategoryID  int64  `validate:"required"`
	Title       string `validate:"required,max=300"`
	FileName    string `validate:"required,max=300"`
	ContentType string
	File        io.Reader
}

type DocumentUploadOutput struct {
	DocumentID int64
}

func (s *Usecase) DocumentUpload(ctx context.Context, in DocumentUploadInput) (*DocumentUploadOutput, error) {
	ctx, span := s.startSpan(ctx, "DocumentUpload")
	defer span.End()

	clm, err := s.authenticatedAdmin(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if in.File == nil {
		return nil, goerror.NewInvalidInput(nil, "file", "document file is required")
	}

	contentType := strings.ToLower(strings.TrimSpace(in.ContentType))
	if _, ok := documentContentTypes[contentType]; !ok {
		return nil, goerror.NewInvalidInput(nil, "file", "unsupported document content type")
	}

	if _, err := s.repoDB.GetCategoryByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, goerror.ErrNotFound) {
			return nil, goerror.NewBusiness("Category not found", goerror.CodeNotFound)
		}
		slog.ErrorContext(ctx, "failed to repo get category", "category_id", in.CategoryID, "error", err)
		return nil, goerror.NewServer(err)
	}

	id := s.uid.Generate()
	fileName := path.Base(strings.TrimSpace(in.FileName))
	key := fmt.Sprintf("documents/%d/%s", id, fileName)

	reader := &maxBytesReader{
		r:   in.File,
		max: s.cfg.GetInt64("modules.dataroom.document_max_size_bytes"),
	}
	info, err := s.storage.PutObject(ctx, s.bucket(), key, reader, storage.PutOptions{
		Size:        -1,
		ContentType: contentType,
		Metadata:    map[string]string{"uploaded_by": strconv.FormatInt(clm.UserID, 10)},
	})
	if err != nil {
		if errors.Is(err, errDocumentTooLarge) {
			return nil, goerror.NewInvalidInput(errDocumentTooLarge)
		}
		slog.ErrorContext(ctx, "failed to upload document", "key", key, "error", err)
		return nil, goerror.NewServer(err)
	}

	doc := entity.Document{
		ID:          id,
		CategoryID:  in.CategoryID,
		Title:       strings.TrimSpace(in.Title),
		FileName:    fileName,
		ObjectKey:   key,
		ContentType: contentType,
		SizeBytes:   info.Size,
		UploadedBy:  clm.UserID,
	}
	if err := s.repoDB.CreateDocument(ctx, doc); err != nil {
		slog.ErrorContext(ctx, "failed to repo create document", "document_id", id, "error", err)

		if dErr := s.storage.DeleteObject(ctx, s.bucket(), key); dErr != nil {
			slog.ErrorContext(ctx, "failed to delete orphaned document object", "key", key, "error", dErr)
		}

		return nil, goerror.NewServer(err)
	}

	return &DocumentUploadOutput{DocumentID: id}, nil
}

type maxBytesReader struct {
	r     io.Reader
	max   int64
	read  int64
	buf   [1]byte
	ended bool
}

func (m *maxBytesReader) Read(p []byte) (int, error) {
	if m.read >= m.max {
		if m.ended {
			return 0, errDocumentTooLarge
		}

		n, err := m.r.Read(m.buf[:])
		if n > 0 {
			m.ended = true
			return 0, errDocumentTooLarge
		}
		if err == nil {
			m.ended = true
			return 0, errDocumentTooLarge
		}
		return 0, err
	}

	remaining := m.max - m.read
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err := m.r.Read(p)
	m.read += int64(n)
	return n, err
}
