package usecase

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sayetech/dataroom/internal/dataroom/entity"
	"github.com/sayetech/dataroom/internal/pkg/goerror"
)

func seedDocument(env *testEnv) entity.Document {
	doc := entity.Document{
		ID:          300,
		CategoryID:  1,
		Title:       "Pitch Deck",
		FileName:    "deck.pdf",
		ObjectKey:   "documents/300/deck.pdf",
		ContentType: "application/pdf",
		SizeBytes:   1024,
	}
	_ = env.repo.CreateDocument(context.Background(), doc)
	return doc
}

func TestDocumentViewRequiresNDA(t *testing.T) {
	env := newTestEnv(t)
	seedDocument(env)
	env.repo.addInvestor(entity.Investor{ID: 9, Email: "pat@example.com"})

	_, err := env.uc.DocumentView(investorContext(9), DocumentLinkInput{DocumentID: 300})
	if got := codeOf(t, err); got != goerror.CodeForbidden {
		t.Fatalf("expected forbidden before NDA acceptance, got %v", got)
	}
	if !strings.Contains(err.Error(), "NDA") {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestDocumentViewSignsAndLogs(t *testing.T) {
	env := newTestEnv(t)
	doc := seedDocument(env)
	env.repo.addInvestor(entity.Investor{ID: 9, Email: "pat@example.com", NDAAccepted: true})

	out, err := env.uc.DocumentView(investorContext(9), DocumentLinkInput{
		DocumentID: 300,
		IPAddress:  "203.0.113.9",
		UserAgent:  "test-agent",
	})
	if err != nil {
		t.Fatalf("document view: %v", err)
	}
	if out.URL != "https://files.test/dataroom-documents/"+doc.ObjectKey {
		t.Fatalf("unexpected url: %q", out.URL)
	}
	wantExpiry := env.clock.Now().Add(15 * time.Minute)
	if !out.ExpiresAt.Equal(wantExpiry) {
		t.Fatalf("expected link expiry %v, got %v", wantExpiry, out.ExpiresAt)
	}

	log := env.repo.lastAccessLog()
	if log == nil {
		t.Fatal("expected access log entry")
	}
	if log.DocumentID != 300 || log.InvestorID != 9 || log.Action != entity.AccessActionView {
		t.Fatalf("unexpected access log: %+v", log)
	}
	if log.IPAddress != "203.0.113.9" || log.UserAgent != "test-agent" {
		t.Fatalf("expected client details in log, got %+v", log)
	}
}

func TestDocumentDownloadRequiresGrant(t *testing.T) {
	env := newTestEnv(t)
	seedDocument(env)
	env.repo.addInvestor(entity.Investor{ID: 9, Email: "pat@example.com", NDAAccepted: true})

	_, err := env.uc.DocumentDownload(investorContext(9), DocumentLinkInput{DocumentID: 300})
	if got := codeOf(t, err); got != goerror.CodeForbidden {
		t.Fatalf("expected forbidden without download grant, got %v", got)
	}
	if env.repo.lastAccessLog() != nil {
		t.Fatal("expected no access log for refused download")
	}
}

func TestDocumentDownloadWithGrant(t *testing.T) {
	env := newTestEnv(t)
	seedDocument(env)
	env.repo.addInvestor(entity.Investor{ID: 9, Email: "pat@example.com", NDAAccepted: true, CanDownload: true})

	out, err := env.uc.DocumentDownload(investorContext(9), DocumentLinkInput{DocumentID: 300})
	if err != nil {
		t.Fatalf("document download: %v", err)
	}
	if out.URL == "" {
		t.Fatal("expected signed url")
	}

	log := env.repo.lastAccessLog()
	if log == nil || log.Action != entity.AccessActionDownload {
		t.Fatalf("expected download access log, got %+v", log)
	}
}

func TestDocumentLinkUnknownDocument(t *testing.T) {
	env := newTestEnv(t)
	env.repo.addInvestor(entity.Investor{ID: 9, Email: "pat@example.com", NDAAccepted: true})

	_, err := env.uc.DocumentView(investorContext(9), DocumentLinkInput{DocumentID: 404})
	if got := codeOf(t, err); got != goerror.CodeNotFound {
		t.Fatalf("expected not found code, got %v", got)
	}
}

func seedCategory(env *testEnv) {
	_ = env.repo.CreateCategory(context.Background(), entity.DocumentCategory{
		ID:   1,
		Slug: "financials",
		Name: "Financials",
	})
}

func TestDocumentUpload(t *testing.T) {
	env := newTestEnv(t)
	seedCategory(env)

	content := []byte("%PDF-1.7 financial model")
	out, err := env.uc.DocumentUpload(adminContext(7), DocumentUploadInput{
		CategoryID:  1,
		Title:       " FY26 Model ",
		FileName:    "model.pdf",
		ContentType: "application/pdf",
		File:        bytes.NewReader(content),
	})
	if err != nil {
		t.Fatalf("document upload: %v", err)
	}

	doc, err := env.repo.GetDocumentByID(context.Background(), out.DocumentID)
	if err != nil {
		t.Fatalf("expected document row: %v", err)
	}
	if doc.Title != "FY26 Model" || doc.FileName != "model.pdf" || doc.UploadedBy != 7 {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if doc.SizeBytes != int64(len(content)) {
		t.Fatalf("expected size %d, got %d", len(content), doc.SizeBytes)
	}

	obj, ok := env.storage.object("dataroom-documents", doc.ObjectKey)
	if !ok {
		t.Fatalf("expected stored object at %q", doc.ObjectKey)
	}
	if !bytes.Equal(obj.data, content) {
		t.Fatal("stored object content mismatch")
	}
	if obj.metadata["uploaded_by"] != "7" {
		t.Fatalf("expected uploader metadata, got %+v", obj.metadata)
	}
}

func TestDocumentUploadSanitizesFileName(t *testing.T) {
	env := newTestEnv(t)
	seedCategory(env)

	out, err := env.uc.DocumentUpload(adminContext(7), DocumentUploadInput{
		CategoryID:  1,
		Title:       "Sneaky",
		FileName:    "../../etc/passwd.pdf",
		ContentType: "application/pdf",
		File:        strings.NewReader("%PDF-1.7"),
	})
	if err != nil {
		t.Fatalf("document upload: %v", err)
	}

	doc, _ := env.repo.GetDocumentByID(context.Background(), out.DocumentID)
	if doc.FileName != "passwd.pdf" {
		t.Fatalf("expected base file name, got %q", doc.FileName)
	}
	if strings.Contains(doc.ObjectKey, "..") {
		t.Fatalf("object key must not traverse: %q", doc.ObjectKey)
	}
}

func TestDocumentUploadUnsupportedContentType(t *testing.T) {
	env := newTestEnv(t)
	seedCategory(env)

	_, err := env.uc.DocumentUpload(adminContext(7), DocumentUploadInput{
		CategoryID:  1,
		Title:       "Binary",
		FileName:    "tool.exe",
		ContentType: "application/octet-stream",
		File:        strings.NewReader("MZ"),
	})
	if got := codeOf(t, err); got != goerror.CodeInvalidInput {
		t.Fatalf("expected invalid input code, got %v", got)
	}
}

func TestDocumentUploadUnknownCategory(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.uc.DocumentUpload(adminContext(7), DocumentUploadInput{
		CategoryID:  55,
		Title:       "Deck",
		FileName:    "deck.pdf",
		ContentType: "application/pdf",
		File:        strings.NewReader("%PDF-1.7"),
	})
	if got := codeOf(t, err); got != goerror.CodeNotFound {
		t.Fatalf("expected not found code, got %v", got)
	}
}

func TestDocumentUploadTooLarge(t *testing.T) {
	env := newTestEnv(t)
	seedCategory(env)

	// One byte over the configured limit.
	big := bytes.Repeat([]byte("a"), 1025)
	_, err := env.uc.DocumentUpload(adminContext(7), DocumentUploadInput{
		CategoryID:  1,
		Title:       "Huge",
		FileName:    "huge.pdf",
		ContentType: "application/pdf",
		File:        bytes.NewReader(big),
	})
	if got := codeOf(t, err); got != goerror.CodeInvalidInput {
		t.Fatalf("expected invalid input code, got %v", got)
	}
}

func TestDocumentUploadRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	seedCategory(env)
	env.repo.addInvestor(entity.Investor{ID: 9, Email: "pat@example.com", NDAAccepted: true})

	_, err := env.uc.DocumentUpload(investorContext(9), DocumentUploadInput{
		CategoryID:  1,
		Title:       "Deck",
		FileName:    "deck.pdf",
		ContentType: "application/pdf",
		File:        strings.NewReader("%PDF-1.7"),
	})
	if got := codeOf(t, err); got != goerror.CodeForbidden {
		t.Fatalf("expected forbidden for investor role, got %v", got)
	}
}
