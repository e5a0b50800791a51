package tests

import (
	"net/http"
	"testing"
)

func TestAccessRequestSubmit(t *testing.T) {
	payload := map[string]string{
		"email":     uniqueEmail("investor"),
		"full_name": "Real Test Investor",
		"company":   "Example Capital",
	}

	status, body := doJSON(t, http.MethodPost, "/api/v1/dataroom/access-requests", payload, "")
	if status != http.StatusOK {
		errEnv := decodeError(t, body)
		t.Fatalf("submit failed: status=%d message=%q", status, errEnv.Message)
	}

	env := decodeSuccess(t, body, nil)
	if env.Message == "" {
		t.Fatal("expected confirmation message")
	}
}

func TestAccessRequestSubmitDuplicatePending(t *testing.T) {
	email := uniqueEmail("dup")
	submitAccessRequest(t, email)

	payload := map[string]string{
		"email":     email,
		"full_name": "Real Test Investor",
		"company":   "Example Capital",
	}

	status, _ := doJSON(t, http.MethodPost, "/api/v1/dataroom/access-requests", payload, "")
	if status != http.StatusConflict {
		t.Fatalf("expected status 409 for duplicate pending request, got %d", status)
	}
}

func TestAccessRequestSubmitInvalidEmail(t *testing.T) {
	payload := map[string]string{
		"email":     "not-an-email",
		"full_name": "Real Test Investor",
	}

	status, _ := doJSON(t, http.MethodPost, "/api/v1/dataroom/access-requests", payload, "")
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", status)
	}
}

func TestAccessRequestListRequiresAuth(t *testing.T) {
	status, _ := doJSON(t, http.MethodGet, "/api/v1/dataroom/access-requests", nil, "")
	if status != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without token, got %d", status)
	}
}

func TestDocumentEndpointsRequireAuth(t *testing.T) {
	paths := []string{
		"/api/v1/dataroom/nda",
		"/api/v1/dataroom/categories",
		"/api/v1/dataroom/documents/1",
		"/api/v1/dataroom/documents/1/view",
		"/api/v1/dataroom/documents/1/download",
		"/api/v1/dataroom/access-logs",
	}

	for _, path := range paths {
		status, _ := doJSON(t, http.MethodGet, path, nil, "")
		if status != http.StatusUnauthorized {
			t.Fatalf("expected status 401 for %s without token, got %d", path, status)
		}
	}
}

func TestDocumentUploadRequiresAuth(t *testing.T) {
	status, _ := doMultipart(t, http.MethodPost,
		"/api/v1/dataroom/documents?category_id=1&title=Deck&file_name=deck.pdf",
		"document", "deck.pdf", []byte("%PDF-1.7 test"), "")
	if status != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without token, got %d", status)
	}
}
