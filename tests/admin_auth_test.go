package tests

import (
	"net/http"
	"testing"
)

func TestAdminLoginInvalidCredentials(t *testing.T) {
	payload := map[string]string{
		"email":    uniqueEmail("ghost-admin"),
		"password": "definitely-not-a-password",
	}

	status, body := doJSON(t, http.MethodPost, "/api/v1/admin/login", payload, "")
	if status != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", status)
	}

	errEnv := decodeError(t, body)
	if errEnv.Message == "" {
		t.Fatal("expected error message")
	}
}

func TestAdminLoginInvalidPayload(t *testing.T) {
	payload := map[string]string{
		"email": "not-an-email",
	}

	status, _ := doJSON(t, http.MethodPost, "/api/v1/admin/login", payload, "")
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", status)
	}
}

func TestAdminEndpointsRequireAuth(t *testing.T) {
	gets := []string{
		"/api/v1/admin/admins",
		"/api/v1/admin/audit-logs",
	}
	for _, path := range gets {
		status, _ := doJSON(t, http.MethodGet, path, nil, "")
		if status != http.StatusUnauthorized {
			t.Fatalf("expected status 401 for %s without token, got %d", path, status)
		}
	}

	posts := []string{
		"/api/v1/admin/password/change",
		"/api/v1/admin/totp/setup",
		"/api/v1/admin/totp/confirm",
		"/api/v1/admin/admins",
	}
	for _, path := range posts {
		status, _ := doJSON(t, http.MethodPost, path, map[string]string{}, "")
		if status != http.StatusUnauthorized {
			t.Fatalf("expected status 401 for %s without token, got %d", path, status)
		}
	}
}
