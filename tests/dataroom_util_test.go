package tests

import (
	"fmt"
	"net/http"
	"testing"
	"time"
)

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}

func submitAccessRequest(t *testing.T, email string) {
	t.Helper()

	payload := map[string]string{
		"email":     email,
		"full_name": "Real Test Investor",
		"company":   "Example Capital",
		"message":   "We would like to review the dataroom.",
	}

	status, body := doJSON(t, http.MethodPost, "/api/v1/dataroom/access-requests", payload, "")
	if status != http.StatusOK {
		errEnv := decodeError(t, body)
		t.Fatalf("submit access request failed: status=%d message=%q", status, errEnv.Message)
	}
}
