package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sayetech/dataroom/internal/notification/entity"
	"github.com/sayetech/dataroom/internal/pkg/config"
	"github.com/sayetech/dataroom/internal/pkg/instrument"
	"github.com/sayetech/dataroom/internal/pkg/mail"
	"github.com/sayetech/dataroom/internal/pkg/validator"
	"go.uber.org/atomic"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

type seqID struct {
	n atomic.Int64
}

func (s *seqID) Generate() int64 {
	return s.n.Inc()
}

type memRepo struct {
	mu      sync.Mutex
	created []entity.NewDeliveryLog
	updated []entity.UpdateDeliveryLog
}

func (r *memRepo) CreateDeliveryLog(_ context.Context, in entity.NewDeliveryLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, in)
	return nil
}

func (r *memRepo) UpdateDeliveryLogStatus(_ context.Context, in entity.UpdateDeliveryLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updated = append(r.updated, in)
	return nil
}

func (r *memRepo) statusOf(logID int64) entity.DeliveryStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, up := range r.updated {
		if up.ID == logID {
			return up.Status
		}
	}
	return entity.DeliveryStatusQueued
}

type fakeMailer struct {
	mu       sync.Mutex
	sent     []mail.Message
	attempts int
	// failFirst makes the first n Send calls fail.
	failFirst int
}

func (f *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.attempts++
	if f.attempts <= f.failFirst {
		return errors.New("smtp connect refused")
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeMailer) messages() []mail.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]mail.Message(nil), f.sent...)
}

func (f *fakeMailer) attemptCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts
}

type stubConfig struct {
	config.Config
	adminAddress string
}

func (c stubConfig) GetString(key string) string {
	switch key {
	case "mail.from":
		return "no-reply@sayetech.io"
	case "mail.support":
		return "support@sayetech.io"
	case "app.name":
		return "Sayetech Dataroom"
	case "app.web":
		return "https://dataroom.sayetech.io"
	case "modules.notification.admin_address":
		return c.adminAddress
	default:
		return ""
	}
}

func (stubConfig) GetUint64(key string) uint64 {
	if key == "modules.notification.mail_max_retries" {
		return 2
	}
	return 0
}

type testEnv struct {
	uc   *Usecase
	repo *memRepo
	mail *fakeMailer
}

func newTestEnv(t *testing.T, adminAddress string) *testEnv {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}

	env := &testEnv{
		repo: &memRepo{},
		mail: &fakeMailer{},
	}

	env.uc = NewNotification(Dependency{
		RepoDB:     env.repo,
		RepoMail:   env.mail,
		Config:     stubConfig{adminAddress: adminAddress},
		UID:        &seqID{},
		Clock:      &fixedClock{now: time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)},
		Validator:  v,
		Instrument: instrument.NewNoop(),
	})

	return env
}

func TestConsumeAccessRequestSubmitted(t *testing.T) {
	env := newTestEnv(t, "dataroom-admin@sayetech.io")

	err := env.uc.ConsumeAccessRequestSubmitted(context.Background(), ConsumeAccessRequestSubmittedInput{
		RequestID: 101,
		Email:     "pat@example.com",
		FullName:  "Pat Investor",
		Company:   "Example Capital",
	})
	if err != nil {
		t.Fatalf("consume: %v", err)
	}

	msgs := env.mail.messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 mails, got %d", len(msgs))
	}

	requester := msgs[0]
	if requester.To[0] != "pat@example.com" || requester.From != "no-reply@sayetech.io" {
		t.Fatalf("unexpected requester mail: %+v", requester)
	}
	if !strings.Contains(requester.HTMLBody, "Pat Investor") ||
		!strings.Contains(requester.HTMLBody, "support@sayetech.io") {
		t.Fatalf("requester body missing fields: %q", requester.HTMLBody)
	}

	alert := msgs[1]
	if alert.To[0] != "dataroom-admin@sayetech.io" {
		t.Fatalf("unexpected alert recipient: %+v", alert.To)
	}
	if !strings.Contains(alert.HTMLBody, "pat@example.com") ||
		!strings.Contains(alert.HTMLBody, "Example Capital") {
		t.Fatalf("alert body missing fields: %q", alert.HTMLBody)
	}

	env.repo.mu.Lock()
	defer env.repo.mu.Unlock()
	if len(env.repo.created) != 2 {
		t.Fatalf("expected 2 delivery logs, got %d", len(env.repo.created))
	}
	if env.repo.created[0].TriggerKey != entity.TriggerKeyAccessRequestReceived ||
		env.repo.created[1].TriggerKey != entity.TriggerKeyAccessRequestAdminAlert {
		t.Fatalf("unexpected trigger keys: %+v", env.repo.created)
	}
	for _, up := range env.repo.updated {
		if up.Status != entity.DeliveryStatusSent {
			t.Fatalf("expected sent status, got %v", up.Status)
		}
	}
}

func TestConsumeAccessRequestSubmittedWithoutAdminAddress(t *testing.T) {
	env := newTestEnv(t, "")

	err := env.uc.ConsumeAccessRequestSubmitted(context.Background(), ConsumeAccessRequestSubmittedInput{
		RequestID: 101,
		Email:     "pat@example.com",
		FullName:  "Pat Investor",
	})
	if err != nil {
		t.Fatalf("consume: %v", err)
	}

	if got := len(env.mail.messages()); got != 1 {
		t.Fatalf("expected 1 mail without admin address, got %d", got)
	}
}

func TestConsumeAccessRequestSubmittedDropsMalformed(t *testing.T) {
	env := newTestEnv(t, "dataroom-admin@sayetech.io")

	// A bad payload must be dropped without error so the broker does not
	// redeliver it forever.
	err := env.uc.ConsumeAccessRequestSubmitted(context.Background(), ConsumeAccessRequestSubmittedInput{
		RequestID: 101,
		Email:     "not-an-email",
		FullName:  "Pat Investor",
	})
	if err != nil {
		t.Fatalf("expected nil for malformed payload, got %v", err)
	}
	if len(env.mail.messages()) != 0 {
		t.Fatal("expected no mail for malformed payload")
	}
}

func TestConsumeAccessRequestDecidedApproved(t *testing.T) {
	env := newTestEnv(t, "")

	expires := time.Date(2026, time.June, 12, 0, 0, 0, 0, time.UTC)
	err := env.uc.ConsumeAccessRequestDecided(context.Background(), ConsumeAccessRequestDecidedInput{
		RequestID:       101,
		Email:           "pat@example.com",
		FullName:        "Pat Investor",
		Approved:        true,
		AccessExpiresAt: expires.Unix(),
	})
	if err != nil {
		t.Fatalf("consume: %v", err)
	}

	msgs := env.mail.messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 mail, got %d", len(msgs))
	}
	if msgs[0].Subject != "Your dataroom access has been approved" {
		t.Fatalf("unexpected subject: %q", msgs[0].Subject)
	}
	if !strings.Contains(msgs[0].HTMLBody, "June 12, 2026") {
		t.Fatalf("expected formatted expiry in body: %q", msgs[0].HTMLBody)
	}

	env.repo.mu.Lock()
	defer env.repo.mu.Unlock()
	if env.repo.created[0].TriggerKey != entity.TriggerKeyAccessRequestApproved {
		t.Fatalf("unexpected trigger key: %v", env.repo.created[0].TriggerKey)
	}
}

func TestConsumeAccessRequestDecidedApprovedWithoutExpiry(t *testing.T) {
	env := newTestEnv(t, "")

	err := env.uc.ConsumeAccessRequestDecided(context.Background(), ConsumeAccessRequestDecidedInput{
		RequestID: 101,
		Email:     "pat@example.com",
		FullName:  "Pat Investor",
		Approved:  true,
	})
	if err != nil {
		t.Fatalf("consume: %v", err)
	}

	msgs := env.mail.messages()
	if strings.Contains(msgs[0].HTMLBody, "valid until") {
		t.Fatalf("expected no expiry sentence: %q", msgs[0].HTMLBody)
	}
}

func TestConsumeAccessRequestDecidedRejected(t *testing.T) {
	env := newTestEnv(t, "")

	err := env.uc.ConsumeAccessRequestDecided(context.Background(), ConsumeAccessRequestDecidedInput{
		RequestID: 101,
		Email:     "pat@example.com",
		FullName:  "Pat Investor",
	})
	if err != nil {
		t.Fatalf("consume: %v", err)
	}

	msgs := env.mail.messages()
	if msgs[0].Subject != "Your dataroom access request" {
		t.Fatalf("unexpected subject: %q", msgs[0].Subject)
	}
	if !strings.Contains(msgs[0].HTMLBody, "unable to grant access") {
		t.Fatalf("unexpected body: %q", msgs[0].HTMLBody)
	}

	env.repo.mu.Lock()
	defer env.repo.mu.Unlock()
	if env.repo.created[0].TriggerKey != entity.TriggerKeyAccessRequestRejected {
		t.Fatalf("unexpected trigger key: %v", env.repo.created[0].TriggerKey)
	}
}

func TestSendEmailRetriesTransientFailure(t *testing.T) {
	env := newTestEnv(t, "")
	env.mail.failFirst = 1

	err := env.uc.ConsumeAccessRequestDecided(context.Background(), ConsumeAccessRequestDecidedInput{
		RequestID: 101,
		Email:     "pat@example.com",
		FullName:  "Pat Investor",
		Approved:  true,
	})
	if err != nil {
		t.Fatalf("consume: %v", err)
	}

	if got := env.mail.attemptCount(); got != 2 {
		t.Fatalf("expected 2 attempts, got %d", got)
	}
	if got := env.repo.statusOf(1); got != entity.DeliveryStatusSent {
		t.Fatalf("expected sent status after retry, got %v", got)
	}
}

func TestSendEmailRecordsPermanentFailure(t *testing.T) {
	env := newTestEnv(t, "")
	env.mail.failFirst = 10

	err := env.uc.ConsumeAccessRequestDecided(context.Background(), ConsumeAccessRequestDecidedInput{
		RequestID: 101,
		Email:     "pat@example.com",
		FullName:  "Pat Investor",
		Approved:  true,
	})
	if err != nil {
		t.Fatalf("consume: %v", err)
	}

	// One initial attempt plus the configured two retries.
	if got := env.mail.attemptCount(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
	if got := env.repo.statusOf(1); got != entity.DeliveryStatusFailed {
		t.Fatalf("expected failed status, got %v", got)
	}

	env.repo.mu.Lock()
	defer env.repo.mu.Unlock()
	last := env.repo.updated[len(env.repo.updated)-1]
	if last.ProviderResponse["error"] == "" || last.ProviderResponse["error"] == nil {
		t.Fatalf("expected provider error recorded, got %+v", last.ProviderResponse)
	}
}
