package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sayetech/dataroom/internal/auth/entity"
	"github.com/sayetech/dataroom/internal/pkg/goerror"
)

func TestRequestCodeInvalidInput(t *testing.T) {
	env := newTestEnv(t)

	cases := map[string]RequestCodeInput{
		"bad email":       {Email: "not-an-email", Purpose: "login"},
		"missing email":   {Purpose: "login"},
		"bad purpose":     {Email: "a@example.com", Purpose: "teleport"},
		"missing purpose": {Email: "a@example.com"},
	}
	for name, in := range cases {
		_, err := env.uc.RequestCode(context.Background(), in)
		if err == nil {
			t.Fatalf("%s: expected error", name)
		}
		if got := codeOf(t, err); got != goerror.CodeInvalidInput {
			t.Fatalf("%s: expected invalid input code, got %v", name, got)
		}
	}
}

func TestRequestCodeUnknownEmail(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.uc.RequestCode(context.Background(), RequestCodeInput{
		Email:   "ghost@example.com",
		Purpose: "login",
	})
	if got := codeOf(t, err); got != goerror.CodeNotFound {
		t.Fatalf("expected not found code, got %v", got)
	}
	if env.mail.count() != 0 {
		t.Fatalf("expected no mail sent, got %d", env.mail.count())
	}
}

func TestRequestCodeIssuesAndDelivers(t *testing.T) {
	env := newTestEnv(t)
	env.repo.addInvestor("ada@example.com")

	out := env.requestCode(t, "ada@example.com", "login")

	if out.AttemptsRemaining != 3 {
		t.Fatalf("expected 3 attempts remaining, got %d", out.AttemptsRemaining)
	}
	wantExpiry := env.clock.Now().Add(10 * time.Minute)
	if !out.ExpiresAt.Equal(wantExpiry) {
		t.Fatalf("expected expiry %v, got %v", wantExpiry, out.ExpiresAt)
	}

	if env.mail.count() != 1 {
		t.Fatalf("expected 1 mail sent, got %d", env.mail.count())
	}
	mail := env.mail.last()
	if mail.email != "ada@example.com" || mail.code != "483920" {
		t.Fatalf("unexpected mail: %+v", mail)
	}
	if mail.ttl != 10*time.Minute {
		t.Fatalf("expected 10m ttl in mail, got %v", mail.ttl)
	}

	p := env.repo.livePasscode("ada@example.com", entity.PasscodePurposeLogin)
	if p == nil {
		t.Fatal("expected a live passcode")
	}
	if !env.hmac.Verify(p.CodeHash, "483920") {
		t.Fatal("stored hash does not verify against issued code")
	}
}

func TestRequestCodeNormalizesEmail(t *testing.T) {
	env := newTestEnv(t)
	env.repo.addInvestor("mixed@example.com")

	env.requestCode(t, "  MiXeD@Example.COM ", "login")

	if env.repo.livePasscode("mixed@example.com", entity.PasscodePurposeLogin) == nil {
		t.Fatal("expected live passcode under normalized email")
	}
}

func TestRequestCodeAccessRequestVerification(t *testing.T) {
	env := newTestEnv(t)

	// No pending access request and no investor row.
	_, err := env.uc.RequestCode(context.Background(), RequestCodeInput{
		Email:   "new@example.com",
		Purpose: "access_request_verification",
	})
	if got := codeOf(t, err); got != goerror.CodeNotFound {
		t.Fatalf("expected not found code, got %v", got)
	}

	// A pending access request is enough; no investor row required.
	env.repo.addPending("new@example.com")
	out := env.requestCode(t, "new@example.com", "access_request_verification")
	if out.AttemptsRemaining != 3 {
		t.Fatalf("expected 3 attempts remaining, got %d", out.AttemptsRemaining)
	}
}

func TestRequestCodeWhileLockedOut(t *testing.T) {
	env := newTestEnv(t)
	env.repo.addInvestor("locked@example.com")
	env.repo.armLockout("locked@example.com", env.clock.Now().Add(10*time.Minute))

	_, err := env.uc.RequestCode(context.Background(), RequestCodeInput{
		Email:   "locked@example.com",
		Purpose: "login",
	})
	if got := codeOf(t, err); got != goerror.CodeTooManyRequest {
		t.Fatalf("expected too many requests code, got %v", got)
	}
	if env.mail.count() != 0 {
		t.Fatalf("expected no mail sent while locked, got %d", env.mail.count())
	}
}

func TestRequestCodeExpiredLockoutDoesNotBlock(t *testing.T) {
	env := newTestEnv(t)
	env.repo.addInvestor("was-locked@example.com")
	env.repo.armLockout("was-locked@example.com", env.clock.Now().Add(-time.Minute))

	env.requestCode(t, "was-locked@example.com", "login")

	if env.mail.count() != 1 {
		t.Fatalf("expected mail sent after lockout expiry, got %d", env.mail.count())
	}
}

func TestRequestCodeResendCooldown(t *testing.T) {
	env := newTestEnv(t)
	env.repo.addInvestor("eager@example.com")

	env.requestCode(t, "eager@example.com", "login")

	_, err := env.uc.RequestCode(context.Background(), RequestCodeInput{
		Email:   "eager@example.com",
		Purpose: "login",
	})
	if got := codeOf(t, err); got != goerror.CodeTooManyRequest {
		t.Fatalf("expected too many requests code, got %v", got)
	}
	if env.mail.count() != 1 {
		t.Fatalf("expected a single mail, got %d", env.mail.count())
	}
}

func TestRequestCodeMailFailureVoidsCode(t *testing.T) {
	env := newTestEnv(t)
	env.repo.addInvestor("undeliverable@example.com")
	env.mail.fail(errors.New("smtp connect refused"))

	_, err := env.uc.RequestCode(context.Background(), RequestCodeInput{
		Email:   "undeliverable@example.com",
		Purpose: "login",
	})
	if got := codeOf(t, err); got != goerror.CodeInternal {
		t.Fatalf("expected internal code, got %v", got)
	}

	if env.repo.livePasscode("undeliverable@example.com", entity.PasscodePurposeLogin) != nil {
		t.Fatal("expected undelivered passcode to be voided")
	}
}

func TestRequestCodeReplacesPriorCode(t *testing.T) {
	env := newTestEnv(t)
	env.repo.addInvestor("repeat@example.com")

	env.requestCode(t, "repeat@example.com", "login")
	first := env.repo.livePasscode("repeat@example.com", entity.PasscodePurposeLogin)
	if first == nil {
		t.Fatal("expected first passcode")
	}

	env.idemp.reset()
	env.passcode.set("917465")
	env.requestCode(t, "repeat@example.com", "login")

	if p := env.repo.passcodeByID(first.ID); p == nil || !p.Consumed {
		t.Fatal("expected prior passcode consumed on reissue")
	}

	live := env.repo.livePasscode("repeat@example.com", entity.PasscodePurposeLogin)
	if live == nil {
		t.Fatal("expected replacement passcode")
	}
	if live.ID == first.ID {
		t.Fatal("expected a new passcode row")
	}
	if !env.hmac.Verify(live.CodeHash, "917465") {
		t.Fatal("live passcode should verify the new code only")
	}
}
