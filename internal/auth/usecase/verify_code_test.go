package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sayetech/dataroom/internal/auth/entity"
	"github.com/sayetech/dataroom/internal/pkg/goerror"
	"go.uber.org/atomic"
)

func TestVerifyCodeInvalidInput(t *testing.T) {
	env := newTestEnv(t)

	cases := map[string]VerifyCodeInput{
		"bad email":        {Email: "nope", Purpose: "login", Code: "123456"},
		"bad purpose":      {Email: "a@example.com", Purpose: "teleport", Code: "123456"},
		"non-numeric code": {Email: "a@example.com", Purpose: "login", Code: "abc123"},
		"missing code":     {Email: "a@example.com", Purpose: "login"},
	}
	for name, in := range cases {
		_, err := env.uc.VerifyCode(context.Background(), in)
		if err == nil {
			t.Fatalf("%s: expected error", name)
		}
		if got := codeOf(t, err); got != goerror.CodeInvalidInput {
			t.Fatalf("%s: expected invalid input code, got %v", name, got)
		}
	}
}

func TestVerifyCodeWithoutActiveCode(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.uc.VerifyCode(context.Background(), VerifyCodeInput{
		Email:   "nobody@example.com",
		Purpose: "login",
		Code:    "123456",
	})
	if got := codeOf(t, err); got != goerror.CodeUnauthorized {
		t.Fatalf("expected unauthorized code, got %v", got)
	}
	if !strings.Contains(err.Error(), "No active code") {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestVerifyCodeSuccess(t *testing.T) {
	env := newTestEnv(t)
	env.repo.addPending("fresh@example.com")
	env.requestCode(t, "fresh@example.com", "access_request_verification")

	out, err := env.uc.VerifyCode(context.Background(), VerifyCodeInput{
		Email:   "fresh@example.com",
		Purpose: "access_request_verification",
		Code:    "483920",
	})
	if err != nil {
		t.Fatalf("verify code: %v", err)
	}
	if out.AccessToken == "" || !strings.HasSuffix(out.AccessToken, "-investor") {
		t.Fatalf("unexpected access token: %q", out.AccessToken)
	}
	if out.InvestorID == 0 {
		t.Fatal("expected investor id")
	}

	inv, err := env.repo.GetInvestorByEmail(context.Background(), "fresh@example.com")
	if err != nil {
		t.Fatalf("expected investor row after verification: %v", err)
	}
	if inv.LastLoginAt == nil || !inv.LastLoginAt.Equal(env.clock.Now()) {
		t.Fatalf("expected last login stamped at %v, got %v", env.clock.Now(), inv.LastLoginAt)
	}

	// The consumed code never verifies again.
	_, err = env.uc.VerifyCode(context.Background(), VerifyCodeInput{
		Email:   "fresh@example.com",
		Purpose: "access_request_verification",
		Code:    "483920",
	})
	if got := codeOf(t, err); got != goerror.CodeUnauthorized {
		t.Fatalf("expected unauthorized on reuse, got %v", got)
	}
	if !strings.Contains(err.Error(), "No active code") {
		t.Fatalf("unexpected reuse message: %q", err.Error())
	}
}

func TestVerifyCodeWrongValueCountsDown(t *testing.T) {
	env := newTestEnv(t)
	env.repo.addInvestor("fumbler@example.com")
	env.requestCode(t, "fumbler@example.com", "login")

	in := VerifyCodeInput{Email: "fumbler@example.com", Purpose: "login", Code: "000000"}

	for i, want := range []string{
		"Invalid code. 2 attempts remaining.",
		"Invalid code. 1 attempts remaining.",
		"Invalid code. 0 attempts remaining.",
	} {
		_, err := env.uc.VerifyCode(context.Background(), in)
		if got := codeOf(t, err); got != goerror.CodeUnauthorized {
			t.Fatalf("attempt %d: expected unauthorized code, got %v", i+1, got)
		}
		if err.Error() != want {
			t.Fatalf("attempt %d: expected %q, got %q", i+1, want, err.Error())
		}
	}

	// Three failures arm the lockout window.
	lock, err := env.repo.GetLockout(context.Background(), "fumbler@example.com")
	if err != nil {
		t.Fatalf("expected lockout row: %v", err)
	}
	wantUntil := env.clock.Now().Add(30 * time.Minute)
	if !lock.LockedUntil.Equal(wantUntil) {
		t.Fatalf("expected lock until %v, got %v", wantUntil, lock.LockedUntil)
	}

	_, err = env.uc.VerifyCode(context.Background(), in)
	if got := codeOf(t, err); got != goerror.CodeTooManyRequest {
		t.Fatalf("expected too many requests while locked, got %v", got)
	}
}

func TestVerifyCodeExpired(t *testing.T) {
	env := newTestEnv(t)
	env.repo.addInvestor("slow@example.com")
	env.requestCode(t, "slow@example.com", "login")

	env.clock.Advance(11 * time.Minute)

	_, err := env.uc.VerifyCode(context.Background(), VerifyCodeInput{
		Email:   "slow@example.com",
		Purpose: "login",
		Code:    "483920",
	})
	if got := codeOf(t, err); got != goerror.CodeUnauthorized {
		t.Fatalf("expected unauthorized code, got %v", got)
	}
	if !strings.Contains(err.Error(), "expired") {
		t.Fatalf("unexpected message: %q", err.Error())
	}

	if env.repo.livePasscode("slow@example.com", entity.PasscodePurposeLogin) != nil {
		t.Fatal("expected expired passcode consumed")
	}
}

func TestVerifyCodeExhaustedBeforeCompare(t *testing.T) {
	env := newTestEnv(t)
	env.repo.addInvestor("brute@example.com")
	env.requestCode(t, "brute@example.com", "login")

	p := env.repo.livePasscode("brute@example.com", entity.PasscodePurposeLogin)
	env.repo.setAttempts(p.ID, 3)

	// Even the correct code is rejected once attempts are spent.
	_, err := env.uc.VerifyCode(context.Background(), VerifyCodeInput{
		Email:   "brute@example.com",
		Purpose: "login",
		Code:    "483920",
	})
	if got := codeOf(t, err); got != goerror.CodeUnauthorized {
		t.Fatalf("expected unauthorized code, got %v", got)
	}
	if !strings.Contains(err.Error(), "Too many invalid attempts") {
		t.Fatalf("unexpected message: %q", err.Error())
	}

	if env.repo.livePasscode("brute@example.com", entity.PasscodePurposeLogin) != nil {
		t.Fatal("expected exhausted passcode consumed")
	}
	if _, err := env.repo.GetLockout(context.Background(), "brute@example.com"); err != nil {
		t.Fatalf("expected lockout failure recorded: %v", err)
	}
}

func TestVerifyCodeReissueInvalidatesPrior(t *testing.T) {
	env := newTestEnv(t)
	env.repo.addInvestor("reissue@example.com")
	env.requestCode(t, "reissue@example.com", "login")

	env.idemp.reset()
	env.passcode.set("660042")
	env.requestCode(t, "reissue@example.com", "login")

	// The superseded code no longer matches anything.
	_, err := env.uc.VerifyCode(context.Background(), VerifyCodeInput{
		Email:   "reissue@example.com",
		Purpose: "login",
		Code:    "483920",
	})
	if got := codeOf(t, err); got != goerror.CodeUnauthorized {
		t.Fatalf("expected unauthorized for superseded code, got %v", got)
	}

	out, err := env.uc.VerifyCode(context.Background(), VerifyCodeInput{
		Email:   "reissue@example.com",
		Purpose: "login",
		Code:    "660042",
	})
	if err != nil {
		t.Fatalf("verify replacement code: %v", err)
	}
	if out.AccessToken == "" {
		t.Fatal("expected access token")
	}
}

func TestVerifyCodeClearsLockoutOnSuccess(t *testing.T) {
	env := newTestEnv(t)
	env.repo.addInvestor("redeemed@example.com")
	env.requestCode(t, "redeemed@example.com", "login")

	wrong := VerifyCodeInput{Email: "redeemed@example.com", Purpose: "login", Code: "000000"}
	for i := 0; i < 2; i++ {
		if _, err := env.uc.VerifyCode(context.Background(), wrong); err == nil {
			t.Fatal("expected mismatch error")
		}
	}
	if _, err := env.repo.GetLockout(context.Background(), "redeemed@example.com"); err != nil {
		t.Fatalf("expected failure counter row: %v", err)
	}

	_, err := env.uc.VerifyCode(context.Background(), VerifyCodeInput{
		Email:   "redeemed@example.com",
		Purpose: "login",
		Code:    "483920",
	})
	if err != nil {
		t.Fatalf("verify code: %v", err)
	}

	if _, err := env.repo.GetLockout(context.Background(), "redeemed@example.com"); err == nil {
		t.Fatal("expected lockout cleared after successful verification")
	}
}

func TestVerifyCodeConcurrentSingleWinner(t *testing.T) {
	env := newTestEnv(t)
	env.repo.addInvestor("racer@example.com")
	env.requestCode(t, "racer@example.com", "login")

	const workers = 8

	var (
		wins   atomic.Int32
		losses atomic.Int32
		wg     sync.WaitGroup
	)

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()

			_, err := env.uc.VerifyCode(context.Background(), VerifyCodeInput{
				Email:   "racer@example.com",
				Purpose: "login",
				Code:    "483920",
			})
			if err == nil {
				wins.Inc()
				return
			}
			var ge *goerror.Error
			if errors.As(err, &ge) && ge.Code() == goerror.CodeUnauthorized {
				losses.Inc()
			}
		}()
	}
	wg.Wait()

	if wins.Load() != 1 {
		t.Fatalf("expected exactly one winning verification, got %d", wins.Load())
	}
	if losses.Load() != workers-1 {
		t.Fatalf("expected %d rejected verifications, got %d", workers-1, losses.Load())
	}
}
