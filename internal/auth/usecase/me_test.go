package usecase

import (
	"context"
	"testing"

	"github.com/sayetech/dataroom/internal/pkg/goerror"
	"github.com/sayetech/dataroom/internal/pkg/jwt"
)

func investorSession(id int64, email string) context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{
		UserID:    id,
		UserEmail: email,
		Role:      "investor",
	})
}

func TestMeRequiresSession(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.uc.Me(context.Background())
	if got := codeOf(t, err); got != goerror.CodeUnauthorized {
		t.Fatalf("expected unauthorized code, got %v", got)
	}
}

func TestMeRejectsAdminSession(t *testing.T) {
	env := newTestEnv(t)

	ctx := jwt.SetAuth(context.Background(), jwt.Claims{UserID: 7, Role: "admin"})
	_, err := env.uc.Me(ctx)
	if got := codeOf(t, err); got != goerror.CodeForbidden {
		t.Fatalf("expected forbidden code, got %v", got)
	}
}

func TestMeUnknownInvestor(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.uc.Me(investorSession(404, "ghost@example.com"))
	if got := codeOf(t, err); got != goerror.CodeUnauthorized {
		t.Fatalf("expected unauthorized code, got %v", got)
	}
}

func TestMe(t *testing.T) {
	env := newTestEnv(t)
	env.repo.addInvestor("pat@example.com")

	inv, err := env.repo.GetInvestorByEmail(context.Background(), "pat@example.com")
	if err != nil {
		t.Fatalf("seed investor: %v", err)
	}

	out, err := env.uc.Me(investorSession(inv.ID, inv.Email))
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if out.InvestorID != inv.ID || out.Email != "pat@example.com" {
		t.Fatalf("unexpected profile: %+v", out)
	}
	if out.NDAAccepted || out.CanDownload {
		t.Fatalf("expected fresh account flags unset, got %+v", out)
	}
}
