package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sayetech/dataroom/internal/auth/entity"
	"github.com/sayetech/dataroom/internal/pkg/goerror"
)

type VerifyCodeInput struct {
	Email   string `validate:"required,email"`
	Purpose string `validate:"required,oneof=login access_request_verification password_reset"`
	Code    string `validate:"required,numeric"`
}

type VerifyCodeOutput struct {
	AccessToken string
	InvestorID  int64
}

// VerifyCode checks a submitted code against the live passcode for the email
// and purpose. The checks are ordered so that expiry and attempt exhaustion
// are decided before the code value is ever compared.
func (s *Usecase) VerifyCode(ctx context.Context, in VerifyCodeInput) (*VerifyCodeOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyCode")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	purpose := entity.PasscodePurposeFromString(in.Purpose)
	now := s.clock.Now()

	lock, err := s.repoDB.GetLockout(ctx, in.Email)
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get lockout", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}
	if lock != nil && lock.Active(now) {
		slog.WarnContext(ctx, "verification attempted while locked out", "email", in.Email)
		return nil, goerror.NewBusiness("Too many failed attempts. Please try again later.", goerror.CodeTooManyRequest)
	}

	code, err := s.repoDB.GetLivePasscode(ctx, in.Email, purpose)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "verification without live passcode", "email", in.Email, "purpose", purpose.String())
		return nil, errNoActiveCode()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get live passcode", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !now.Before(code.ExpiresAt) {
		s.consume(ctx, code.ID)
		slog.WarnContext(ctx, "verification against expired passcode", "email", in.Email, "passcode_id", code.ID)
		return nil, goerror.NewBusiness("Code has expired. Please request a new code.", goerror.CodeUnauthorized)
	}

	if code.AttemptCount >= s.maxAttempts() {
		s.consume(ctx, code.ID)
		s.recordFailure(ctx, in.Email, now)
		slog.WarnContext(ctx, "verification against exhausted passcode", "email", in.Email, "passcode_id", code.ID)
		return nil, goerror.NewBusiness("Too many invalid attempts. Please request a new code.", goerror.CodeUnauthorized)
	}

	if !s.hmac.Verify(code.CodeHash, in.Code) {
		attempts, err := s.repoDB.IncrementPasscodeAttempts(ctx, code.ID)
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo increment passcode attempts", "passcode_id", code.ID, "error", err)
			return nil, goerror.NewServer(err)
		}
		s.recordFailure(ctx, in.Email, now)

		remaining := s.maxAttempts() - attempts
		if remaining < 0 {
			remaining = 0
		}

		slog.WarnContext(ctx, "passcode mismatch", "email", in.Email, "attempts", attempts)
		return nil, goerror.NewBusiness(fmt.Sprintf("Invalid code. %d attempts remaining.", remaining), goerror.CodeUnauthorized)
	}

	// Only the caller that flips the consumed flag wins. Concurrent
	// verifications of the same code lose here, not at the compare.
	won, err := s.repoDB.ConsumePasscode(ctx, code.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo consume passcode", "passcode_id", code.ID, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !won {
		slog.WarnContext(ctx, "passcode already consumed by concurrent verification", "passcode_id", code.ID)
		return nil, errNoActiveCode()
	}

	if err := s.repoDB.ClearLockout(ctx, in.Email); err != nil && !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo clear lockout", "email", in.Email, "error", err)
	}

	inv, err := s.repoDB.UpsertInvestorLogin(ctx, entity.UpsertInvestorLogin{
		ID:      s.uid.Generate(),
		Email:   in.Email,
		LoginAt: now,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo upsert investor login", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	token, err := s.jwt.Generate(inv.ID, inv.Email, "investor")
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access jwt token", "investor_id", inv.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &VerifyCodeOutput{
		AccessToken: token,
		InvestorID:  inv.ID,
	}, nil
}

func errNoActiveCode() error {
	return goerror.NewBusiness("No active code found. Please request a new code.", goerror.CodeUnauthorized)
}

func (s *Usecase) consume(ctx context.Context, id int64) {
	if _, err := s.repoDB.ConsumePasscode(ctx, id); err != nil {
		slog.ErrorContext(ctx, "failed to repo consume passcode", "passcode_id", id, "error", err)
	}
}

func (s *Usecase) recordFailure(ctx context.Context, email string, now time.Time) {
	_, err := s.repoDB.RecordLockoutFailure(ctx, email, s.maxAttempts(), s.cfg.GetMinute("modules.auth.lockout_minutes"), now)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo record lockout failure", "email", email, "error", err)
	}
}
