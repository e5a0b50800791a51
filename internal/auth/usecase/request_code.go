package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/sayetech/dataroom/internal/auth/entity"
	"github.com/sayetech/dataroom/internal/pkg/goerror"
	"github.com/sayetech/dataroom/internal/pkg/idempotency"
)

type RequestCodeInput struct {
	Email   string `validate:"required,email"`
	Purpose string `validate:"required,oneof=login access_request_verification password_reset"`
}

type RequestCodeOutput struct {
	ExpiresAt         time.Time
	AttemptsRemaining int32
}

func (s *Usecase) RequestCode(ctx context.Context, in RequestCodeInput) (*RequestCodeOutput, error) {
	ctx, span := s.startSpan(ctx, "RequestCode")
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
		slog.WarnContext(ctx, "code requested while locked out", "email", in.Email)
		return nil, goerror.NewBusiness("Too many failed attempts. Please try again later.", goerror.CodeTooManyRequest)
	}

	if err := s.ensureEligible(ctx, in.Email, purpose); err != nil {
		return nil, err
	}

	var out *RequestCodeOutput
	cooldown := s.cfg.GetSecond("modules.auth.resend_cooldown_seconds")
	err = s.idemp.Exec(ctx, "auth:otp:request:"+in.Email+":"+purpose.String(),
		func(ctx context.Context) error {
			issued, err := s.issueCode(ctx, in.Email, purpose, now)
			if err != nil {
				return err
			}
			out = issued
			return nil
		},
		idempotency.WithLockDuration(cooldown),
		idempotency.WithStateTTL(cooldown),
	)
	if errors.Is(err, idempotency.ErrAlreadyInProgress) ||
		errors.Is(err, idempotency.ErrAlreadyCompleted) ||
		errors.Is(err, idempotency.ErrAlreadyFailed) {
		slog.WarnContext(ctx, "code requested within cooldown window", "email", in.Email)
		return nil, goerror.NewBusiness("A code was sent recently. Please wait before requesting another.", goerror.CodeTooManyRequest)
	}
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (s *Usecase) ensureEligible(ctx context.Context, email string, purpose entity.PasscodePurpose) error {
	switch purpose {
	case entity.PasscodePurposeAccessRequestVerification:
		pending, err := s.repoDB.HasPendingAccessRequest(ctx, email)
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo check pending access request", "email", email, "error", err)
			return goerror.NewServer(err)
		}
		if !pending {
			slog.WarnContext(ctx, "code requested without pending access request", "email", email)
			return goerror.NewBusiness("No account found for this email address.", goerror.CodeNotFound)
		}
		return nil

	default:
		_, err := s.repoDB.GetInvestorByEmail(ctx, email)
		if errors.Is(err, goerror.ErrNotFound) {
			slog.WarnContext(ctx, "code requested for unknown email", "email", email, "purpose", purpose.String())
			return goerror.NewBusiness("No account found for this email address.", goerror.CodeNotFound)
		}
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo get investor by email", "email", email, "error", err)
			return goerror.NewServer(err)
		}
		return nil
	}
}

func (s *Usecase) issueCode(ctx context.Context, email string, purpose entity.PasscodePurpose, now time.Time) (*RequestCodeOutput, error) {
	code, err := s.passcode.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate passcode", "error", err)
		return nil, goerror.NewServer(err)
	}

	codeHash, err := s.hmac.Hash(code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash passcode", "error", err)
		return nil, goerror.NewServer(err)
	}

	ttl := s.cfg.GetMinute("modules.auth.otp_ttl_minutes")
	record := entity.NewPasscode{
		ID:        s.uid.Generate(),
		Email:     email,
		Purpose:   purpose,
		CodeHash:  string(codeHash),
		ExpiresAt: now.Add(ttl),
	}

	if err := s.repoDB.ReplacePasscode(ctx, record); err != nil {
		slog.ErrorContext(ctx, "failed to repo replace passcode", "email", email, "error", err)
		return nil, goerror.NewServer(err)
	}

	// Dispatch is bounded so a slow SMTP server cannot hold the request
	// open. A code that was never delivered must not stay verifiable.
	sendCtx, cancel := context.WithTimeout(ctx, s.cfg.GetSecond("modules.auth.mail_timeout_seconds"))
	defer cancel()

	if err := s.repoEmail.SendPasscode(sendCtx, email, code, purpose, ttl); err != nil {
		slog.ErrorContext(ctx, "failed to send passcode email", "email", email, "error", err)

		if vErr := s.repoDB.VoidPasscode(ctx, record.ID); vErr != nil {
			slog.ErrorContext(ctx, "failed to void undelivered passcode", "passcode_id", record.ID, "error", vErr)
		}

		return nil, goerror.NewServer(err)
	}

	return &RequestCodeOutput{
		ExpiresAt:         record.ExpiresAt,
		AttemptsRemaining: s.maxAttempts(),
	}, nil
}
