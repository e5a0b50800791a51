package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/sayetech/dataroom/internal/auth/entity"
	"github.com/sayetech/dataroom/internal/pkg/goerror"
)

type RemainingAttemptsInput struct {
	Email   string `validate:"required,email"`
	Purpose string `validate:"required,oneof=login access_request_verification password_reset"`
}

type RemainingAttemptsOutput struct {
	AttemptsRemaining int32
	MaxAttempts       int32
}

// RemainingAttempts reports how many verification attempts the live passcode
// for the email still accepts. Without a live passcode the full budget is
// reported.
func (s *Usecase) RemainingAttempts(ctx context.Context, in RemainingAttemptsInput) (*RemainingAttemptsOutput, error) {
	ctx, span := s.startSpan(ctx, "RemainingAttempts")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	max := s.maxAttempts()
	out := &RemainingAttemptsOutput{
		AttemptsRemaining: max,
		MaxAttempts:       max,
	}

	code, err := s.repoDB.GetLivePasscode(ctx, in.Email, entity.PasscodePurposeFromString(in.Purpose))
	if errors.Is(err, goerror.ErrNotFound) {
		return out, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get live passcode", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	remaining := max - code.AttemptCount
	if remaining < 0 {
		remaining = 0
	}
	out.AttemptsRemaining = remaining

	return out, nil
}
