package usecase

import (
	"context"
	"time"

	"github.com/sayetech/dataroom/internal/auth/entity"
	"github.com/sayetech/dataroom/internal/pkg/clock"
	"github.com/sayetech/dataroom/internal/pkg/config"
	"github.com/sayetech/dataroom/internal/pkg/hash"
	"github.com/sayetech/dataroom/internal/pkg/idempotency"
	"github.com/sayetech/dataroom/internal/pkg/instrument"
	"github.com/sayetech/dataroom/internal/pkg/jwt"
	"github.com/sayetech/dataroom/internal/pkg/otp"
	"github.com/sayetech/dataroom/internal/pkg/uid"
	"github.com/sayetech/dataroom/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	GetLockout(ctx context.Context, email string) (*entity.Lockout, error)
	ClearLockout(ctx context.Context, email string) error
	// RecordLockoutFailure atomically bumps the failure counter for the email
	// and returns the resulting row. When the counter reaches threshold the
	// lock window is set to now+lockFor in the same statement.
	RecordLockoutFailure(ctx context.Context, email string, threshold int32, lockFor time.Duration, now time.Time) (*entity.Lockout, error)

	GetLivePasscode(ctx context.Context, email string, purpose entity.PasscodePurpose) (*entity.Passcode, error)
	// ReplacePasscode consumes any live passcode for the same email and
	// purpose and inserts the new one in a single transaction.
	ReplacePasscode(ctx context.Context, in entity.NewPasscode) error
	VoidPasscode(ctx context.Context, id int64) error
	// ConsumePasscode marks the passcode consumed and reports whether this
	// call was the one that flipped it.
	ConsumePasscode(ctx context.Context, id int64) (bool, error)
	// IncrementPasscodeAttempts atomically bumps the attempt counter and
	// returns the post-increment value.
	IncrementPasscodeAttempts(ctx context.Context, id int64) (int32, error)

	GetInvestorByID(ctx context.Context, id int64) (*entity.Investor, error)
	GetInvestorByEmail(ctx context.Context, email string) (*entity.Investor, error)
	UpsertInvestorLogin(ctx context.Context, in entity.UpsertInvestorLogin) (*entity.Investor, error)
	HasPendingAccessRequest(ctx context.Context, email string) (bool, error)
}

type repoEmail interface {
	SendPasscode(ctx context.Context, email, code string, purpose entity.PasscodePurpose, ttl time.Duration) error
}

type Usecase struct {
	repoDB    repoDB
	repoEmail repoEmail
	idemp     idempotency.Idempotency
	validator validator.Validator
	cfg       config.Config
	hmac      hash.Hash
	passcode  otp.PasscodeGenerator
	uid       uid.NumberID
	clock     clock.Clocker
	jwt       jwt.JWT
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoDB      repoDB
	RepoEmail   repoEmail
	Idempotency idempotency.Idempotency
	Validator   validator.Validator
	Config      config.Config
	HMAC        hash.Hash
	Passcode    otp.PasscodeGenerator
	UID         uid.NumberID
	Clock       clock.Clocker
	JWT         jwt.JWT
	Instrument  instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		repoEmail: dep.RepoEmail,
		idemp:     dep.Idempotency,
		validator: dep.Validator,
		cfg:       dep.Config,
		hmac:      dep.HMAC,
		passcode:  dep.Passcode,
		uid:       dep.UID,
		clock:     dep.Clock,
		jwt:       dep.JWT,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("auth.usecase").Start(ctx, name)
}

func (s *Usecase) maxAttempts() int32 {
	if v := s.cfg.GetInt32("modules.auth.max_attempts"); v > 0 {
		return v
	}
	return 3
}
