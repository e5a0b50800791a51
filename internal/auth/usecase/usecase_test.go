package usecase

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/sayetech/dataroom/internal/auth/entity"
	"github.com/sayetech/dataroom/internal/pkg/config"
	"github.com/sayetech/dataroom/internal/pkg/goerror"
	"github.com/sayetech/dataroom/internal/pkg/hash"
	"github.com/sayetech/dataroom/internal/pkg/idempotency"
	"github.com/sayetech/dataroom/internal/pkg/instrument"
	"github.com/sayetech/dataroom/internal/pkg/jwt"
	"github.com/sayetech/dataroom/internal/pkg/validator"
	"go.uber.org/atomic"
)

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type seqID struct {
	n atomic.Int64
}

func (s *seqID) Generate() int64 {
	return s.n.Inc()
}

type stubPasscode struct {
	mu   sync.Mutex
	code string
	err  error
}

func (s *stubPasscode) Generate() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.code, s.err
}

func (s *stubPasscode) Length() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.code)
}

func (s *stubPasscode) set(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.code = code
}

type fakeJWT struct{}

func (fakeJWT) Generate(uid int64, email, role string) (string, error) {
	return "token-" + strconv.FormatInt(uid, 10) + "-" + role, nil
}

func (fakeJWT) Verify(string) (jwt.Claims, error) {
	return jwt.Claims{}, nil
}

type fakeIdempotency struct {
	mu    sync.Mutex
	state map[string]idempotency.State
}

func newFakeIdempotency() *fakeIdempotency {
	return &fakeIdempotency{state: make(map[string]idempotency.State)}
}

func (f *fakeIdempotency) Acquire(_ context.Context, key string, _ time.Duration) (idempotency.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if st, ok := f.state[key]; ok {
		return st, nil
	}
	f.state[key] = idempotency.StateInProgress
	return idempotency.StateNone, nil
}

func (f *fakeIdempotency) MarkCompleted(_ context.Context, key string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state[key] = idempotency.StateCompleted
	return nil
}

func (f *fakeIdempotency) MarkFailed(_ context.Context, key string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state[key] = idempotency.StateFailed
	return nil
}

func (f *fakeIdempotency) Exec(ctx context.Context, key string, fn func(context.Context) error, _ ...idempotency.Option) error {
	f.mu.Lock()
	switch f.state[key] {
	case idempotency.StateInProgress:
		f.mu.Unlock()
		return idempotency.ErrAlreadyInProgress
	case idempotency.StateCompleted:
		f.mu.Unlock()
		return idempotency.ErrAlreadyCompleted
	case idempotency.StateFailed:
		f.mu.Unlock()
		return idempotency.ErrAlreadyFailed
	}
	f.mu.Unlock()

	if err := fn(ctx); err != nil {
		_ = f.MarkFailed(ctx, key, 0)
		return err
	}
	return f.MarkCompleted(ctx, key, 0)
}

func (f *fakeIdempotency) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = make(map[string]idempotency.State)
}

type sentMail struct {
	email   string
	code    string
	purpose entity.PasscodePurpose
	ttl     time.Duration
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeMailer) SendPasscode(_ context.Context, email, code string, purpose entity.PasscodePurpose, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{email: email, code: code, purpose: purpose, ttl: ttl})
	return nil
}

func (f *fakeMailer) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeMailer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func (f *fakeMailer) last() sentMail {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[len(f.sent)-1]
}

// memRepo is an in-memory repoDB. All methods take the mutex so the
// concurrent verification test exercises the same single-winner semantics
// the SQL statements provide.
type memRepo struct {
	mu        sync.Mutex
	passcodes map[int64]*entity.Passcode
	lockouts  map[string]*entity.Lockout
	investors map[string]*entity.Investor
	pending   map[string]bool
}

func newMemRepo() *memRepo {
	return &memRepo{
		passcodes: make(map[int64]*entity.Passcode),
		lockouts:  make(map[string]*entity.Lockout),
		investors: make(map[string]*entity.Investor),
		pending:   make(map[string]bool),
	}
}

func (r *memRepo) GetLockout(_ context.Context, email string) (*entity.Lockout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.lockouts[email]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *memRepo) ClearLockout(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.lockouts, email)
	return nil
}

func (r *memRepo) RecordLockoutFailure(_ context.Context, email string, threshold int32, lockFor time.Duration, now time.Time) (*entity.Lockout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.lockouts[email]
	if !ok {
		l = &entity.Lockout{Email: email}
		r.lockouts[email] = l
	}

	if !l.LockedUntil.IsZero() && !l.LockedUntil.After(now) {
		l.FailedAttempts = 1
	} else {
		l.FailedAttempts++
	}

	if l.FailedAttempts >= threshold {
		l.LockedUntil = now.Add(lockFor)
	} else {
		l.LockedUntil = time.Time{}
	}
	l.UpdatedAt = now

	cp := *l
	return &cp, nil
}

func (r *memRepo) GetLivePasscode(_ context.Context, email string, purpose entity.PasscodePurpose) (*entity.Passcode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.passcodes {
		if p.Email == email && p.Purpose == purpose && !p.Consumed {
			cp := *p
			return &cp, nil
		}
	}
	return nil, goerror.ErrNotFound
}

func (r *memRepo) ReplacePasscode(_ context.Context, in entity.NewPasscode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.passcodes {
		if p.Email == in.Email && p.Purpose == in.Purpose && !p.Consumed {
			p.Consumed = true
		}
	}
	r.passcodes[in.ID] = &entity.Passcode{
		ID:        in.ID,
		Email:     in.Email,
		Purpose:   in.Purpose,
		CodeHash:  in.CodeHash,
		ExpiresAt: in.ExpiresAt,
	}
	return nil
}

func (r *memRepo) VoidPasscode(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.passcodes[id]; ok {
		p.Consumed = true
	}
	return nil
}

func (r *memRepo) ConsumePasscode(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.passcodes[id]
	if !ok || p.Consumed {
		return false, nil
	}
	p.Consumed = true
	return true, nil
}

func (r *memRepo) IncrementPasscodeAttempts(_ context.Context, id int64) (int32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.passcodes[id]
	if !ok {
		return 0, goerror.ErrNotFound
	}
	p.AttemptCount++
	return p.AttemptCount, nil
}

func (r *memRepo) GetInvestorByID(_ context.Context, id int64) (*entity.Investor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, inv := range r.investors {
		if inv.ID == id {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, goerror.ErrNotFound
}

func (r *memRepo) GetInvestorByEmail(_ context.Context, email string) (*entity.Investor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inv, ok := r.investors[email]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (r *memRepo) UpsertInvestorLogin(_ context.Context, in entity.UpsertInvestorLogin) (*entity.Investor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inv, ok := r.investors[in.Email]
	if !ok {
		inv = &entity.Investor{ID: in.ID, Email: in.Email, CreatedAt: in.LoginAt}
		r.investors[in.Email] = inv
	}
	loginAt := in.LoginAt
	inv.LastLoginAt = &loginAt

	cp := *inv
	return &cp, nil
}

func (r *memRepo) HasPendingAccessRequest(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending[email], nil
}

func (r *memRepo) addInvestor(email string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.investors[email] = &entity.Investor{ID: int64(len(r.investors) + 1000), Email: email}
}

func (r *memRepo) addPending(email string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending[email] = true
}

func (r *memRepo) livePasscode(email string, purpose entity.PasscodePurpose) *entity.Passcode {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.passcodes {
		if p.Email == email && p.Purpose == purpose && !p.Consumed {
			cp := *p
			return &cp
		}
	}
	return nil
}

func (r *memRepo) setAttempts(id int64, n int32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.passcodes[id]; ok {
		p.AttemptCount = n
	}
}

func (r *memRepo) passcodeByID(id int64) *entity.Passcode {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.passcodes[id]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

func (r *memRepo) armLockout(email string, until time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lockouts[email] = &entity.Lockout{Email: email, FailedAttempts: 3, LockedUntil: until}
}

type stubConfig struct {
	config.Config
}

func (stubConfig) GetInt32(key string) int32 {
	if key == "modules.auth.max_attempts" {
		return 3
	}
	return 0
}

func (stubConfig) GetMinute(key string) time.Duration {
	switch key {
	case "modules.auth.otp_ttl_minutes":
		return 10 * time.Minute
	case "modules.auth.lockout_minutes":
		return 30 * time.Minute
	default:
		return 0
	}
}

func (stubConfig) GetSecond(key string) time.Duration {
	switch key {
	case "modules.auth.resend_cooldown_seconds":
		return time.Minute
	case "modules.auth.mail_timeout_seconds":
		return 5 * time.Second
	default:
		return 0
	}
}

type testEnv struct {
	uc       *Usecase
	repo     *memRepo
	mail     *fakeMailer
	idemp    *fakeIdempotency
	clock    *fixedClock
	passcode *stubPasscode
	hmac     hash.Hash
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}

	env := &testEnv{
		repo:     newMemRepo(),
		mail:     &fakeMailer{},
		idemp:    newFakeIdempotency(),
		clock:    &fixedClock{now: time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)},
		passcode: &stubPasscode{code: "483920"},
		hmac:     hash.NewHMACSHA256("unit-test-secret"),
	}

	env.uc = New(Dependency{
		RepoDB:      env.repo,
		RepoEmail:   env.mail,
		Idempotency: env.idemp,
		Validator:   v,
		Config:      stubConfig{},
		HMAC:        env.hmac,
		Passcode:    env.passcode,
		UID:         &seqID{},
		Clock:       env.clock,
		JWT:         fakeJWT{},
		Instrument:  instrument.NewNoop(),
	})

	return env
}

func (e *testEnv) requestCode(t *testing.T, email, purpose string) *RequestCodeOutput {
	t.Helper()

	out, err := e.uc.RequestCode(context.Background(), RequestCodeInput{Email: email, Purpose: purpose})
	if err != nil {
		t.Fatalf("request code: %v", err)
	}
	return out
}

func codeOf(t *testing.T, err error) goerror.Code {
	t.Helper()

	var ge *goerror.Error
	if !errors.As(err, &ge) {
		t.Fatalf("expected structured error, got %v", err)
	}
	return ge.Code()
}
