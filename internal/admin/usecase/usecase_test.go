package usecase

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/sayetech/dataroom/internal/admin/entity"
	"github.com/sayetech/dataroom/internal/pkg/config"
	"github.com/sayetech/dataroom/internal/pkg/goerror"
	"github.com/sayetech/dataroom/internal/pkg/instrument"
	"github.com/sayetech/dataroom/internal/pkg/jwt"
	"github.com/sayetech/dataroom/internal/pkg/mfa"
	"github.com/sayetech/dataroom/internal/pkg/validator"
	"go.uber.org/atomic"
)

const (
	testTOTPSecret = "JBSWY3DPEHPK3PXP"
	testTOTPCode   = "654321"
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

type fakeJWT struct{}

func (fakeJWT) Generate(uid int64, email, role string) (string, error) {
	return "token-" + strconv.FormatInt(uid, 10) + "-" + role, nil
}

func (fakeJWT) Verify(string) (jwt.Claims, error) {
	return jwt.Claims{}, nil
}

// plainHash is a transparent stand-in for bcrypt in tests.
type plainHash struct{}

func (plainHash) Hash(str string) ([]byte, error) {
	return []byte("hashed:" + str), nil
}

func (plainHash) Verify(hashed, str string) bool {
	return hashed == "hashed:"+str
}

type fakeEncryptor struct{}

func (fakeEncryptor) Encrypt(plaintext []byte, _ mfa.Scope) ([]byte, error) {
	return append([]byte("enc:"), plaintext...), nil
}

func (fakeEncryptor) Decrypt(ciphertext []byte, _ mfa.Scope) ([]byte, error) {
	if len(ciphertext) < 4 || string(ciphertext[:4]) != "enc:" {
		return nil, errors.New("bad ciphertext")
	}
	return ciphertext[4:], nil
}

type fakeTOTP struct{}

func (fakeTOTP) Generate(accountName string) (string, string, error) {
	return testTOTPSecret, "otpauth://totp/Sayetech%20Dataroom:" + accountName, nil
}

func (fakeTOTP) Validate(code, secret string, _ time.Time) bool {
	return code == testTOTPCode && secret == testTOTPSecret
}

func (fakeTOTP) GenerateCode(string, time.Time) (string, error) {
	return testTOTPCode, nil
}

type memRepo struct {
	mu        sync.Mutex
	admins    map[int64]*entity.Admin
	auditLogs []entity.AuditLog
}

func newMemRepo() *memRepo {
	return &memRepo{admins: make(map[int64]*entity.Admin)}
}

func (r *memRepo) GetAdminByEmail(_ context.Context, email string) (*entity.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, adm := range r.admins {
		if adm.Email == email {
			cp := *adm
			return &cp, nil
		}
	}
	return nil, goerror.ErrNotFound
}

func (r *memRepo) GetAdminByID(_ context.Context, id int64) (*entity.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	adm, ok := r.admins[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	cp := *adm
	return &cp, nil
}

func (r *memRepo) GetAdminList(_ context.Context) ([]entity.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []entity.Admin
	for _, adm := range r.admins {
		out = append(out, *adm)
	}
	return out, nil
}

func (r *memRepo) CreateAdmin(_ context.Context, in entity.NewAdmin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, adm := range r.admins {
		if adm.Email == in.Email {
			return goerror.ErrConflict
		}
	}
	r.admins[in.ID] = &entity.Admin{
		ID:       in.ID,
		Email:    in.Email,
		FullName: in.FullName,
		Role:     in.Role,
		Password: in.Password,
		IsActive: true,
	}
	return nil
}

func (r *memRepo) UpdateAdminPassword(_ context.Context, id int64, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	adm, ok := r.admins[id]
	if !ok {
		return goerror.ErrNotFound
	}
	adm.Password = hash
	return nil
}

func (r *memRepo) SetAdminTOTPSecret(_ context.Context, id int64, secret []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	adm, ok := r.admins[id]
	if !ok {
		return goerror.ErrNotFound
	}
	adm.TOTPSecret = secret
	adm.TOTPEnabled = false
	return nil
}

func (r *memRepo) EnableAdminTOTP(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	adm, ok := r.admins[id]
	if !ok || len(adm.TOTPSecret) == 0 || adm.TOTPEnabled {
		return false, nil
	}
	adm.TOTPEnabled = true
	return true, nil
}

func (r *memRepo) SetAdminActive(_ context.Context, id int64, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	adm, ok := r.admins[id]
	if !ok {
		return goerror.ErrNotFound
	}
	adm.IsActive = active
	return nil
}

func (r *memRepo) CreateAuditLog(_ context.Context, in entity.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.auditLogs = append(r.auditLogs, in)
	return nil
}

func (r *memRepo) GetAuditLogList(_ context.Context, filter entity.AuditLogListFilter) ([]entity.AuditLog, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []entity.AuditLog
	for _, l := range r.auditLogs {
		if filter.AdminID != 0 && l.AdminID != filter.AdminID {
			continue
		}
		out = append(out, l)
	}
	return out, int64(len(out)), nil
}

func (r *memRepo) addAdmin(adm entity.Admin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := adm
	r.admins[adm.ID] = &cp
}

func (r *memRepo) adminByID(id int64) *entity.Admin {
	r.mu.Lock()
	defer r.mu.Unlock()

	adm, ok := r.admins[id]
	if !ok {
		return nil
	}
	cp := *adm
	return &cp
}

func (r *memRepo) lastAuditLog() *entity.AuditLog {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.auditLogs) == 0 {
		return nil
	}
	cp := r.auditLogs[len(r.auditLogs)-1]
	return &cp
}

type stubConfig struct {
	config.Config
}

type testEnv struct {
	uc    *Usecase
	repo  *memRepo
	clock *fixedClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}

	env := &testEnv{
		repo:  newMemRepo(),
		clock: &fixedClock{now: time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)},
	}

	env.uc = New(Dependency{
		RepoDB:       env.repo,
		Validator:    v,
		Config:       stubConfig{},
		Bcrypt:       plainHash{},
		MFAEncryptor: fakeEncryptor{},
		Totp:         fakeTOTP{},
		UID:          &seqID{},
		Clock:        env.clock,
		JWT:          fakeJWT{},
		Instrument:   instrument.NewNoop(),
	})

	return env
}

func (e *testEnv) seedAdmin(id int64, email string, role entity.AdminRole) {
	e.repo.addAdmin(entity.Admin{
		ID:       id,
		Email:    email,
		FullName: "Sam Operator",
		Role:     role,
		Password: "hashed:correct horse battery staple",
		IsActive: true,
	})
}

func sessionContext(id int64, role string) context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{UserID: id, UserEmail: "admin@sayetech.io", Role: role})
}

func codeOf(t *testing.T, err error) goerror.Code {
	t.Helper()

	var ge *goerror.Error
	if !errors.As(err, &ge) {
		t.Fatalf("expected structured error, got %v", err)
	}
	return ge.Code()
}
