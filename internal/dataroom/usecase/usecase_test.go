package usecase

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sayetech/dataroom/internal/dataroom/entity"
	"github.com/sayetech/dataroom/internal/pkg/config"
	"github.com/sayetech/dataroom/internal/pkg/goerror"
	"github.com/sayetech/dataroom/internal/pkg/instrument"
	"github.com/sayetech/dataroom/internal/pkg/jwt"
	"github.com/sayetech/dataroom/internal/pkg/storage"
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

type publishedEvents struct {
	mu        sync.Mutex
	submitted []AccessRequestSubmittedEvent
	decided   []AccessRequestDecidedEvent
	err       error
}

func (p *publishedEvents) PublishAccessRequestSubmitted(_ context.Context, msg AccessRequestSubmittedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}
	p.submitted = append(p.submitted, msg)
	return nil
}

func (p *publishedEvents) PublishAccessRequestDecided(_ context.Context, msg AccessRequestDecidedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}
	p.decided = append(p.decided, msg)
	return nil
}

type storedObject struct {
	key         string
	data        []byte
	contentType string
	metadata    map[string]string
}

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string]storedObject
	deleted []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string]storedObject)}
}

func (f *fakeStorage) Close() error { return nil }

func (f *fakeStorage) PutObject(_ context.Context, bucket, key string, r io.Reader, opts storage.PutOptions) (storage.ObjectInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return storage.ObjectInfo{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[bucket+"/"+key] = storedObject{
		key:         key,
		data:        data,
		contentType: opts.ContentType,
		metadata:    opts.Metadata,
	}

	return storage.ObjectInfo{
		Bucket:      bucket,
		Key:         key,
		Size:        int64(len(data)),
		ContentType: opts.ContentType,
	}, nil
}

func (f *fakeStorage) GetObject(_ context.Context, _, _ string, _ storage.GetOptions) (io.ReadCloser, storage.ObjectInfo, error) {
	return nil, storage.ObjectInfo{}, errors.New("not implemented")
}

func (f *fakeStorage) StatObject(_ context.Context, _, _ string) (storage.ObjectInfo, error) {
	return storage.ObjectInfo{}, errors.New("not implemented")
}

func (f *fakeStorage) DeleteObject(_ context.Context, bucket, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, bucket+"/"+key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStorage) ListObjects(_ context.Context, _, _ string, _ storage.ListOptions) ([]storage.ObjectInfo, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeStorage) PresignGet(_ context.Context, bucket, key string, _ time.Duration) (string, error) {
	return "https://files.test/" + bucket + "/" + key, nil
}

func (f *fakeStorage) PresignPut(_ context.Context, bucket, key string, _ storage.PutOptions, _ time.Duration) (string, error) {
	return "https://files.test/" + bucket + "/" + key, nil
}

func (f *fakeStorage) object(bucket, key string) (storedObject, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.objects[bucket+"/"+key]
	return obj, ok
}

// memRepo is an in-memory repoDB for the dataroom flows.
type memRepo struct {
	mu          sync.Mutex
	requests    map[int64]*entity.AccessRequest
	currentNDA  *entity.NDA
	acceptances map[int64]*entity.NDAAcceptance
	categories  map[int64]*entity.DocumentCategory
	documents   map[int64]*entity.Document
	accessLogs  []entity.DocumentAccessLog
	investors   map[int64]*entity.Investor

	decideErr error
}

func newMemRepo() *memRepo {
	return &memRepo{
		requests:    make(map[int64]*entity.AccessRequest),
		acceptances: make(map[int64]*entity.NDAAcceptance),
		categories:  make(map[int64]*entity.DocumentCategory),
		documents:   make(map[int64]*entity.Document),
		investors:   make(map[int64]*entity.Investor),
	}
}

func (r *memRepo) GetAccessRequestByID(_ context.Context, id int64) (*entity.AccessRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.requests[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	cp := *req
	return &cp, nil
}

func (r *memRepo) GetPendingAccessRequestByEmail(_ context.Context, email string) (*entity.AccessRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, req := range r.requests {
		if req.Email == email && req.Status == entity.AccessRequestStatusPending {
			cp := *req
			return &cp, nil
		}
	}
	return nil, goerror.ErrNotFound
}

func (r *memRepo) GetAccessRequestList(_ context.Context, filter entity.AccessRequestListFilter) ([]entity.AccessRequest, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []entity.AccessRequest
	for _, req := range r.requests {
		if filter.IsFilterByStatus && req.Status != filter.Status {
			continue
		}
		out = append(out, *req)
	}
	return out, int64(len(out)), nil
}

func (r *memRepo) CreateAccessRequest(_ context.Context, in entity.NewAccessRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, req := range r.requests {
		if req.Email == in.Email && req.Status == entity.AccessRequestStatusPending {
			return goerror.ErrConflict
		}
	}
	r.requests[in.ID] = &entity.AccessRequest{
		ID:       in.ID,
		Email:    in.Email,
		FullName: in.FullName,
		Company:  in.Company,
		Message:  in.Message,
		Status:   entity.AccessRequestStatusPending,
	}
	return nil
}

func (r *memRepo) DecideAccessRequest(_ context.Context, in entity.DecideAccessRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.decideErr != nil {
		return r.decideErr
	}

	req, ok := r.requests[in.RequestID]
	if !ok || req.Status.IsTerminal() {
		return goerror.ErrNotFound
	}

	req.Status = in.NewStatus
	req.DecidedBy = &in.AdminID
	decidedAt := in.DecidedAt
	req.DecidedAt = &decidedAt

	if in.NewStatus == entity.AccessRequestStatusApproved {
		r.investors[in.InvestorID] = &entity.Investor{
			ID:              in.InvestorID,
			Email:           req.Email,
			FullName:        req.FullName,
			Company:         req.Company,
			CanDownload:     in.CanDownload,
			AccessExpiresAt: in.AccessExpiresAt,
		}
	}
	return nil
}

func (r *memRepo) GetCurrentNDA(_ context.Context) (*entity.NDA, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.currentNDA == nil {
		return nil, goerror.ErrNotFound
	}
	cp := *r.currentNDA
	return &cp, nil
}

func (r *memRepo) GetNDAAcceptance(_ context.Context, investorID int64) (*entity.NDAAcceptance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, ok := r.acceptances[investorID]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	cp := *acc
	return &cp, nil
}

func (r *memRepo) AcceptNDA(_ context.Context, in entity.NDAAcceptance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.acceptances[in.InvestorID]; ok {
		return goerror.ErrConflict
	}
	cp := in
	r.acceptances[in.InvestorID] = &cp
	if inv, ok := r.investors[in.InvestorID]; ok {
		inv.NDAAccepted = true
	}
	return nil
}

func (r *memRepo) GetCategoryList(_ context.Context, parentID int64) ([]entity.DocumentCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []entity.DocumentCategory
	for _, c := range r.categories {
		if parentID == 0 && c.ParentID != nil {
			continue
		}
		if parentID != 0 && (c.ParentID == nil || *c.ParentID != parentID) {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (r *memRepo) GetCategoryByID(_ context.Context, id int64) (*entity.DocumentCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.categories[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memRepo) CreateCategory(_ context.Context, in entity.DocumentCategory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.categories {
		if c.Slug == in.Slug {
			return goerror.ErrConflict
		}
	}
	cp := in
	r.categories[in.ID] = &cp
	return nil
}

func (r *memRepo) GetDocumentByID(_ context.Context, id int64) (*entity.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.documents[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *memRepo) GetDocumentListByCategory(_ context.Context, categoryID int64) ([]entity.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []entity.Document
	for _, d := range r.documents {
		if d.CategoryID == categoryID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *memRepo) CreateDocument(_ context.Context, in entity.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := in
	r.documents[in.ID] = &cp
	return nil
}

func (r *memRepo) DeleteDocument(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.documents[id]; !ok {
		return goerror.ErrNotFound
	}
	delete(r.documents, id)
	return nil
}

func (r *memRepo) CreateAccessLog(_ context.Context, in entity.DocumentAccessLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accessLogs = append(r.accessLogs, in)
	return nil
}

func (r *memRepo) GetAccessLogList(_ context.Context, filter entity.AccessLogListFilter) ([]entity.DocumentAccessLog, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []entity.DocumentAccessLog
	for _, l := range r.accessLogs {
		if filter.DocumentID != 0 && l.DocumentID != filter.DocumentID {
			continue
		}
		if filter.InvestorID != 0 && l.InvestorID != filter.InvestorID {
			continue
		}
		out = append(out, l)
	}
	return out, int64(len(out)), nil
}

func (r *memRepo) GetInvestorByID(_ context.Context, id int64) (*entity.Investor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inv, ok := r.investors[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (r *memRepo) GetInvestorByEmail(_ context.Context, email string) (*entity.Investor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, inv := range r.investors {
		if inv.Email == email {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, goerror.ErrNotFound
}

func (r *memRepo) addInvestor(inv entity.Investor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := inv
	r.investors[inv.ID] = &cp
}

func (r *memRepo) addPendingRequest(id int64, email string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests[id] = &entity.AccessRequest{
		ID:       id,
		Email:    email,
		FullName: "Pat Investor",
		Company:  "Example Capital",
		Status:   entity.AccessRequestStatusPending,
	}
}

func (r *memRepo) lastAccessLog() *entity.DocumentAccessLog {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.accessLogs) == 0 {
		return nil
	}
	cp := r.accessLogs[len(r.accessLogs)-1]
	return &cp
}

type stubConfig struct {
	config.Config
}

func (stubConfig) GetString(key string) string {
	if key == "modules.dataroom.bucket" {
		return "dataroom-documents"
	}
	return ""
}

func (stubConfig) GetDay(key string) time.Duration {
	if key == "modules.dataroom.access_ttl_days" {
		return 90 * 24 * time.Hour
	}
	return 0
}

func (stubConfig) GetMinute(key string) time.Duration {
	if key == "modules.dataroom.link_ttl_minutes" {
		return 15 * time.Minute
	}
	return 0
}

func (stubConfig) GetInt64(key string) int64 {
	if key == "modules.dataroom.document_max_size_bytes" {
		return 1024
	}
	return 0
}

type testEnv struct {
	uc      *Usecase
	repo    *memRepo
	events  *publishedEvents
	storage *fakeStorage
	clock   *fixedClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}

	env := &testEnv{
		repo:    newMemRepo(),
		events:  &publishedEvents{},
		storage: newFakeStorage(),
		clock:   &fixedClock{now: time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)},
	}

	env.uc = New(Dependency{
		RepoDB:        env.repo,
		RepoMessaging: env.events,
		Validator:     v,
		Config:        stubConfig{},
		Storage:       env.storage,
		UID:           &seqID{},
		Clock:         env.clock,
		Instrument:    instrument.NewNoop(),
	})

	return env
}

func adminContext(id int64) context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{UserID: id, UserEmail: "admin@sayetech.io", Role: "admin"})
}

func investorContext(id int64) context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{UserID: id, UserEmail: "investor@example.com", Role: "investor"})
}

func codeOf(t *testing.T, err error) goerror.Code {
	t.Helper()

	var ge *goerror.Error
	if !errors.As(err, &ge) {
		t.Fatalf("expected structured error, got %v", err)
	}
	return ge.Code()
}
