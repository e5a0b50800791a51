package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sayetech/dataroom/internal/dataroom/entity"
	"github.com/sayetech/dataroom/internal/pkg/clock"
	"github.com/sayetech/dataroom/internal/pkg/config"
	"github.com/sayetech/dataroom/internal/pkg/goerror"
	"github.com/sayetech/dataroom/internal/pkg/instrument"
	"github.com/sayetech/dataroom/internal/pkg/jwt"
	"github.com/sayetech/dataroom/internal/pkg/storage"
	"github.com/sayetech/dataroom/internal/pkg/uid"
	"github.com/sayetech/dataroom/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

const (
	roleInvestor   = "investor"
	roleAdmin      = "admin"
	roleSuperAdmin = "super_admin"
)

type AccessRequestSubmittedEvent struct {
	RequestID int64
	Email     string
	FullName  string
	Company   string
}

type AccessRequestDecidedEvent struct {
	RequestID       int64
	Email           string
	FullName        string
	Approved        bool
	AccessExpiresAt *time.Time
}

type repoMessaging interface {
	PublishAccessRequestSubmitted(ctx context.Context, msg AccessRequestSubmittedEvent) error
	PublishAccessRequestDecided(ctx context.Context, msg AccessRequestDecidedEvent) error
}

type repoDB interface {
	GetAccessRequestByID(ctx context.Context, id int64) (*entity.AccessRequest, error)
	GetPendingAccessRequestByEmail(ctx context.Context, email string) (*entity.AccessRequest, error)
	GetAccessRequestList(ctx context.Context, filter entity.AccessRequestListFilter) ([]entity.AccessRequest, int64, error)
	CreateAccessRequest(ctx context.Context, in entity.NewAccessRequest) error
	DecideAccessRequest(ctx context.Context, in entity.DecideAccessRequest) error

	GetCurrentNDA(ctx context.Context) (*entity.NDA, error)
	GetNDAAcceptance(ctx context.Context, investorID int64) (*entity.NDAAcceptance, error)
	// AcceptNDA stores the acceptance and flags the investor row in one
	// transaction.
	AcceptNDA(ctx context.Context, in entity.NDAAcceptance) error

	// GetCategoryList returns top-level categories when parentID is zero,
	// otherwise the children of parentID.
	GetCategoryList(ctx context.Context, parentID int64) ([]entity.DocumentCategory, error)
	GetCategoryByID(ctx context.Context, id int64) (*entity.DocumentCategory, error)
	CreateCategory(ctx context.Context, in entity.DocumentCategory) error

	GetDocumentByID(ctx context.Context, id int64) (*entity.Document, error)
	GetDocumentListByCategory(ctx context.Context, categoryID int64) ([]entity.Document, error)
	CreateDocument(ctx context.Context, in entity.Document) error
	DeleteDocument(ctx context.Context, id int64) error

	CreateAccessLog(ctx context.Context, in entity.DocumentAccessLog) error
	GetAccessLogList(ctx context.Context, filter entity.AccessLogListFilter) ([]entity.DocumentAccessLog, int64, error)

	GetInvestorByID(ctx context.Context, id int64) (*entity.Investor, error)
	GetInvestorByEmail(ctx context.Context, email string) (*entity.Investor, error)
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	validator     validator.Validator
	cfg           config.Config
	storage       storage.Storage
	uid           uid.NumberID
	clock         clock.Clocker
	ins           instrument.Instrumentation
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	Validator     validator.Validator
	Config        config.Config
	Storage       storage.Storage
	UID           uid.NumberID
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		validator:     dep.Validator,
		cfg:           dep.Config,
		storage:       dep.Storage,
		uid:           dep.UID,
		clock:         dep.Clock,
		ins:           dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("dataroom.usecase").Start(ctx, name)
}

func (s *Usecase) bucket() string {
	return s.cfg.GetString("modules.dataroom.bucket")
}

// authenticatedAdmin requires a valid admin or super admin session.
func (s *Usecase) authenticatedAdmin(ctx context.Context) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	if clm.Role != roleAdmin && clm.Role != roleSuperAdmin {
		slog.WarnContext(ctx, "admin route accessed without admin role", "user_id", clm.UserID, "role", clm.Role)
		return nil, goerror.NewBusiness("Account not allowed", goerror.CodeForbidden)
	}

	return clm, nil
}

// authenticatedInvestor requires a valid investor session whose dataroom
// access window has not passed and whose NDA has been accepted. Gates are
// evaluated in that order so an expired account never learns NDA state.
func (s *Usecase) authenticatedInvestor(ctx context.Context) (*entity.Investor, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	if clm.Role != roleInvestor {
		slog.WarnContext(ctx, "investor route accessed without investor role", "user_id", clm.UserID, "role", clm.Role)
		return nil, goerror.NewBusiness("Account not allowed", goerror.CodeForbidden)
	}

	inv, err := s.repoDB.GetInvestorByID(ctx, clm.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "investor session without account", "investor_id", clm.UserID)
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get investor by id", "investor_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if inv.AccessExpired(s.clock.Now()) {
		slog.WarnContext(ctx, "investor access window expired", "investor_id", inv.ID)
		return nil, goerror.NewBusiness("Your dataroom access has expired.", goerror.CodeForbidden)
	}

	return inv, nil
}

// ndaAccepted layers the NDA gate on top of authenticatedInvestor for routes
// that expose document content.
func (s *Usecase) ndaAccepted(ctx context.Context) (*entity.Investor, error) {
	inv, err := s.authenticatedInvestor(ctx)
	if err != nil {
		return nil, err
	}

	if !inv.NDAAccepted {
		slog.WarnContext(ctx, "document route accessed before NDA acceptance", "investor_id", inv.ID)
		return nil, goerror.NewBusiness("Please accept the NDA before accessing documents.", goerror.CodeForbidden)
	}

	return inv, nil
}
