package entity

import "time"

type AccessRequest struct {
	ID        int64
	Email     string
	FullName  string
	Company   string
	Message   string
	Status    AccessRequestStatus
	DecidedBy *int64
	DecidedAt *time.Time
	CreatedAt time.Time
}

type NewAccessRequest struct {
	ID       int64
	Email    string
	FullName string
	Company  string
	Message  string
}

// DecideAccessRequest carries the state transition applied when an admin
// approves or rejects a pending request.
type DecideAccessRequest struct {
	RequestID int64
	AdminID   int64
	NewStatus AccessRequestStatus
	DecidedAt time.Time

	// Set on approval only; the provisioned investor row.
	InvestorID      int64
	AccessExpiresAt *time.Time
	CanDownload     bool
}

type NDA struct {
	ID        int64
	Version   string
	Title     string
	Body      string
	IsCurrent bool
	CreatedAt time.Time
}

type NDAAcceptance struct {
	ID            int64
	NDAID         int64
	InvestorID    int64
	SignatureName string
	IPAddress     string
	UserAgent     string
	AcceptedAt    time.Time
}

type DocumentCategory struct {
	ID          int64
	Slug        string
	Name        string
	Description string
	// ParentID is nil for top-level categories.
	ParentID  *int64
	SortOrder int32
	CreatedAt time.Time
}

type Document struct {
	ID          int64
	CategoryID  int64
	Title       string
	FileName    string
	ObjectKey   string
	ContentType string
	SizeBytes   int64
	UploadedBy  int64
	CreatedAt   time.Time
}

type DocumentAccessLog struct {
	ID         int64
	DocumentID int64
	InvestorID int64
	Action     AccessAction
	IPAddress  string
	UserAgent  string
	CreatedAt  time.Time
}

// Investor mirrors the provisioned account the dataroom gates are evaluated
// against.
type Investor struct {
	ID              int64
	Email           string
	FullName        string
	Company         string
	NDAAccepted     bool
	CanDownload     bool
	AccessExpiresAt *time.Time
}

func (i Investor) AccessExpired(now time.Time) bool {
	return i.AccessExpiresAt != nil && now.After(*i.AccessExpiresAt)
}

type AccessRequestListFilter struct {
	IsFilterByStatus bool
	Status           AccessRequestStatus
	Size             int32
	Page             int32
}

type AccessLogListFilter struct {
	DocumentID int64
	InvestorID int64
	Size       int32
	Page       int32
}
