package entity

import (
	"time"

	"github.com/sayetech/dataroom/internal/pkg/valueobject"
)

type Admin struct {
	ID       int64
	Email    string
	FullName string
	Role     AdminRole
	// Password is the bcrypt hash, never the plaintext.
	Password string
	// TOTPSecret is the encrypted seed; nil when the admin has not started
	// TOTP enrollment.
	TOTPSecret  []byte
	TOTPEnabled bool
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type NewAdmin struct {
	ID        int64
	Email     string
	FullName  string
	Role      AdminRole
	Password  string
	CreatedBy int64
}

type AuditLog struct {
	ID        int64
	AdminID   int64
	Action    string
	Entity    string
	EntityID  int64
	Metadata  valueobject.JSONMap
	CreatedAt time.Time
}

type AuditLogListFilter struct {
	AdminID int64
	Size    int32
	Page    int32
}
