package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/sayetech/dataroom/internal/auth/entity"
)

const getInvestorByEmailSQL = `
SELECT id, email, full_name, company, nda_accepted, can_download, access_expires_at, last_login_at, created_at
FROM investors
WHERE email = $1`

func (s *DB) GetInvestorByEmail(ctx context.Context, email string) (_ *entity.Investor, err error) {
	ctx, span := s.startSpan(ctx, "GetInvestorByEmail")
	defer func() { s.endSpan(span, err) }()

	return s.scanInvestor(s.conn.QueryRow(ctx, getInvestorByEmailSQL, email))
}

const getInvestorByIDSQL = `
SELECT id, email, full_name, company, nda_accepted, can_download, access_expires_at, last_login_at, created_at
FROM investors
WHERE id = $1`

func (s *DB) GetInvestorByID(ctx context.Context, id int64) (_ *entity.Investor, err error) {
	ctx, span := s.startSpan(ctx, "GetInvestorByID")
	defer func() { s.endSpan(span, err) }()

	return s.scanInvestor(s.conn.QueryRow(ctx, getInvestorByIDSQL, id))
}

const upsertInvestorLoginSQL = `
INSERT INTO investors (id, email, last_login_at, created_at)
VALUES ($1, $2, $3, $3)
ON CONFLICT (email) DO UPDATE SET last_login_at = $3
RETURNING id, email, full_name, company, nda_accepted, can_download, access_expires_at, last_login_at, created_at`

func (s *DB) UpsertInvestorLogin(ctx context.Context, in entity.UpsertInvestorLogin) (_ *entity.Investor, err error) {
	ctx, span := s.startSpan(ctx, "UpsertInvestorLogin")
	defer func() { s.endSpan(span, err) }()

	return s.scanInvestor(s.conn.QueryRow(ctx, upsertInvestorLoginSQL, in.ID, in.Email, in.LoginAt))
}

const hasPendingAccessRequestSQL = `
SELECT EXISTS (SELECT 1 FROM access_requests WHERE email = $1 AND status = 1)`

func (s *DB) HasPendingAccessRequest(ctx context.Context, email string) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "HasPendingAccessRequest")
	defer func() { s.endSpan(span, err) }()

	var pending bool
	if err = s.conn.QueryRow(ctx, hasPendingAccessRequestSQL, email).Scan(&pending); err != nil {
		return false, s.mapError(err)
	}

	return pending, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *DB) scanInvestor(row rowScanner) (*entity.Investor, error) {
	var (
		inv             entity.Investor
		accessExpiresAt pgtype.Timestamptz
		lastLoginAt     pgtype.Timestamptz
	)
	err := row.Scan(
		&inv.ID,
		&inv.Email,
		&inv.FullName,
		&inv.Company,
		&inv.NDAAccepted,
		&inv.CanDownload,
		&accessExpiresAt,
		&lastLoginAt,
		&inv.CreatedAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	if accessExpiresAt.Valid {
		inv.AccessExpiresAt = &accessExpiresAt.Time
	}
	if lastLoginAt.Valid {
		inv.LastLoginAt = &lastLoginAt.Time
	}

	return &inv, nil
}
