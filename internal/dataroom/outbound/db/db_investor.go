package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/sayetech/dataroom/internal/dataroom/entity"
)

const investorColumns = `id, email, full_name, company, nda_accepted, can_download, access_expires_at`

func (s *DB) scanInvestor(row pgx.Row) (*entity.Investor, error) {
	var (
		inv             entity.Investor
		accessExpiresAt pgtype.Timestamptz
	)
	err := row.Scan(
		&inv.ID,
		&inv.Email,
		&inv.FullName,
		&inv.Company,
		&inv.NDAAccepted,
		&inv.CanDownload,
		&accessExpiresAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	if accessExpiresAt.Valid {
		inv.AccessExpiresAt = &accessExpiresAt.Time
	}

	return &inv, nil
}

func (s *DB) GetInvestorByID(ctx context.Context, id int64) (_ *entity.Investor, err error) {
	ctx, span := s.startSpan(ctx, "GetInvestorByID")
	defer func() { s.endSpan(span, err) }()

	return s.scanInvestor(s.conn.QueryRow(ctx,
		`SELECT `+investorColumns+` FROM investors WHERE id = $1`, id))
}

func (s *DB) GetInvestorByEmail(ctx context.Context, email string) (_ *entity.Investor, err error) {
	ctx, span := s.startSpan(ctx, "GetInvestorByEmail")
	defer func() { s.endSpan(span, err) }()

	return s.scanInvestor(s.conn.QueryRow(ctx,
		`SELECT `+investorColumns+` FROM investors WHERE email = $1`, email))
}
