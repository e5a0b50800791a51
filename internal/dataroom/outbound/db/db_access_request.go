package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/sayetech/dataroom/internal/dataroom/entity"
)

const accessRequestColumns = `id, email, full_name, company, message, status, decided_by, decided_at, created_at`

func (s *DB) scanAccessRequest(row pgx.Row) (*entity.AccessRequest, error) {
	var (
		req       entity.AccessRequest
		decidedBy pgtype.Int8
		decidedAt pgtype.Timestamptz
	)
	err := row.Scan(
		&req.ID,
		&req.Email,
		&req.FullName,
		&req.Company,
		&req.Message,
		&req.Status,
		&decidedBy,
		&decidedAt,
		&req.CreatedAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	if decidedBy.Valid {
		req.DecidedBy = &decidedBy.Int64
	}
	if decidedAt.Valid {
		req.DecidedAt = &decidedAt.Time
	}

	return &req, nil
}

func (s *DB) GetAccessRequestByID(ctx context.Context, id int64) (_ *entity.AccessRequest, err error) {
	ctx, span := s.startSpan(ctx, "GetAccessRequestByID")
	defer func() { s.endSpan(span, err) }()

	return s.scanAccessRequest(s.conn.QueryRow(ctx,
		`SELECT `+accessRequestColumns+` FROM access_requests WHERE id = $1`, id))
}

func (s *DB) GetPendingAccessRequestByEmail(ctx context.Context, email string) (_ *entity.AccessRequest, err error) {
	ctx, span := s.startSpan(ctx, "GetPendingAccessRequestByEmail")
	defer func() { s.endSpan(span, err) }()

	return s.scanAccessRequest(s.conn.QueryRow(ctx,
		`SELECT `+accessRequestColumns+` FROM access_requests WHERE email = $1 AND status = $2`,
		email, entity.AccessRequestStatusPending))
}

func (s *DB) GetAccessRequestList(ctx context.Context, filter entity.AccessRequestListFilter) (_ []entity.AccessRequest, _ int64, err error) {
	ctx, span := s.startSpan(ctx, "GetAccessRequestList")
	defer func() { s.endSpan(span, err) }()

	where := ``
	args := []any{filter.Size, (filter.Page - 1) * filter.Size}
	if filter.IsFilterByStatus {
		where = ` WHERE status = $3`
		args = append(args, filter.Status)
	}

	rows, err := s.conn.Query(ctx,
		`SELECT `+accessRequestColumns+`, COUNT(*) OVER() FROM access_requests`+where+
			` ORDER BY created_at DESC LIMIT $1 OFFSET $2`, args...)
	if err != nil {
		return nil, 0, s.mapError(err)
	}
	defer rows.Close()

	var (
		out   []entity.AccessRequest
		total int64
	)
	for rows.Next() {
		var (
			req       entity.AccessRequest
			decidedBy pgtype.Int8
			decidedAt pgtype.Timestamptz
		)
		if err = rows.Scan(
			&req.ID, &req.Email, &req.FullName, &req.Company, &req.Message,
			&req.Status, &decidedBy, &decidedAt, &req.CreatedAt, &total,
		); err != nil {
			return nil, 0, s.mapError(err)
		}
		if decidedBy.Valid {
			req.DecidedBy = &decidedBy.Int64
		}
		if decidedAt.Valid {
			req.DecidedAt = &decidedAt.Time
		}
		out = append(out, req)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, s.mapError(err)
	}

	return out, total, nil
}

func (s *DB) CreateAccessRequest(ctx context.Context, in entity.NewAccessRequest) (err error) {
	ctx, span := s.startSpan(ctx, "CreateAccessRequest")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx,
		`INSERT INTO access_requests (id, email, full_name, company, message, status) VALUES ($1, $2, $3, $4, $5, $6)`,
		in.ID, in.Email, in.FullName, in.Company, in.Message, entity.AccessRequestStatusPending)
	return s.mapError(err)
}

// DecideAccessRequest flips a pending request to its terminal status and, on
// approval, provisions the investor row in the same transaction. The status
// guard in the UPDATE makes concurrent decisions lose with ErrNotFound.
func (s *DB) DecideAccessRequest(ctx context.Context, in entity.DecideAccessRequest) (err error) {
	ctx, span := s.startSpan(ctx, "DecideAccessRequest")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rolback", "error", rErr)
		}
	}()

	tag, err := tx.Exec(ctx,
		`UPDATE access_requests SET status = $1, decided_by = $2, decided_at = $3 WHERE id = $4 AND status = $5`,
		in.NewStatus, in.AdminID, in.DecidedAt, in.RequestID, entity.AccessRequestStatusPending)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return s.mapError(pgx.ErrNoRows)
	}

	if in.NewStatus == entity.AccessRequestStatusApproved {
		var expiresAt pgtype.Timestamptz
		if in.AccessExpiresAt != nil {
			expiresAt = pgtype.Timestamptz{Valid: true, Time: *in.AccessExpiresAt}
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO investors (id, email, full_name, company, can_download, access_expires_at, created_at)
			 SELECT $1, email, full_name, company, $2, $3, $4 FROM access_requests WHERE id = $5
			 ON CONFLICT (email) DO UPDATE SET can_download = $2, access_expires_at = $3`,
			in.InvestorID, in.CanDownload, expiresAt, in.DecidedAt, in.RequestID); err != nil {
			return s.mapError(err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}
