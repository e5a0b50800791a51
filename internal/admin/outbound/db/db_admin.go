package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/sayetech/dataroom/internal/admin/entity"
)

const adminColumns = `id, email, full_name, role, password, totp_secret, totp_enabled, is_active, created_at, updated_at`

func (s *DB) scanAdmin(row pgx.Row) (*entity.Admin, error) {
	var adm entity.Admin
	err := row.Scan(
		&adm.ID,
		&adm.Email,
		&adm.FullName,
		&adm.Role,
		&adm.Password,
		&adm.TOTPSecret,
		&adm.TOTPEnabled,
		&adm.IsActive,
		&adm.CreatedAt,
		&adm.UpdatedAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &adm, nil
}

func (s *DB) GetAdminByEmail(ctx context.Context, email string) (_ *entity.Admin, err error) {
	ctx, span := s.startSpan(ctx, "GetAdminByEmail")
	defer func() { s.endSpan(span, err) }()

	return s.scanAdmin(s.conn.QueryRow(ctx, `SELECT `+adminColumns+` FROM admins WHERE email = $1`, email))
}

func (s *DB) GetAdminByID(ctx context.Context, id int64) (_ *entity.Admin, err error) {
	ctx, span := s.startSpan(ctx, "GetAdminByID")
	defer func() { s.endSpan(span, err) }()

	return s.scanAdmin(s.conn.QueryRow(ctx, `SELECT `+adminColumns+` FROM admins WHERE id = $1`, id))
}

func (s *DB) GetAdminList(ctx context.Context) (_ []entity.Admin, err error) {
	ctx, span := s.startSpan(ctx, "GetAdminList")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `SELECT `+adminColumns+` FROM admins ORDER BY created_at`)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	var out []entity.Admin
	for rows.Next() {
		var adm entity.Admin
		if err = rows.Scan(
			&adm.ID, &adm.Email, &adm.FullName, &adm.Role, &adm.Password,
			&adm.TOTPSecret, &adm.TOTPEnabled, &adm.IsActive, &adm.CreatedAt, &adm.UpdatedAt,
		); err != nil {
			return nil, s.mapError(err)
		}
		out = append(out, adm)
	}
	if err = rows.Err(); err != nil {
		return nil, s.mapError(err)
	}

	return out, nil
}

func (s *DB) CreateAdmin(ctx context.Context, in entity.NewAdmin) (err error) {
	ctx, span := s.startSpan(ctx, "CreateAdmin")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx,
		`INSERT INTO admins (id, email, full_name, role, password, created_by) VALUES ($1, $2, $3, $4, $5, $6)`,
		in.ID, in.Email, in.FullName, in.Role, in.Password, in.CreatedBy)
	return s.mapError(err)
}

func (s *DB) UpdateAdminPassword(ctx context.Context, id int64, hash string) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateAdminPassword")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx,
		`UPDATE admins SET password = $1, updated_at = NOW() WHERE id = $2`, hash, id)
	return s.mapError(err)
}

func (s *DB) SetAdminTOTPSecret(ctx context.Context, id int64, secret []byte) (err error) {
	ctx, span := s.startSpan(ctx, "SetAdminTOTPSecret")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx,
		`UPDATE admins SET totp_secret = $1, totp_enabled = FALSE, updated_at = NOW() WHERE id = $2`, secret, id)
	return s.mapError(err)
}

func (s *DB) EnableAdminTOTP(ctx context.Context, id int64) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "EnableAdminTOTP")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx,
		`UPDATE admins SET totp_enabled = TRUE, updated_at = NOW() WHERE id = $1 AND totp_secret IS NOT NULL AND NOT totp_enabled`, id)
	if err != nil {
		return false, s.mapError(err)
	}

	return tag.RowsAffected() == 1, nil
}

func (s *DB) SetAdminActive(ctx context.Context, id int64, active bool) (err error) {
	ctx, span := s.startSpan(ctx, "SetAdminActive")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx,
		`UPDATE admins SET is_active = $1, updated_at = NOW() WHERE id = $2`, active, id)
	return s.mapError(err)
}
