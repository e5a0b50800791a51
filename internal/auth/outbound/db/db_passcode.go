package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/sayetech/dataroom/internal/auth/entity"
)

const getLivePasscodeSQL = `
SELECT id, email, purpose, code_hash, attempt_count, consumed, expires_at, created_at
FROM auth_passcodes
WHERE email = $1 AND purpose = $2 AND NOT consumed
ORDER BY created_at DESC
LIMIT 1`

func (s *DB) GetLivePasscode(ctx context.Context, email string, purpose entity.PasscodePurpose) (_ *entity.Passcode, err error) {
	ctx, span := s.startSpan(ctx, "GetLivePasscode")
	defer func() { s.endSpan(span, err) }()

	var code entity.Passcode
	err = s.conn.QueryRow(ctx, getLivePasscodeSQL, email, purpose).Scan(
		&code.ID,
		&code.Email,
		&code.Purpose,
		&code.CodeHash,
		&code.AttemptCount,
		&code.Consumed,
		&code.ExpiresAt,
		&code.CreatedAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &code, nil
}

const voidLivePasscodesSQL = `
UPDATE auth_passcodes SET consumed = TRUE
WHERE email = $1 AND purpose = $2 AND NOT consumed`

const insertPasscodeSQL = `
INSERT INTO auth_passcodes (id, email, purpose, code_hash, expires_at)
VALUES ($1, $2, $3, $4, $5)`

func (s *DB) ReplacePasscode(ctx context.Context, in entity.NewPasscode) (err error) {
	ctx, span := s.startSpan(ctx, "ReplacePasscode")
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

	if _, err := tx.Exec(ctx, voidLivePasscodesSQL, in.Email, in.Purpose); err != nil {
		return s.mapError(err)
	}

	if _, err := tx.Exec(ctx, insertPasscodeSQL, in.ID, in.Email, in.Purpose, in.CodeHash, in.ExpiresAt); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

func (s *DB) VoidPasscode(ctx context.Context, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "VoidPasscode")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `UPDATE auth_passcodes SET consumed = TRUE WHERE id = $1`, id)
	return s.mapError(err)
}

// ConsumePasscode reports true only for the single caller whose update
// flipped the consumed flag.
func (s *DB) ConsumePasscode(ctx context.Context, id int64) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "ConsumePasscode")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `UPDATE auth_passcodes SET consumed = TRUE WHERE id = $1 AND NOT consumed`, id)
	if err != nil {
		return false, s.mapError(err)
	}

	return tag.RowsAffected() == 1, nil
}

func (s *DB) IncrementPasscodeAttempts(ctx context.Context, id int64) (_ int32, err error) {
	ctx, span := s.startSpan(ctx, "IncrementPasscodeAttempts")
	defer func() { s.endSpan(span, err) }()

	var attempts int32
	err = s.conn.QueryRow(ctx,
		`UPDATE auth_passcodes SET attempt_count = attempt_count + 1 WHERE id = $1 RETURNING attempt_count`, id,
	).Scan(&attempts)
	if err != nil {
		return 0, s.mapError(err)
	}

	return attempts, nil
}
