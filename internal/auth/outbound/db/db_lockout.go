package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/sayetech/dataroom/internal/auth/entity"
)

const getLockoutSQL = `
SELECT email, failed_attempts, locked_until, updated_at
FROM auth_lockouts
WHERE email = $1`

func (s *DB) GetLockout(ctx context.Context, email string) (_ *entity.Lockout, err error) {
	ctx, span := s.startSpan(ctx, "GetLockout")
	defer func() { s.endSpan(span, err) }()

	var (
		lock        entity.Lockout
		lockedUntil pgtype.Timestamptz
	)
	err = s.conn.QueryRow(ctx, getLockoutSQL, email).Scan(
		&lock.Email,
		&lock.FailedAttempts,
		&lockedUntil,
		&lock.UpdatedAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	if lockedUntil.Valid {
		lock.LockedUntil = lockedUntil.Time
	}

	return &lock, nil
}

func (s *DB) ClearLockout(ctx context.Context, email string) (err error) {
	ctx, span := s.startSpan(ctx, "ClearLockout")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `DELETE FROM auth_lockouts WHERE email = $1`, email)
	return s.mapError(err)
}

// recordLockoutFailureSQL bumps the failure counter in one round trip. An
// expired lock window restarts the counter at one, and the lock is armed in
// the same statement the counter crosses the threshold.
const recordLockoutFailureSQL = `
INSERT INTO auth_lockouts AS l (email, failed_attempts, locked_until, updated_at)
VALUES ($1, 1, CASE WHEN 1 >= $2 THEN $3::timestamptz ELSE NULL END, $4)
ON CONFLICT (email) DO UPDATE SET
	failed_attempts = CASE
		WHEN l.locked_until IS NOT NULL AND l.locked_until <= $4 THEN 1
		ELSE l.failed_attempts + 1
	END,
	locked_until = CASE
		WHEN (CASE
			WHEN l.locked_until IS NOT NULL AND l.locked_until <= $4 THEN 1
			ELSE l.failed_attempts + 1
		END) >= $2 THEN $3::timestamptz
		ELSE NULL
	END,
	updated_at = $4
RETURNING email, failed_attempts, locked_until, updated_at`

func (s *DB) RecordLockoutFailure(ctx context.Context, email string, threshold int32, lockFor time.Duration, now time.Time) (_ *entity.Lockout, err error) {
	ctx, span := s.startSpan(ctx, "RecordLockoutFailure")
	defer func() { s.endSpan(span, err) }()

	var (
		lock        entity.Lockout
		lockedUntil pgtype.Timestamptz
	)
	err = s.conn.QueryRow(ctx, recordLockoutFailureSQL, email, threshold, now.Add(lockFor), now).Scan(
		&lock.Email,
		&lock.FailedAttempts,
		&lockedUntil,
		&lock.UpdatedAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	if lockedUntil.Valid {
		lock.LockedUntil = lockedUntil.Time
	}

	return &lock, nil
}
