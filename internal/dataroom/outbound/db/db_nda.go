package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/sayetech/dataroom/internal/dataroom/entity"
)

func (s *DB) GetCurrentNDA(ctx context.Context) (_ *entity.NDA, err error) {
	ctx, span := s.startSpan(ctx, "GetCurrentNDA")
	defer func() { s.endSpan(span, err) }()

	var nda entity.NDA
	err = s.conn.QueryRow(ctx,
		`SELECT id, version, title, body, is_current, created_at FROM ndas WHERE is_current ORDER BY created_at DESC LIMIT 1`,
	).Scan(&nda.ID, &nda.Version, &nda.Title, &nda.Body, &nda.IsCurrent, &nda.CreatedAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &nda, nil
}

func (s *DB) GetNDAAcceptance(ctx context.Context, investorID int64) (_ *entity.NDAAcceptance, err error) {
	ctx, span := s.startSpan(ctx, "GetNDAAcceptance")
	defer func() { s.endSpan(span, err) }()

	var acc entity.NDAAcceptance
	err = s.conn.QueryRow(ctx,
		`SELECT id, nda_id, investor_id, signature_name, ip_address, user_agent, accepted_at
		 FROM nda_acceptances WHERE investor_id = $1 ORDER BY accepted_at DESC LIMIT 1`, investorID,
	).Scan(&acc.ID, &acc.NDAID, &acc.InvestorID, &acc.SignatureName, &acc.IPAddress, &acc.UserAgent, &acc.AcceptedAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &acc, nil
}

func (s *DB) AcceptNDA(ctx context.Context, in entity.NDAAcceptance) (err error) {
	ctx, span := s.startSpan(ctx, "AcceptNDA")
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

	if _, err := tx.Exec(ctx,
		`INSERT INTO nda_acceptances (id, nda_id, investor_id, signature_name, ip_address, user_agent, accepted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		in.ID, in.NDAID, in.InvestorID, in.SignatureName, in.IPAddress, in.UserAgent, in.AcceptedAt); err != nil {
		return s.mapError(err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE investors SET nda_accepted = TRUE WHERE id = $1`, in.InvestorID); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}
