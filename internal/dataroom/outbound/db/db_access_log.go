package db

import (
	"context"
	"fmt"

	"github.com/sayetech/dataroom/internal/dataroom/entity"
)

func (s *DB) CreateAccessLog(ctx context.Context, in entity.DocumentAccessLog) (err error) {
	ctx, span := s.startSpan(ctx, "CreateAccessLog")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx,
		`INSERT INTO document_access_logs (id, document_id, investor_id, action, ip_address, user_agent, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		in.ID, in.DocumentID, in.InvestorID, in.Action, in.IPAddress, in.UserAgent, in.CreatedAt)
	return s.mapError(err)
}

func (s *DB) GetAccessLogList(ctx context.Context, filter entity.AccessLogListFilter) (_ []entity.DocumentAccessLog, _ int64, err error) {
	ctx, span := s.startSpan(ctx, "GetAccessLogList")
	defer func() { s.endSpan(span, err) }()

	where := ``
	args := []any{filter.Size, (filter.Page - 1) * filter.Size}
	if filter.DocumentID != 0 {
		args = append(args, filter.DocumentID)
		where += fmt.Sprintf(" AND document_id = $%d", len(args))
	}
	if filter.InvestorID != 0 {
		args = append(args, filter.InvestorID)
		where += fmt.Sprintf(" AND investor_id = $%d", len(args))
	}

	rows, err := s.conn.Query(ctx,
		`SELECT id, document_id, investor_id, action, ip_address, user_agent, created_at, COUNT(*) OVER()
		 FROM document_access_logs WHERE TRUE`+where+` ORDER BY created_at DESC LIMIT $1 OFFSET $2`, args...)
	if err != nil {
		return nil, 0, s.mapError(err)
	}
	defer rows.Close()

	var (
		out   []entity.DocumentAccessLog
		total int64
	)
	for rows.Next() {
		var log entity.DocumentAccessLog
		if err = rows.Scan(&log.ID, &log.DocumentID, &log.InvestorID, &log.Action,
			&log.IPAddress, &log.UserAgent, &log.CreatedAt, &total); err != nil {
			return nil, 0, s.mapError(err)
		}
		out = append(out, log)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, s.mapError(err)
	}

	return out, total, nil
}
