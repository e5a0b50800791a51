package db

import (
	"context"
	"fmt"

	"github.com/sayetech/dataroom/internal/admin/entity"
)

func (s *DB) CreateAuditLog(ctx context.Context, in entity.AuditLog) (err error) {
	ctx, span := s.startSpan(ctx, "CreateAuditLog")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx,
		`INSERT INTO audit_logs (id, admin_id, action, entity, entity_id, metadata, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		in.ID, in.AdminID, in.Action, in.Entity, in.EntityID, in.Metadata, in.CreatedAt)
	return s.mapError(err)
}

func (s *DB) GetAuditLogList(ctx context.Context, filter entity.AuditLogListFilter) (_ []entity.AuditLog, _ int64, err error) {
	ctx, span := s.startSpan(ctx, "GetAuditLogList")
	defer func() { s.endSpan(span, err) }()

	query := `SELECT id, admin_id, action, entity, entity_id, metadata, created_at, COUNT(*) OVER() AS total
		FROM audit_logs WHERE TRUE`
	args := []any{}

	if filter.AdminID > 0 {
		args = append(args, filter.AdminID)
		query += fmt.Sprintf(" AND admin_id = $%d", len(args))
	}

	args = append(args, filter.Size)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, (filter.Page-1)*filter.Size)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, s.mapError(err)
	}
	defer rows.Close()

	var total int64
	var out []entity.AuditLog
	for rows.Next() {
		var log entity.AuditLog
		if err = rows.Scan(
			&log.ID, &log.AdminID, &log.Action, &log.Entity, &log.EntityID,
			&log.Metadata, &log.CreatedAt, &total,
		); err != nil {
			return nil, 0, s.mapError(err)
		}
		out = append(out, log)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, s.mapError(err)
	}

	return out, total, nil
}
