package db

import (
	"context"

	"github.com/sayetech/dataroom/internal/notification/entity"
)

func (s *DB) CreateDeliveryLog(ctx context.Context, in entity.NewDeliveryLog) (err error) {
	ctx, span := s.startSpan(ctx, "CreateDeliveryLog")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx,
		`INSERT INTO email_delivery_logs (id, recipient, trigger_key, status, data, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		in.ID, in.Recipient, in.TriggerKey.String(), entity.DeliveryStatusQueued, in.Data, in.CreatedAt)
	return s.mapError(err)
}

func (s *DB) UpdateDeliveryLogStatus(ctx context.Context, in entity.UpdateDeliveryLog) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateDeliveryLogStatus")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx,
		`UPDATE email_delivery_logs SET status = $1, provider_response = $2, updated_at = $3 WHERE id = $4`,
		in.Status, in.ProviderResponse, in.UpdatedAt, in.ID)
	return s.mapError(err)
}
