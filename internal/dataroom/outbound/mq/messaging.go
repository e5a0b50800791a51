package mq

import (
	"context"
	"encoding/json"

	"github.com/sayetech/dataroom/internal/dataroom/usecase"
	"github.com/sayetech/dataroom/internal/pkg/instrument"
	"github.com/sayetech/dataroom/internal/pkg/messaging"
	"github.com/sayetech/dataroom/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Messaging
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Messaging, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) PublishAccessRequestSubmitted(ctx context.Context, msg usecase.AccessRequestSubmittedEvent) error {
	ctx, span := m.ins.Tracer("dataroom.outbound.mq").Start(ctx, "PublishAccessRequestSubmitted")
	defer span.End()

	body, err := json.Marshal(event.AccessRequestSubmittedMessage{
		RequestID: msg.RequestID,
		Email:     msg.Email,
		FullName:  msg.FullName,
		Company:   msg.Company,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, event.AccessRequestSubmittedDestination, messaging.OutgoingMessage{
		Body:    body,
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func (m *Messaging) PublishAccessRequestDecided(ctx context.Context, msg usecase.AccessRequestDecidedEvent) error {
	ctx, span := m.ins.Tracer("dataroom.outbound.mq").Start(ctx, "PublishAccessRequestDecided")
	defer span.End()

	var expiresAt int64
	if msg.AccessExpiresAt != nil {
		expiresAt = msg.AccessExpiresAt.Unix()
	}

	body, err := json.Marshal(event.AccessRequestDecidedMessage{
		RequestID:       msg.RequestID,
		Email:           msg.Email,
		FullName:        msg.FullName,
		Approved:        msg.Approved,
		AccessExpiresAt: expiresAt,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, event.AccessRequestDecidedDestination, messaging.OutgoingMessage{
		Body:    body,
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
