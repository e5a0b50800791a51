package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/sayetech/dataroom/internal/notification/usecase"
	"github.com/sayetech/dataroom/internal/pkg/instrument"
	"github.com/sayetech/dataroom/internal/pkg/messaging"
	"github.com/sayetech/dataroom/internal/pkg/uid"
	"github.com/sayetech/dataroom/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, headers []messaging.Header) context.Context {
	for i := range headers {
		if headers[i].Key == keyOfCorrelationID {
			return instrument.SetCorrelationID(ctx, string(headers[i].Value))
		}
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

func (h *MQHandler) AccessRequestSubmittedNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "AccessRequestSubmittedNotification")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: access request submitted notification", "msg_body", string(body))

	var payload event.AccessRequestSubmittedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of access request submitted notification", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.uc.ConsumeAccessRequestSubmitted(ctx, usecase.ConsumeAccessRequestSubmittedInput{
		RequestID: payload.RequestID,
		Email:     payload.Email,
		FullName:  payload.FullName,
		Company:   payload.Company,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume access request submitted", "msg_body", string(body), "error", err)
		return err
	}

	return nil
}

func (h *MQHandler) AccessRequestDecidedNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "AccessRequestDecidedNotification")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: access request decided notification", "msg_body", string(body))

	var payload event.AccessRequestDecidedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of access request decided notification", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.uc.ConsumeAccessRequestDecided(ctx, usecase.ConsumeAccessRequestDecidedInput{
		RequestID:       payload.RequestID,
		Email:           payload.Email,
		FullName:        payload.FullName,
		Approved:        payload.Approved,
		AccessExpiresAt: payload.AccessExpiresAt,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume access request decided", "msg_body", string(body), "error", err)
		return err
	}

	return nil
}
