package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/sayetech/dataroom/internal/pkg/config"
	"github.com/sayetech/dataroom/internal/pkg/goroutine"
	"github.com/sayetech/dataroom/internal/pkg/instrument"
	"github.com/sayetech/dataroom/internal/pkg/messaging"
	"github.com/sayetech/dataroom/internal/pkg/uid"
	"github.com/sayetech/dataroom/internal/shared/event"
)

func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Messaging,
	uuid uid.StringID,
	uc uc,
	ins instrument.Instrumentation,
) {
	mqHandler := &MQHandler{uc: uc, uuid: uuid, ins: ins}

	enableConsumerNames := cfg.GetArray("modules.notification.consumer_names")

	var consumers = []struct {
		name              string
		topic             string // destination where publisher sent message
		natsConsumerName  string // for nats
		kafkaConsumerName string // for kafka
		handler           messaging.Handler
	}{
		{
			name:              event.AccessRequestSubmittedConsumerNotification,
			topic:             event.AccessRequestSubmittedDestination,
			natsConsumerName:  event.AccessRequestSubmittedConsumerNotification,
			kafkaConsumerName: event.AccessRequestSubmittedConsumerNotification,
			handler:           mqHandler.AccessRequestSubmittedNotification,
		},
		{
			name:              event.AccessRequestDecidedConsumerNotification,
			topic:             event.AccessRequestDecidedDestination,
			natsConsumerName:  event.AccessRequestDecidedConsumerNotification,
			kafkaConsumerName: event.AccessRequestDecidedConsumerNotification,
			handler:           mqHandler.AccessRequestDecidedNotification,
		},
	}

	for _, consumer := range consumers {
		if len(enableConsumerNames) > 0 && slices.Contains(enableConsumerNames, consumer.name) {
			routine.Go(ctx, func(pCtx context.Context) error {
				slog.InfoContext(ctx, "Running job for handling consumer", "consumer", consumer.name)
				return messenger.Consume(pCtx,
					consumer.topic,
					consumer.handler,
					messaging.WithQueueGroup(consumer.natsConsumerName),
					messaging.WithGroup(consumer.kafkaConsumerName),
					messaging.WithAutoAck(true),
					messaging.WithConcurrency(10),
					messaging.WithMaxInFlight(10),
				)
			})
		}
	}
}
