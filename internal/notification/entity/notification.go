package entity

import (
	"time"

	"github.com/sayetech/dataroom/internal/pkg/valueobject"
)

// NewDeliveryLog records an email that is about to be handed to the mail
// provider. Data is a snapshot of the event payload the email was built from.
type NewDeliveryLog struct {
	ID         int64
	Recipient  string
	TriggerKey TriggerKey
	Data       valueobject.JSONMap
	CreatedAt  time.Time
}

type UpdateDeliveryLog struct {
	ID               int64
	Status           DeliveryStatus
	ProviderResponse valueobject.JSONMap
	UpdatedAt        time.Time
}
