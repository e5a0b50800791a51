package entity

type DeliveryStatus int16

const (
	DeliveryStatusUnknown DeliveryStatus = 0
	DeliveryStatusQueued  DeliveryStatus = 1
	DeliveryStatusSent    DeliveryStatus = 2
	DeliveryStatusFailed  DeliveryStatus = 3
)

func (s DeliveryStatus) String() string {
	switch s {
	case DeliveryStatusQueued:
		return "queued"
	case DeliveryStatusSent:
		return "sent"
	case DeliveryStatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type TriggerKey string

const (
	TriggerKeyAccessRequestReceived   TriggerKey = "access_request_received"
	TriggerKeyAccessRequestAdminAlert TriggerKey = "access_request_admin_alert"
	TriggerKeyAccessRequestApproved   TriggerKey = "access_request_approved"
	TriggerKeyAccessRequestRejected   TriggerKey = "access_request_rejected"
)

func (tk TriggerKey) String() string {
	return string(tk)
}
