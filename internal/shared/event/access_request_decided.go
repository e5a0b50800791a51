package event

const AccessRequestDecidedDestination string = "dataroom_access_request_decided"
const AccessRequestDecidedConsumerNotification string = "dataroom_access_request_decided_notification"

type AccessRequestDecidedMessage struct {
	RequestID       int64  `json:"request_id"`
	Email           string `json:"email"`
	FullName        string `json:"full_name"`
	Approved        bool   `json:"approved"`
	AccessExpiresAt int64  `json:"access_expires_at,omitempty"`
}
