package event

const AccessRequestSubmittedDestination string = "dataroom_access_request_submitted"
const AccessRequestSubmittedConsumerNotification string = "dataroom_access_request_submitted_notification"

type AccessRequestSubmittedMessage struct {
	RequestID int64  `json:"request_id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Company   string `json:"company"`
}
