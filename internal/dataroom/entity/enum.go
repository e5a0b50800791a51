package entity

// AccessRequestStatus tracks the review lifecycle of an access request.
type AccessRequestStatus int16

const (
	AccessRequestStatusUnknown AccessRequestStatus = 0

	// AccessRequestStatusPending mean the request awaits an admin decision.
	AccessRequestStatusPending AccessRequestStatus = 1

	// AccessRequestStatusApproved mean an investor account was provisioned.
	AccessRequestStatusApproved AccessRequestStatus = 2

	// AccessRequestStatusRejected mean the request was declined.
	AccessRequestStatusRejected AccessRequestStatus = 3
)

func (s AccessRequestStatus) String() string {
	switch s {
	case AccessRequestStatusPending:
		return "Pending"
	case AccessRequestStatusApproved:
		return "Approved"
	case AccessRequestStatusRejected:
		return "Rejected"
	default:
		return "Unknown"
	}
}

func (s AccessRequestStatus) IsTerminal() bool {
	return s == AccessRequestStatusApproved || s == AccessRequestStatusRejected
}

// AccessAction records how a document was touched.
type AccessAction int16

const (
	AccessActionUnknown  AccessAction = 0
	AccessActionView     AccessAction = 1
	AccessActionDownload AccessAction = 2
)

func (a AccessAction) String() string {
	switch a {
	case AccessActionView:
		return "View"
	case AccessActionDownload:
		return "Download"
	default:
		return "Unknown"
	}
}
