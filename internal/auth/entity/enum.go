package entity

// PasscodePurpose identifies the flow a one-time passcode belongs to. A code
// issued for one purpose can never satisfy a verification for another.
type PasscodePurpose int16

const (
	PasscodePurposeUnknown PasscodePurpose = 0

	// PasscodePurposeLogin is used for investor sign-in.
	PasscodePurposeLogin PasscodePurpose = 1

	// PasscodePurposeAccessRequestVerification proves email ownership when
	// submitting a dataroom access request.
	PasscodePurposeAccessRequestVerification PasscodePurpose = 2

	// PasscodePurposePasswordReset is reserved for credential recovery flows.
	PasscodePurposePasswordReset PasscodePurpose = 3
)

func PasscodePurposeFromString(str string) PasscodePurpose {
	switch str {
	case "login":
		return PasscodePurposeLogin
	case "access_request_verification":
		return PasscodePurposeAccessRequestVerification
	case "password_reset":
		return PasscodePurposePasswordReset
	default:
		return PasscodePurposeUnknown
	}
}

func (p PasscodePurpose) String() string {
	switch p {
	case PasscodePurposeLogin:
		return "login"
	case PasscodePurposeAccessRequestVerification:
		return "access_request_verification"
	case PasscodePurposePasswordReset:
		return "password_reset"
	default:
		return "unknown"
	}
}

func (p PasscodePurpose) IsUnknown() bool {
	switch p {
	case PasscodePurposeLogin, PasscodePurposeAccessRequestVerification, PasscodePurposePasswordReset:
		return false
	default:
		return true
	}
}
