package entity

import "time"

// Passcode is a single issued one-time code. Only the HMAC of the code is
// stored; the plaintext leaves the process exactly once, inside the email.
type Passcode struct {
	ID           int64
	Email        string
	Purpose      PasscodePurpose
	CodeHash     string
	AttemptCount int32
	Consumed     bool
	ExpiresAt    time.Time
	CreatedAt    time.Time
}

// Live reports whether the passcode can still accept verification attempts
// at the given instant.
func (p Passcode) Live(now time.Time) bool {
	return !p.Consumed && now.Before(p.ExpiresAt)
}

type NewPasscode struct {
	ID        int64
	Email     string
	Purpose   PasscodePurpose
	CodeHash  string
	ExpiresAt time.Time
}

// Lockout tracks consecutive verification failures per email address across
// passcode lifetimes.
type Lockout struct {
	Email          string
	FailedAttempts int32
	LockedUntil    time.Time
	UpdatedAt      time.Time
}

// Active reports whether the lockout is still in force at the given instant.
func (l Lockout) Active(now time.Time) bool {
	return now.Before(l.LockedUntil)
}

// Investor is an account that may hold an authenticated dataroom session.
type Investor struct {
	ID              int64
	Email           string
	FullName        string
	Company         string
	NDAAccepted     bool
	CanDownload     bool
	AccessExpiresAt *time.Time
	LastLoginAt     *time.Time
	CreatedAt       time.Time
}

// AccessExpired reports whether the investor's dataroom access window has
// passed. A nil expiry means access does not expire.
func (i Investor) AccessExpired(now time.Time) bool {
	return i.AccessExpiresAt != nil && now.After(*i.AccessExpiresAt)
}

type UpsertInvestorLogin struct {
	ID      int64
	Email   string
	LoginAt time.Time
}
