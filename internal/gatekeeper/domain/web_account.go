package domain

import "time"

// WebAccount is a web panel login. At most one session token is live per
// account; a new login overwrites it.
type WebAccount struct {
	ID             string
	Username       string
	PasswordHash   string // bcrypt
	Email          string
	WebToken       *string    // current session token (nullable)
	WebTokenExpire *time.Time // stored as epoch milliseconds (nullable)
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SessionActive reports whether the stored token is still usable at now.
// A token expiring exactly at now is still valid.
func (a WebAccount) SessionActive(now time.Time) bool {
	if a.WebToken == nil || *a.WebToken == "" || a.WebTokenExpire == nil {
		return false
	}
	return !a.WebTokenExpire.Before(now)
}
