package domain

import (
	"time"

	"github.com/meetcore/authority/pkg/idx"
)

// AuthenticationToken is an opaque issuance record created when a
// participant asks for an authentication URL. It is removed the moment it
// is consumed, expired, or its room is destroyed — whichever comes first.
type AuthenticationToken struct {
	TokenString        string
	ParticipantAddress string
	RoomName           string
	CreationTimestamp  time.Time

	// CorrelationID ties log lines about this token's issuance, consumption,
	// and expiry together without ever logging TokenString itself. It has
	// no bearing on authentication and must never be accepted in place of
	// TokenString.
	CorrelationID idx.ID
}

// Expired reports whether the token has outlived its configured lifetime,
// measured from CreationTimestamp using the monotonic clock the caller
// supplies (tests inject a fake one; production uses time.Now).
func (t AuthenticationToken) Expired(now time.Time, lifetime time.Duration) bool {
	return now.Sub(t.CreationTimestamp) > lifetime
}
