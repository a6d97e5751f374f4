package domain

import "time"

// AuthenticationState is a proven binding between a participant address and
// an external identity, scoped to a single room. At most one exists per
// participant address (I2).
type AuthenticationState struct {
	ParticipantAddress    string
	RoomName              string
	AuthenticatedIdentity string
	AuthTimestamp         time.Time
}

// PreAuthExpired reports whether the state has outlived the pre-
// authentication grace period. Callers must only apply this while the
// state's room does not yet exist — once the room exists the state is
// anchored to the room's lifetime and this check no longer applies.
func (s AuthenticationState) PreAuthExpired(now time.Time, lifetime time.Duration) bool {
	return now.Sub(s.AuthTimestamp) > lifetime
}
