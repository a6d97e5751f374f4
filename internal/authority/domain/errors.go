package domain

import "errors"

var (
	// ErrInvalidConfiguration is returned from NewAuthorityConfig when the
	// URL template is empty or malformed. This is a construction-time-only
	// error; the Authority cannot be built without a valid config.
	ErrInvalidConfiguration = errors.New("authority: invalid configuration")

	// ErrUnknownToken is the internal sentinel for a token lookup miss
	// (never issued, already consumed, or already expired). Authenticate
	// does not return it: it reports a miss by returning false and logging
	// the token's fingerprint.
	ErrUnknownToken = errors.New("authority: unknown token")

	// ErrEmptyParticipantAddress and ErrEmptyRoomName are returned by
	// IssueURL for empty identifiers. The policy queries do not return
	// them; they log a warning and answer false for an empty address.
	ErrEmptyParticipantAddress = errors.New("authority: empty participant address")
	ErrEmptyRoomName           = errors.New("authority: empty room name")
)
