package domain

import (
	"fmt"
	"strings"
	"time"
)

// Default lifetimes, mirrored from the original authority's constants.
const (
	DefaultTokenLifetime      = 60 * time.Second
	DefaultPreAuthLifetime    = 30 * time.Second
	DefaultExpiryPollInterval = 10 * time.Second
)

// AuthorityConfig is immutable after construction.
type AuthorityConfig struct {
	// URLTemplate must contain exactly one "%s" substitution slot for the
	// token string, e.g. "https://idp.example.net/auth?token=%s".
	URLTemplate string

	// ReservedRooms is the set of room local-parts that anyone may create
	// without authentication.
	ReservedRooms map[string]struct{}

	TokenLifetime      time.Duration
	PreAuthLifetime    time.Duration
	ExpiryPollInterval time.Duration
}

// NewAuthorityConfig validates urlTemplate and builds an AuthorityConfig.
// reservedRoomsCSV is a comma-separated list of room local-parts; empty
// segments (including an entirely empty string) are dropped, so an unset
// reservedRoomsCSV yields an empty reserved set rather than one containing
// the empty string.
func NewAuthorityConfig(
	urlTemplate string,
	reservedRoomsCSV string,
	tokenLifetime, preAuthLifetime, expiryPollInterval time.Duration,
) (AuthorityConfig, error) {
	if err := validateURLTemplate(urlTemplate); err != nil {
		return AuthorityConfig{}, err
	}

	if tokenLifetime <= 0 {
		tokenLifetime = DefaultTokenLifetime
	}
	if preAuthLifetime <= 0 {
		preAuthLifetime = DefaultPreAuthLifetime
	}
	if expiryPollInterval <= 0 {
		expiryPollInterval = DefaultExpiryPollInterval
	}

	return AuthorityConfig{
		URLTemplate:        urlTemplate,
		ReservedRooms:      parseReservedRooms(reservedRoomsCSV),
		TokenLifetime:      tokenLifetime,
		PreAuthLifetime:    preAuthLifetime,
		ExpiryPollInterval: expiryPollInterval,
	}, nil
}

func validateURLTemplate(urlTemplate string) error {
	if strings.TrimSpace(urlTemplate) == "" {
		return ErrInvalidConfiguration
	}
	if strings.Count(urlTemplate, "%s") != 1 {
		return fmt.Errorf("%w: url template must contain exactly one %%s slot", ErrInvalidConfiguration)
	}
	return nil
}

// parseReservedRooms trims and drops empty segments so an empty CSV string
// produces an empty set instead of one containing "" (see DESIGN.md: the
// original's naive strings.Split(",") on "" does not have this property).
func parseReservedRooms(csv string) map[string]struct{} {
	rooms := make(map[string]struct{})
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			rooms[part] = struct{}{}
		}
	}
	return rooms
}

// IsReserved reports whether the local part of roomName (the portion
// before the first "@", if any) is in the reserved set.
func (c AuthorityConfig) IsReserved(roomName string) bool {
	_, ok := c.ReservedRooms[LocalPart(roomName)]
	return ok
}

// LocalPart returns the portion of roomName before the first "@", or the
// whole string if there is none. This is used only for reserved-room
// comparison; the full roomName is always stored on tokens and states
// (spec §9: the asymmetry is intentional and documented, not normalized).
func LocalPart(roomName string) string {
	if i := strings.IndexByte(roomName, '@'); i >= 0 {
		return roomName[:i]
	}
	return roomName
}
