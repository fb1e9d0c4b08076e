package database

import "time"

// PendingConfirmation - one in-flight group request, keyed by the
// confirmation message it was announced with. Records are immutable once
// added; the poller either removes them on completion or on expiry.
type PendingConfirmation struct {
	MessageID       string
	ChannelID       string
	GuildID         string
	GroupName       string
	RequiredUserIDs []string
	CreatorID       string
	CreatedAt       time.Time
	// ExpiresAt is optional; the zero value means the request never expires.
	ExpiresAt time.Time
}

// Expired reports whether the request ran out of time at now.
func (p PendingConfirmation) Expired(now time.Time) bool {
	return !p.ExpiresAt.IsZero() && !now.Before(p.ExpiresAt)
}
