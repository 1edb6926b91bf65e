package nearbyRepo

import (
	"context"
	"time"
)

// NearbyRepository stores per-(user, parking) cooldown markers for the
// proximity notifier. Markers are pure debounce records.
type NearbyRepository interface {
	// LastNotified returns the last-notified timestamps for the given
	// spots, keyed by parking ID. Spots never notified are absent.
	LastNotified(ctx context.Context, userID string, parkingIDs []string) (map[string]time.Time, error)
	// StampAll writes a fresh marker for every given spot in one
	// atomic batch.
	StampAll(ctx context.Context, userID string, parkingIDs []string, at time.Time) error
}
