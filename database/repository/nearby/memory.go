package nearbyRepo

import (
	"context"
	"sync"
	"time"
)

// MemoryNearbyRepo is an in-memory NearbyRepository for tests and
// local development.
type MemoryNearbyRepo struct {
	mu      sync.Mutex
	markers map[string]time.Time
}

// NewMemoryNearbyRepo creates an empty in-memory marker store.
func NewMemoryNearbyRepo() *MemoryNearbyRepo {
	return &MemoryNearbyRepo{markers: make(map[string]time.Time)}
}

func markerKey(userID, parkingID string) string {
	return userID + "/" + parkingID
}

// LastNotified returns the last-notified timestamps for the given spots.
func (r *MemoryNearbyRepo) LastNotified(ctx context.Context, userID string, parkingIDs []string) (map[string]time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]time.Time, len(parkingIDs))
	for _, parkingID := range parkingIDs {
		if at, ok := r.markers[markerKey(userID, parkingID)]; ok {
			out[parkingID] = at
		}
	}
	return out, nil
}

// StampAll writes a fresh marker for every given spot.
func (r *MemoryNearbyRepo) StampAll(ctx context.Context, userID string, parkingIDs []string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, parkingID := range parkingIDs {
		r.markers[markerKey(userID, parkingID)] = at
	}
	return nil
}
