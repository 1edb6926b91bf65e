package proximity

import (
	"context"
	"fmt"
	"math"
	"time"

	nearbyRepo "spotshare/database/repository/nearby"
	parkingRepo "spotshare/database/repository/parking"
	userRepo "spotshare/database/repository/user"
	"spotshare/models"
	"spotshare/utils"

	"go.uber.org/zap"
)

// Defaults for the notifier's tuning knobs.
const (
	DefaultRadiusMeters  = 150.0
	DefaultCooldown      = 2 * time.Hour
	DefaultSpotBatchSize = 200

	minDisplayDistanceMeters = 5
)

// Pusher delivers a single push notification to a device token.
type Pusher interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

// Notifier reacts to a user's location updates: it finds nearby spots
// with free capacity and dispatches at most one push notification per
// trigger, debounced per (user, spot) by cooldown markers.
type Notifier struct {
	Users    userRepo.UserRepository
	Parkings parkingRepo.ParkingRepository
	Markers  nearbyRepo.NearbyRepository
	Pusher   Pusher

	RadiusMeters  float64
	Cooldown      time.Duration
	SpotBatchSize int64

	// now is swappable for tests.
	now func() time.Time
}

// NewNotifier wires a notifier with default tuning. Zero overrides
// keep the defaults.
func NewNotifier(
	users userRepo.UserRepository,
	parkings parkingRepo.ParkingRepository,
	markers nearbyRepo.NearbyRepository,
	pusher Pusher,
) *Notifier {
	return &Notifier{
		Users:         users,
		Parkings:      parkings,
		Markers:       markers,
		Pusher:        pusher,
		RadiusMeters:  DefaultRadiusMeters,
		Cooldown:      DefaultCooldown,
		SpotBatchSize: DefaultSpotBatchSize,
		now:           time.Now,
	}
}

type candidate struct {
	spot     models.Parking
	distance float64
}

// HandleLocationUpdate runs the full trigger for one user. It never
// panics the host; a failed send is logged and skipped until the next
// location write re-triggers it.
func (n *Notifier) HandleLocationUpdate(ctx context.Context, userID string) error {
	logger := utils.GetLogger()

	user, err := n.Users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user %s: %w", userID, err)
	}
	if !user.HasLocation() {
		return nil
	}
	if user.FCMToken == "" {
		// No queuing: the update that eventually adds a token will
		// re-trigger this on the next location write.
		return nil
	}

	spots, err := n.Parkings.ListActiveWithFreeSlots(ctx, n.SpotBatchSize)
	if err != nil {
		return fmt.Errorf("failed to load active spots: %w", err)
	}

	var inRange []candidate
	for _, spot := range spots {
		d := utils.HaversineMeters(*user.Latitude, *user.Longitude, spot.Latitude, spot.Longitude)
		if d > n.RadiusMeters {
			continue
		}
		inRange = append(inRange, candidate{spot: spot, distance: d})
	}
	if len(inRange) == 0 {
		return nil
	}

	ids := make([]string, len(inRange))
	for i, c := range inRange {
		ids[i] = c.spot.ID
	}
	lastNotified, err := n.Markers.LastNotified(ctx, userID, ids)
	if err != nil {
		return fmt.Errorf("failed to load cooldown markers: %w", err)
	}

	now := n.now()
	var survivors []candidate
	for _, c := range inRange {
		if at, ok := lastNotified[c.spot.ID]; ok && now.Sub(at) < n.Cooldown {
			continue
		}
		survivors = append(survivors, c)
	}
	if len(survivors) == 0 {
		return nil
	}

	// Every survivor gets a fresh marker, not just the one notified,
	// so a near-miss spot does not re-trigger on the very next
	// location tick. Markers commit before the send: the two are
	// independent failure domains and a send failure must not block
	// marker persistence.
	survivorIDs := make([]string, len(survivors))
	for i, c := range survivors {
		survivorIDs[i] = c.spot.ID
	}
	if err := n.Markers.StampAll(ctx, userID, survivorIDs, now); err != nil {
		return fmt.Errorf("failed to stamp cooldown markers: %w", err)
	}

	chosen := survivors[0]
	title, body, data := buildNotification(chosen)
	if err := n.Pusher.Send(ctx, user.FCMToken, title, body, data); err != nil {
		logger.Warn("nearby notification send failed",
			zap.String("userID", userID),
			zap.String("parkingID", chosen.spot.ID),
			zap.Error(err))
		return nil
	}

	logger.Debug("nearby notification sent",
		zap.String("userID", userID),
		zap.String("parkingID", chosen.spot.ID),
		zap.Float64("distance", chosen.distance))
	return nil
}

// buildNotification formats the push payload for one candidate spot.
func buildNotification(c candidate) (title, body string, data map[string]string) {
	distance := int(math.Round(c.distance))
	if distance < minDisplayDistanceMeters {
		distance = minDisplayDistanceMeters
	}

	title = fmt.Sprintf("Parking nearby: %s", c.spot.Title)
	body = fmt.Sprintf("About %d m away, %d/%d slots free.",
		distance, c.spot.AvailableSlots, c.spot.Capacity)
	data = map[string]string{
		"parkingId": c.spot.ID,
		"title":     title,
		"body":      body,
	}
	return title, body, data
}
