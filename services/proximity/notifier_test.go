package proximity

import (
	"context"
	"errors"
	"testing"
	"time"

	nearbyRepo "spotshare/database/repository/nearby"
	parkingRepo "spotshare/database/repository/parking"
	userRepo "spotshare/database/repository/user"
	"spotshare/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentPush struct {
	token string
	title string
	body  string
	data  map[string]string
}

type fakePusher struct {
	sent []sentPush
	err  error
}

func (p *fakePusher) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, sentPush{token: token, title: title, body: body, data: data})
	return nil
}

func floatPtr(v float64) *float64 { return &v }

// walkerAt returns a user standing at the given coordinates with a
// registered device token.
func walkerAt(lat, lng float64) *models.User {
	return &models.User{
		ID:        "walker",
		Latitude:  floatPtr(lat),
		Longitude: floatPtr(lng),
		FCMToken:  "device-token",
	}
}

// spotAt places a spot offset north of the equator origin by roughly
// the given number of meters. One degree of latitude is ~111.19 km.
func spotAt(id string, meters float64, free, capacity int) *models.Parking {
	return &models.Parking{
		ID:             id,
		Title:          "Spot " + id,
		Latitude:       meters / 111194.9,
		Longitude:      0,
		Capacity:       capacity,
		AvailableSlots: free,
		Active:         true,
	}
}

func newTestNotifier(pusher Pusher, users *userRepo.MemoryUserRepo, spots ...*models.Parking) (*Notifier, *nearbyRepo.MemoryNearbyRepo) {
	markers := nearbyRepo.NewMemoryNearbyRepo()
	n := NewNotifier(users, parkingRepo.NewMemoryParkingRepo(spots...), markers, pusher)
	return n, markers
}

func TestNotifiesOnceWithinRadius(t *testing.T) {
	pusher := &fakePusher{}
	users := userRepo.NewMemoryUserRepo(walkerAt(0, 0))
	n, _ := newTestNotifier(pusher, users, spotAt("near", 100, 2, 4))

	require.NoError(t, n.HandleLocationUpdate(context.Background(), "walker"))

	require.Len(t, pusher.sent, 1)
	assert.Equal(t, "device-token", pusher.sent[0].token)
	assert.Equal(t, "near", pusher.sent[0].data["parkingId"])
	assert.Contains(t, pusher.sent[0].body, "2/4 slots free")
}

func TestRadiusBoundary(t *testing.T) {
	tests := []struct {
		name       string
		meters     float64
		wantPushes int
	}{
		{name: "149 m is inside", meters: 149, wantPushes: 1},
		{name: "151 m is outside", meters: 151, wantPushes: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pusher := &fakePusher{}
			users := userRepo.NewMemoryUserRepo(walkerAt(0, 0))
			n, _ := newTestNotifier(pusher, users, spotAt("edge", tc.meters, 1, 1))

			require.NoError(t, n.HandleLocationUpdate(context.Background(), "walker"))
			assert.Len(t, pusher.sent, tc.wantPushes)
		})
	}
}

func TestCooldownSuppressesRepeats(t *testing.T) {
	pusher := &fakePusher{}
	users := userRepo.NewMemoryUserRepo(walkerAt(0, 0))
	n, _ := newTestNotifier(pusher, users, spotAt("near", 100, 1, 1))

	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	current := base
	n.now = func() time.Time { return current }

	require.NoError(t, n.HandleLocationUpdate(context.Background(), "walker"))
	require.Len(t, pusher.sent, 1)

	// Ten minutes later, still cooling down.
	current = base.Add(10 * time.Minute)
	require.NoError(t, n.HandleLocationUpdate(context.Background(), "walker"))
	assert.Len(t, pusher.sent, 1)

	// Just past the two-hour window.
	current = base.Add(2*time.Hour + time.Minute)
	require.NoError(t, n.HandleLocationUpdate(context.Background(), "walker"))
	assert.Len(t, pusher.sent, 2)
}

func TestMarkersStampedForAllSurvivors(t *testing.T) {
	pusher := &fakePusher{}
	users := userRepo.NewMemoryUserRepo(walkerAt(0, 0))
	n, markers := newTestNotifier(pusher, users,
		spotAt("first", 50, 1, 1),
		spotAt("second", 120, 1, 1),
	)

	stamp := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	n.now = func() time.Time { return stamp }

	require.NoError(t, n.HandleLocationUpdate(context.Background(), "walker"))

	// One push only, but both survivors carry a fresh marker so the
	// runner-up does not fire on the very next tick.
	require.Len(t, pusher.sent, 1)
	last, err := markers.LastNotified(context.Background(), "walker", []string{"first", "second"})
	require.NoError(t, err)
	assert.Equal(t, stamp, last["first"])
	assert.Equal(t, stamp, last["second"])

	require.NoError(t, n.HandleLocationUpdate(context.Background(), "walker"))
	assert.Len(t, pusher.sent, 1)
}

func TestSendFailureDoesNotBlockMarkers(t *testing.T) {
	pusher := &fakePusher{err: errors.New("fcm unreachable")}
	users := userRepo.NewMemoryUserRepo(walkerAt(0, 0))
	n, markers := newTestNotifier(pusher, users, spotAt("near", 100, 1, 1))

	stamp := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	n.now = func() time.Time { return stamp }

	// The trigger succeeds even when delivery fails.
	require.NoError(t, n.HandleLocationUpdate(context.Background(), "walker"))

	last, err := markers.LastNotified(context.Background(), "walker", []string{"near"})
	require.NoError(t, err)
	assert.Equal(t, stamp, last["near"])
}

func TestNoLocationOrTokenIsNoOp(t *testing.T) {
	tests := []struct {
		name string
		user *models.User
	}{
		{name: "no coordinates", user: &models.User{ID: "walker", FCMToken: "device-token"}},
		{name: "no device token", user: &models.User{ID: "walker", Latitude: floatPtr(0), Longitude: floatPtr(0)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pusher := &fakePusher{}
			users := userRepo.NewMemoryUserRepo(tc.user)
			n, _ := newTestNotifier(pusher, users, spotAt("near", 100, 1, 1))

			require.NoError(t, n.HandleLocationUpdate(context.Background(), "walker"))
			assert.Empty(t, pusher.sent)
		})
	}
}

func TestFullSpotsAreSkipped(t *testing.T) {
	pusher := &fakePusher{}
	users := userRepo.NewMemoryUserRepo(walkerAt(0, 0))
	n, _ := newTestNotifier(pusher, users, spotAt("full", 100, 0, 3))

	require.NoError(t, n.HandleLocationUpdate(context.Background(), "walker"))
	assert.Empty(t, pusher.sent)
}

func TestDisplayedDistanceHasFloor(t *testing.T) {
	pusher := &fakePusher{}
	users := userRepo.NewMemoryUserRepo(walkerAt(0, 0))
	n, _ := newTestNotifier(pusher, users, spotAt("ontop", 1, 1, 1))

	require.NoError(t, n.HandleLocationUpdate(context.Background(), "walker"))

	require.Len(t, pusher.sent, 1)
	assert.Contains(t, pusher.sent[0].body, "About 5 m away")
}
