package reservationRepo

import (
	"context"
	"errors"
	"sync"
	"testing"

	"spotshare/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextAvailableOnReserve(t *testing.T) {
	tests := []struct {
		name      string
		available int
		want      int
		wantErr   error
	}{
		{name: "decrements a free slot", available: 3, want: 2},
		{name: "claims the last slot", available: 1, want: 0},
		{name: "rejects a full spot", available: 0, wantErr: models.ErrNoCapacity},
		{name: "rejects a negative counter", available: -1, wantErr: models.ErrNoCapacity},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := nextAvailableOnReserve(tc.available)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNextAvailableOnFinish(t *testing.T) {
	tests := []struct {
		name          string
		available     int
		capacity      int
		capacityKnown bool
		want          int
	}{
		{name: "restores one slot", available: 1, capacity: 3, capacityKnown: true, want: 2},
		{name: "caps at capacity", available: 3, capacity: 3, capacityKnown: true, want: 3},
		{name: "unknown capacity is unbounded", available: 3, capacityKnown: false, want: 4},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, nextAvailableOnFinish(tc.available, tc.capacity, tc.capacityKnown))
		})
	}
}

func TestReserveNeverOversellsUnderContention(t *testing.T) {
	const capacity = 3
	const contenders = 25

	repo := NewMemoryReservationRepo(&models.Parking{
		ID:             "spot-1",
		Capacity:       capacity,
		AvailableSlots: capacity,
	})

	var wg sync.WaitGroup
	errs := make([]error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Reserve(context.Background(), userID(i), "spot-1")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, models.ErrNoCapacity)
	}
	assert.Equal(t, capacity, succeeded, "exactly capacity claims may win")
	assert.Equal(t, 0, repo.Parking("spot-1").AvailableSlots)

	active, err := repo.CountActiveByParking(context.Background(), "spot-1")
	require.NoError(t, err)
	assert.EqualValues(t, capacity, active)
}

func TestReserveUnknownSpotIsNoCapacity(t *testing.T) {
	repo := NewMemoryReservationRepo()
	err := repo.Reserve(context.Background(), "u1", "missing")
	assert.ErrorIs(t, err, models.ErrNoCapacity)
}

func TestFinishRestoresSlotCappedAtCapacity(t *testing.T) {
	repo := NewMemoryReservationRepo(&models.Parking{
		ID:             "spot-1",
		Capacity:       2,
		AvailableSlots: 2,
	})

	require.NoError(t, repo.Reserve(context.Background(), "u1", "spot-1"))
	assert.Equal(t, 1, repo.Parking("spot-1").AvailableSlots)

	require.NoError(t, repo.Finish(context.Background(), "u1", "spot-1"))
	assert.Equal(t, 2, repo.Parking("spot-1").AvailableSlots)

	// A second finish without a matching reserve must not push the
	// counter past capacity.
	require.NoError(t, repo.Finish(context.Background(), "u1", "spot-1"))
	assert.Equal(t, 2, repo.Parking("spot-1").AvailableSlots)

	res, err := repo.GetByUserAndParking(context.Background(), "u1", "spot-1")
	require.NoError(t, err)
	assert.Equal(t, models.ReservationFinished, res.Status)
}

func TestFinishWithoutReservationIsPermissive(t *testing.T) {
	repo := NewMemoryReservationRepo(&models.Parking{
		ID:             "spot-1",
		Capacity:       5,
		AvailableSlots: 3,
	})

	require.NoError(t, repo.Finish(context.Background(), "ghost", "spot-1"))
	assert.Equal(t, 4, repo.Parking("spot-1").AvailableSlots)

	res, err := repo.GetByUserAndParking(context.Background(), "ghost", "spot-1")
	require.NoError(t, err)
	assert.Equal(t, models.ReservationFinished, res.Status)
}

func TestReserveAgainAfterFinishReactivates(t *testing.T) {
	repo := NewMemoryReservationRepo(&models.Parking{
		ID:             "spot-1",
		Capacity:       1,
		AvailableSlots: 1,
	})

	require.NoError(t, repo.Reserve(context.Background(), "u1", "spot-1"))
	require.NoError(t, repo.Finish(context.Background(), "u1", "spot-1"))
	require.NoError(t, repo.Reserve(context.Background(), "u1", "spot-1"))

	res, err := repo.GetByUserAndParking(context.Background(), "u1", "spot-1")
	require.NoError(t, err)
	assert.Equal(t, models.ReservationActive, res.Status)

	active, err := repo.ListActiveByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "spot-1", active[0].ParkingID)
}

func TestGetByUserAndParkingMissing(t *testing.T) {
	repo := NewMemoryReservationRepo()
	_, err := repo.GetByUserAndParking(context.Background(), "u1", "spot-1")
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func userID(i int) string {
	return "user-" + string(rune('a'+i%26)) + string(rune('0'+i/26))
}
