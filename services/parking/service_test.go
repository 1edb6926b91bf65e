package parking

import (
	"context"
	"testing"

	parkingRepo "spotshare/database/repository/parking"
	userRepo "spotshare/database/repository/user"
	"spotshare/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(users *userRepo.MemoryUserRepo, spots ...*models.Parking) (*DefaultService, *parkingRepo.MemoryParkingRepo) {
	repo := parkingRepo.NewMemoryParkingRepo(spots...)
	return &DefaultService{Repo: repo, Users: users}, repo
}

func coord(v float64) *float64 { return &v }

func publishInput() PublishInput {
	return PublishInput{
		Title:     "Backyard spot",
		Address:   "12 Rue de Rivoli, Paris",
		Latitude:  coord(48.8558),
		Longitude: coord(2.3565),
		Capacity:  3,
	}
}

func TestPublishCreatesSpotAndAwardsPoints(t *testing.T) {
	users := userRepo.NewMemoryUserRepo(&models.User{ID: "owner", Points: 1})
	svc, _ := newService(users)

	spot, err := svc.Publish(context.Background(), "owner", publishInput())
	require.NoError(t, err)

	assert.NotEmpty(t, spot.ID)
	assert.Equal(t, "owner", spot.OwnerID)
	assert.Equal(t, 3, spot.Capacity)
	assert.Equal(t, 3, spot.AvailableSlots)
	assert.True(t, spot.Active)
	assert.Equal(t, "12 rue de rivoli, paris", spot.Address)

	owner, err := users.GetByID(context.Background(), "owner")
	require.NoError(t, err)
	assert.Equal(t, 6, owner.Points)
	assert.Equal(t, 1, owner.LastParkingCount)
}

func TestPublishRejectsDuplicateAddress(t *testing.T) {
	users := userRepo.NewMemoryUserRepo(&models.User{ID: "owner"}, &models.User{ID: "other"})
	svc, _ := newService(users)

	_, err := svc.Publish(context.Background(), "owner", publishInput())
	require.NoError(t, err)

	// Same address with different casing and spacing.
	input := publishInput()
	input.Address = "  12 RUE de   Rivoli, Paris "
	_, err = svc.Publish(context.Background(), "other", input)
	assert.ErrorIs(t, err, models.ErrDuplicateAddress)
}

// staleAddressCheckRepo simulates two publishers racing past the
// existence check so only the insert's uniqueness constraint is left
// to catch the duplicate.
type staleAddressCheckRepo struct {
	*parkingRepo.MemoryParkingRepo
}

func (r *staleAddressCheckRepo) ExistsByAddress(ctx context.Context, address string) (bool, error) {
	return false, nil
}

func TestPublishConcurrentDuplicateSurfacesAsDuplicateAddress(t *testing.T) {
	users := userRepo.NewMemoryUserRepo(&models.User{ID: "owner"}, &models.User{ID: "other"})
	repo := &staleAddressCheckRepo{MemoryParkingRepo: parkingRepo.NewMemoryParkingRepo()}
	svc := &DefaultService{Repo: repo, Users: users}

	_, err := svc.Publish(context.Background(), "owner", publishInput())
	require.NoError(t, err)

	_, err = svc.Publish(context.Background(), "other", publishInput())
	assert.ErrorIs(t, err, models.ErrDuplicateAddress)
}

func TestPublishRequiresLogin(t *testing.T) {
	svc, _ := newService(userRepo.NewMemoryUserRepo())
	_, err := svc.Publish(context.Background(), "", publishInput())
	assert.ErrorIs(t, err, models.ErrNotLoggedIn)
}

func TestUpdateIsOwnerOnly(t *testing.T) {
	users := userRepo.NewMemoryUserRepo(&models.User{ID: "owner"})
	svc, repo := newService(users, &models.Parking{ID: "spot-1", OwnerID: "owner", Active: true})

	inactive := false
	err := svc.Update(context.Background(), "intruder", "spot-1", models.ParkingUpdate{Active: &inactive})
	assert.ErrorIs(t, err, models.ErrNotOwner)

	err = svc.Update(context.Background(), "owner", "spot-1", models.ParkingUpdate{Active: &inactive})
	require.NoError(t, err)

	spot, err := repo.GetByID(context.Background(), "spot-1")
	require.NoError(t, err)
	assert.False(t, spot.Active)
}

func TestUpdateRejectsEmptyPatch(t *testing.T) {
	users := userRepo.NewMemoryUserRepo(&models.User{ID: "owner"})
	svc, _ := newService(users, &models.Parking{ID: "spot-1", OwnerID: "owner"})

	err := svc.Update(context.Background(), "owner", "spot-1", models.ParkingUpdate{})
	assert.Error(t, err)
}

func TestListNearbyFiltersByDistance(t *testing.T) {
	users := userRepo.NewMemoryUserRepo()
	svc, _ := newService(users,
		&models.Parking{ID: "close", Latitude: 0.0009, Longitude: 0, Active: true, AvailableSlots: 1},
		&models.Parking{ID: "far", Latitude: 0.01, Longitude: 0, Active: true, AvailableSlots: 1},
		&models.Parking{ID: "inactive", Latitude: 0.0009, Longitude: 0, AvailableSlots: 1},
		&models.Parking{ID: "full", Latitude: 0.0009, Longitude: 0, Active: true},
	)

	nearby, err := svc.ListNearby(context.Background(), 0, 0, 150)
	require.NoError(t, err)
	require.Len(t, nearby, 1)
	assert.Equal(t, "close", nearby[0].ID)
}

func TestRateAndAggregate(t *testing.T) {
	users := userRepo.NewMemoryUserRepo()
	svc, _ := newService(users, &models.Parking{ID: "spot-1", OwnerID: "owner"})

	require.NoError(t, svc.Rate(context.Background(), "u1", "spot-1", 5))
	require.NoError(t, svc.Rate(context.Background(), "u2", "spot-1", 2))
	// Re-rating replaces the previous stars.
	require.NoError(t, svc.Rate(context.Background(), "u2", "spot-1", 3))

	detail, err := svc.Get(context.Background(), "spot-1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, detail.RatingCount)
	assert.InDelta(t, 4.0, detail.AverageRating, 0.0001)
}

func TestRateValidatesStars(t *testing.T) {
	svc, _ := newService(userRepo.NewMemoryUserRepo(), &models.Parking{ID: "spot-1"})

	assert.Error(t, svc.Rate(context.Background(), "u1", "spot-1", 0))
	assert.Error(t, svc.Rate(context.Background(), "u1", "spot-1", 6))
	assert.ErrorIs(t, svc.Rate(context.Background(), "", "spot-1", 3), models.ErrNotLoggedIn)
}
