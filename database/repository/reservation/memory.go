package reservationRepo

import (
	"context"
	"sync"
	"time"

	"spotshare/models"
)

// MemoryReservationRepo is an in-memory ReservationRepository. A
// single mutex serializes Reserve and Finish, standing in for the
// document store's transaction primitive. Used by tests and local
// development without a Mongo replica set.
type MemoryReservationRepo struct {
	mu           sync.Mutex
	parkings     map[string]*models.Parking
	reservations map[string]*models.Reservation
}

// NewMemoryReservationRepo seeds an in-memory ledger with the given spots.
func NewMemoryReservationRepo(parkings ...*models.Parking) *MemoryReservationRepo {
	repo := &MemoryReservationRepo{
		parkings:     make(map[string]*models.Parking),
		reservations: make(map[string]*models.Reservation),
	}
	for _, p := range parkings {
		repo.parkings[p.ID] = p
	}
	return repo
}

func reservationKey(userID, parkingID string) string {
	return userID + "/" + parkingID
}

// Parking returns the current state of a seeded spot.
func (r *MemoryReservationRepo) Parking(id string) *models.Parking {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.parkings[id]
}

// Reserve implements the ledger's atomic claim.
func (r *MemoryReservationRepo) Reserve(ctx context.Context, userID, parkingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	available := 0
	parking, ok := r.parkings[parkingID]
	if ok {
		available = parking.AvailableSlots
	}

	next, err := nextAvailableOnReserve(available)
	if err != nil {
		return err
	}
	parking.AvailableSlots = next

	key := reservationKey(userID, parkingID)
	if existing, ok := r.reservations[key]; ok {
		existing.Status = models.ReservationActive
		existing.ReservedAt = time.Now()
	} else {
		r.reservations[key] = &models.Reservation{
			UserID:     userID,
			ParkingID:  parkingID,
			Status:     models.ReservationActive,
			ReservedAt: time.Now(),
		}
	}
	return nil
}

// Finish implements the ledger's permissive release.
func (r *MemoryReservationRepo) Finish(ctx context.Context, userID, parkingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if parking, ok := r.parkings[parkingID]; ok {
		parking.AvailableSlots = nextAvailableOnFinish(parking.AvailableSlots, parking.Capacity, true)
	}

	key := reservationKey(userID, parkingID)
	if existing, ok := r.reservations[key]; ok {
		existing.Status = models.ReservationFinished
		existing.FinishedAt = time.Now()
	} else {
		r.reservations[key] = &models.Reservation{
			UserID:     userID,
			ParkingID:  parkingID,
			Status:     models.ReservationFinished,
			FinishedAt: time.Now(),
		}
	}
	return nil
}

// GetByUserAndParking retrieves the reservation for a pair.
func (r *MemoryReservationRepo) GetByUserAndParking(ctx context.Context, userID, parkingID string) (*models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reservation, ok := r.reservations[reservationKey(userID, parkingID)]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := *reservation
	return &out, nil
}

// ListActiveByUser returns the user's active reservations.
func (r *MemoryReservationRepo) ListActiveByUser(ctx context.Context, userID string) ([]models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Reservation
	for _, reservation := range r.reservations {
		if reservation.UserID == userID && reservation.Status == models.ReservationActive {
			out = append(out, *reservation)
		}
	}
	return out, nil
}

// CountActiveByParking counts active reservations against a spot.
func (r *MemoryReservationRepo) CountActiveByParking(ctx context.Context, parkingID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, reservation := range r.reservations {
		if reservation.ParkingID == parkingID && reservation.Status == models.ReservationActive {
			count++
		}
	}
	return count, nil
}
