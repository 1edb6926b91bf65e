package reservationRepo

import (
	"context"

	"spotshare/models"
)

// ReservationRepository defines the reservation ledger's data access.
// Reserve and Finish are the only paths that ever mutate a spot's
// availableSlots counter; both run the spot read and all writes inside
// one atomic transaction so concurrent calls against the same spot are
// linearized.
type ReservationRepository interface {
	// Reserve decrements the spot's availableSlots and upserts the
	// (user, parking) reservation to active. Returns
	// models.ErrNoCapacity when the spot is full or does not exist.
	Reserve(ctx context.Context, userID, parkingID string) error
	// Finish restores one slot, capped at the spot's capacity, and
	// upserts the reservation to finished. Deliberately permissive: no
	// prior active reservation is required.
	Finish(ctx context.Context, userID, parkingID string) error
	// GetByUserAndParking retrieves the reservation for a pair, or
	// models.ErrNotFound.
	GetByUserAndParking(ctx context.Context, userID, parkingID string) (*models.Reservation, error)
	// ListActiveByUser returns the user's active reservations.
	ListActiveByUser(ctx context.Context, userID string) ([]models.Reservation, error)
	// CountActiveByParking counts active reservations against a spot.
	CountActiveByParking(ctx context.Context, parkingID string) (int64, error)
}
