package parkingRepo

import (
	"context"

	"spotshare/models"
)

// ParkingRepository defines methods for parking spot data access.
type ParkingRepository interface {
	// GetByID retrieves a parking spot by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Parking, error)
	// Create inserts a new parking spot record.
	Create(ctx context.Context, parking *models.Parking) error
	// UpdateFields applies a partial update to a parking spot record.
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
	// ExistsByAddress reports whether a spot already exists at the
	// given normalized address.
	ExistsByAddress(ctx context.Context, address string) (bool, error)
	// ListActiveWithFreeSlots returns up to limit active spots with at
	// least one free slot, in a deterministic order.
	ListActiveWithFreeSlots(ctx context.Context, limit int64) ([]models.Parking, error)
	// UpsertRating records a user's star rating for a spot.
	UpsertRating(ctx context.Context, rating *models.Rating) error
	// AverageRating returns the mean star rating for a spot, and the
	// number of ratings it is based on.
	AverageRating(ctx context.Context, parkingID string) (float64, int64, error)
}
