package parkingRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"spotshare/models"
)

// MemoryParkingRepo is an in-memory ParkingRepository for tests and
// local development.
type MemoryParkingRepo struct {
	mu       sync.Mutex
	parkings map[string]*models.Parking
	ratings  map[string]*models.Rating
}

// NewMemoryParkingRepo seeds an in-memory repository with the given spots.
func NewMemoryParkingRepo(parkings ...*models.Parking) *MemoryParkingRepo {
	repo := &MemoryParkingRepo{
		parkings: make(map[string]*models.Parking),
		ratings:  make(map[string]*models.Rating),
	}
	for _, p := range parkings {
		repo.parkings[p.ID] = p
	}
	return repo
}

func ratingKey(parkingID, userID string) string {
	return parkingID + "/" + userID
}

// GetByID retrieves a parking spot by its unique ID.
func (r *MemoryParkingRepo) GetByID(ctx context.Context, id string) (*models.Parking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.parkings[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := *p
	return &out, nil
}

// Create inserts a new parking spot record, enforcing the same
// address uniqueness the Mongo index does.
func (r *MemoryParkingRepo) Create(ctx context.Context, parking *models.Parking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.parkings {
		if p.Address == parking.Address {
			return models.ErrDuplicateAddress
		}
	}
	r.parkings[parking.ID] = parking
	return nil
}

// UpdateFields applies a partial update to a parking spot record.
func (r *MemoryParkingRepo) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.parkings[id]
	if !ok {
		return models.ErrNotFound
	}
	for key, value := range fields {
		switch key {
		case "active":
			p.Active = value.(bool)
		case "pricePerHour":
			p.PricePerHour = value.(float64)
		case "hasCharger":
			p.HasCharger = value.(bool)
		case "hasRamp":
			p.HasRamp = value.(bool)
		case "isCovered":
			p.IsCovered = value.(bool)
		}
	}
	return nil
}

// ExistsByAddress reports whether a spot already exists at the address.
func (r *MemoryParkingRepo) ExistsByAddress(ctx context.Context, address string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.parkings {
		if p.Address == address {
			return true, nil
		}
	}
	return false, nil
}

// ListActiveWithFreeSlots returns up to limit active spots with at
// least one free slot, oldest first.
func (r *MemoryParkingRepo) ListActiveWithFreeSlots(ctx context.Context, limit int64) ([]models.Parking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Parking
	for _, p := range r.parkings {
		if p.Active && p.AvailableSlots > 0 {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

// UpsertRating records a user's star rating for a spot.
func (r *MemoryParkingRepo) UpsertRating(ctx context.Context, rating *models.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *rating
	stored.UpdatedAt = time.Now()
	r.ratings[ratingKey(rating.ParkingID, rating.UserID)] = &stored
	return nil
}

// AverageRating returns the mean star rating for a spot.
func (r *MemoryParkingRepo) AverageRating(ctx context.Context, parkingID string) (float64, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var sum, count int64
	for _, rating := range r.ratings {
		if rating.ParkingID == parkingID {
			sum += int64(rating.Stars)
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}
