package parking

import (
	"context"
	"fmt"
	"strings"
	"time"

	parkingRepo "spotshare/database/repository/parking"
	userRepo "spotshare/database/repository/user"
	"spotshare/models"
	"spotshare/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// publishAwardPoints is the reputation award for publishing a spot.
const publishAwardPoints = 5

// PublishInput carries the fields needed to publish a new spot.
// Coordinates are pointers so zero values bind cleanly.
type PublishInput struct {
	Title        string   `json:"title" binding:"required"`
	Address      string   `json:"address" binding:"required"`
	Latitude     *float64 `json:"latitude" binding:"required"`
	Longitude    *float64 `json:"longitude" binding:"required"`
	Capacity     int      `json:"capacity" binding:"required,min=1"`
	PricePerHour float64  `json:"pricePerHour"`
	HasCharger   bool     `json:"hasCharger"`
	HasRamp      bool     `json:"hasRamp"`
	IsCovered    bool     `json:"isCovered"`
}

// Detail is a spot together with its aggregated rating.
type Detail struct {
	models.Parking
	AverageRating float64 `json:"averageRating"`
	RatingCount   int64   `json:"ratingCount"`
}

// Service defines business logic for parking spots.
type Service interface {
	// Publish creates a new spot owned by the user and awards
	// publication points.
	Publish(ctx context.Context, ownerID string, input PublishInput) (*models.Parking, error)
	// Get retrieves a spot with its aggregated rating.
	Get(ctx context.Context, parkingID string) (*Detail, error)
	// ListNearby returns active spots with free slots within
	// radiusMeters of a point.
	ListNearby(ctx context.Context, lat, lng, radiusMeters float64) ([]models.Parking, error)
	// Update applies owner-only mutations to a spot.
	Update(ctx context.Context, userID, parkingID string, update models.ParkingUpdate) error
	// Rate records the user's star rating for a spot.
	Rate(ctx context.Context, userID, parkingID string, stars int) error
}

// DefaultService is the production implementation.
type DefaultService struct {
	Repo  parkingRepo.ParkingRepository
	Users userRepo.UserRepository
}

// normalizeAddress canonicalizes an address for duplicate detection.
func normalizeAddress(address string) string {
	return strings.Join(strings.Fields(strings.ToLower(address)), " ")
}

// Publish creates a new spot. The publisher's points and parking count
// are adjusted best-effort after the spot exists; a failure there
// leaves the spot published and is logged, not rolled back.
func (s *DefaultService) Publish(ctx context.Context, ownerID string, input PublishInput) (*models.Parking, error) {
	logger := utils.GetLogger()

	if ownerID == "" {
		return nil, models.ErrNotLoggedIn
	}
	if input.Latitude == nil || input.Longitude == nil {
		return nil, fmt.Errorf("latitude and longitude are required")
	}

	address := normalizeAddress(input.Address)
	exists, err := s.Repo.ExistsByAddress(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to check address: %w", err)
	}
	if exists {
		return nil, models.ErrDuplicateAddress
	}

	spot := &models.Parking{
		ID:             uuid.NewString(),
		Title:          input.Title,
		Address:        address,
		Latitude:       *input.Latitude,
		Longitude:      *input.Longitude,
		OwnerID:        ownerID,
		Capacity:       input.Capacity,
		AvailableSlots: input.Capacity,
		Active:         true,
		PricePerHour:   input.PricePerHour,
		HasCharger:     input.HasCharger,
		HasRamp:        input.HasRamp,
		IsCovered:      input.IsCovered,
		CreatedAt:      time.Now(),
	}
	if err := s.Repo.Create(ctx, spot); err != nil {
		return nil, fmt.Errorf("failed to publish parking: %w", err)
	}

	if err := s.Users.AddPoints(ctx, ownerID, publishAwardPoints); err != nil {
		logger.Warn("spot published but point award failed",
			zap.String("ownerID", ownerID), zap.Error(err))
	}
	if owner, err := s.Users.GetByID(ctx, ownerID); err == nil {
		// lastParkingCount is informational; a racy read-then-set is
		// acceptable here.
		fields := map[string]any{"lastParkingCount": owner.LastParkingCount + 1}
		if err := s.Users.UpdateFields(ctx, ownerID, fields); err != nil {
			logger.Warn("failed to bump parking count",
				zap.String("ownerID", ownerID), zap.Error(err))
		}
	}

	logger.Info("parking published",
		zap.String("parkingID", spot.ID), zap.String("ownerID", ownerID))
	return spot, nil
}

// Get retrieves a spot with its aggregated rating.
func (s *DefaultService) Get(ctx context.Context, parkingID string) (*Detail, error) {
	spot, err := s.Repo.GetByID(ctx, parkingID)
	if err != nil {
		return nil, err
	}
	avg, count, err := s.Repo.AverageRating(ctx, parkingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rating: %w", err)
	}
	return &Detail{Parking: *spot, AverageRating: avg, RatingCount: count}, nil
}

// ListNearby returns active spots with free slots within radiusMeters
// of a point, for map display.
func (s *DefaultService) ListNearby(ctx context.Context, lat, lng, radiusMeters float64) ([]models.Parking, error) {
	spots, err := s.Repo.ListActiveWithFreeSlots(ctx, 200)
	if err != nil {
		return nil, fmt.Errorf("failed to list spots: %w", err)
	}

	nearby := make([]models.Parking, 0, len(spots))
	for _, spot := range spots {
		if utils.HaversineMeters(lat, lng, spot.Latitude, spot.Longitude) <= radiusMeters {
			nearby = append(nearby, spot)
		}
	}
	return nearby, nil
}

// Update applies owner-only mutations to a spot.
func (s *DefaultService) Update(ctx context.Context, userID, parkingID string, update models.ParkingUpdate) error {
	if userID == "" {
		return models.ErrNotLoggedIn
	}

	spot, err := s.Repo.GetByID(ctx, parkingID)
	if err != nil {
		return err
	}
	if spot.OwnerID != userID {
		return models.ErrNotOwner
	}

	fields := map[string]any{}
	if update.Active != nil {
		fields["active"] = *update.Active
	}
	if update.PricePerHour != nil {
		fields["pricePerHour"] = *update.PricePerHour
	}
	if update.HasCharger != nil {
		fields["hasCharger"] = *update.HasCharger
	}
	if update.HasRamp != nil {
		fields["hasRamp"] = *update.HasRamp
	}
	if update.IsCovered != nil {
		fields["isCovered"] = *update.IsCovered
	}
	if len(fields) == 0 {
		return fmt.Errorf("no updatable fields provided")
	}

	if err := s.Repo.UpdateFields(ctx, parkingID, fields); err != nil {
		return fmt.Errorf("failed to update parking %s: %w", parkingID, err)
	}
	return nil
}

// Rate records the user's star rating for a spot.
func (s *DefaultService) Rate(ctx context.Context, userID, parkingID string, stars int) error {
	if userID == "" {
		return models.ErrNotLoggedIn
	}
	if stars < 1 || stars > 5 {
		return fmt.Errorf("stars must be between 1 and 5")
	}
	rating := &models.Rating{
		ParkingID: parkingID,
		UserID:    userID,
		Stars:     stars,
		UpdatedAt: time.Now(),
	}
	if err := s.Repo.UpsertRating(ctx, rating); err != nil {
		return fmt.Errorf("failed to rate parking %s: %w", parkingID, err)
	}
	return nil
}
