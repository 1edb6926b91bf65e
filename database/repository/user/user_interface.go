package userRepo

import (
	"context"

	"spotshare/models"
)

// UserRepository defines methods for user data access.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByEmail retrieves a user by its email address.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Create inserts a new user record.
	Create(ctx context.Context, user *models.User) error
	// UpdateFields applies a partial update to a user record.
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
	// Delete removes a user record by its ID.
	Delete(ctx context.Context, id string) error
	// AddPoints atomically adjusts a user's point total by delta,
	// flooring the result at zero.
	AddPoints(ctx context.Context, id string, delta int) error
	// CountWithPointsAbove counts users with strictly more points than
	// the given value, excluding the given user.
	CountWithPointsAbove(ctx context.Context, excludeID string, points int) (int64, error)
	// SetRank writes a user's recomputed leaderboard rank.
	SetRank(ctx context.Context, id string, rank int) error
	// TopByPoints returns up to limit users ordered by points descending.
	TopByPoints(ctx context.Context, limit int64) ([]models.User, error)
	// Watch subscribes to change notifications for one user's record.
	Watch(ctx context.Context, id string) (Subscription, error)
}

// Subscription is a cancellable stream of document snapshots for a
// watched user. Cancel is synchronous and idempotent.
type Subscription interface {
	// Updates yields the full document after each observed change.
	// The channel is closed when the subscription ends.
	Updates() <-chan models.User
	// Cancel stops the subscription and releases its resources.
	Cancel()
	// Err reports the terminal error, if the stream ended abnormally.
	Err() error
}
