package user

import (
	"context"

	userRepo "spotshare/database/repository/user"
	"spotshare/models"
)

// AuthResponse is returned on successful registration or login.
type AuthResponse struct {
	UserID string      `json:"userId"`
	Token  string      `json:"token"`
	User   models.User `json:"user"`
}

// Registration carries the fields needed to create an account.
type Registration struct {
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password" binding:"required,min=8"`
}

// LocationTrigger is notified after a user's location write so the
// proximity notifier can react. Implemented by the task queue client.
type LocationTrigger interface {
	LocationChanged(ctx context.Context, userID string) error
}

// UserService defines business logic for user operations.
type UserService interface {
	// RegisterUser validates registration details and creates a new account.
	RegisterUser(ctx context.Context, reg Registration) (*AuthResponse, error)
	// AuthenticateUser verifies credentials and returns ID and token.
	AuthenticateUser(ctx context.Context, email, password string) (*AuthResponse, error)
	// GetUserByID retrieves a user by its unique ID.
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	// UpdateUser applies a partial profile update.
	UpdateUser(ctx context.Context, user models.User) (*models.User, error)
	// UpdateLocation records the user's current position and triggers
	// the proximity notifier.
	UpdateLocation(ctx context.Context, userID string, lat, lng float64) error
	// UpdateFCMToken records the user's device push token.
	UpdateFCMToken(ctx context.Context, userID, token string) error
	// DeleteUser removes a user record.
	DeleteUser(ctx context.Context, userID string) error
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo    userRepo.UserRepository
	Trigger LocationTrigger
}
