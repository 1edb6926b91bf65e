package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"spotshare/models"
	"spotshare/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenDuration = 72 * time.Hour

// RegisterUser validates registration details and creates a new account.
func (s *DefaultUserService) RegisterUser(ctx context.Context, reg Registration) (*AuthResponse, error) {
	logger := utils.GetLogger()

	email := strings.ToLower(strings.TrimSpace(reg.Email))
	if existing, err := s.Repo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, fmt.Errorf("an account with email %s already exists", email)
	} else if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	newUser := &models.User{
		ID:           uuid.NewString(),
		FirstName:    reg.FirstName,
		LastName:     reg.LastName,
		Email:        email,
		PhoneNumber:  reg.PhoneNumber,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(ctx, newUser); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := utils.GenerateToken(newUser.ID, newUser.Email, tokenDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	logger.Info("user registered", zap.String("userID", newUser.ID))
	return &AuthResponse{UserID: newUser.ID, Token: token, User: *newUser}, nil
}

// AuthenticateUser verifies credentials and returns ID and token.
func (s *DefaultUserService) AuthenticateUser(ctx context.Context, email, password string) (*AuthResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("invalid email or password")
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	token, err := utils.GenerateToken(u.ID, u.Email, tokenDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &AuthResponse{UserID: u.ID, Token: token, User: *u}, nil
}

// GetUserByID retrieves a user by its unique ID.
func (s *DefaultUserService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	return s.Repo.GetByID(ctx, userID)
}

// UpdateUser updates non-empty user fields using a partial update.
func (s *DefaultUserService) UpdateUser(ctx context.Context, u models.User) (*models.User, error) {
	if u.ID == "" {
		return nil, models.ErrNotLoggedIn
	}

	updateFields := map[string]any{
		"updatedAt": time.Now(),
	}
	if u.FirstName != "" {
		updateFields["firstName"] = u.FirstName
	}
	if u.LastName != "" {
		updateFields["lastName"] = u.LastName
	}
	if u.PhoneNumber != "" {
		updateFields["phoneNumber"] = u.PhoneNumber
	}
	if len(updateFields) == 1 {
		return nil, fmt.Errorf("no updatable fields provided")
	}

	if err := s.Repo.UpdateFields(ctx, u.ID, updateFields); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return s.Repo.GetByID(ctx, u.ID)
}

// UpdateLocation records the user's current position and triggers the
// proximity notifier through the task queue.
func (s *DefaultUserService) UpdateLocation(ctx context.Context, userID string, lat, lng float64) error {
	if userID == "" {
		return models.ErrNotLoggedIn
	}

	fields := map[string]any{
		"latitude":  lat,
		"longitude": lng,
		"updatedAt": time.Now(),
	}
	if err := s.Repo.UpdateFields(ctx, userID, fields); err != nil {
		return fmt.Errorf("failed to update location: %w", err)
	}

	if s.Trigger != nil {
		if err := s.Trigger.LocationChanged(ctx, userID); err != nil {
			// The location write itself succeeded; the notifier will
			// fire on the next location tick.
			utils.GetLogger().Warn("failed to enqueue proximity check",
				zap.String("userID", userID), zap.Error(err))
		}
	}
	return nil
}

// UpdateFCMToken records the user's device push token.
func (s *DefaultUserService) UpdateFCMToken(ctx context.Context, userID, token string) error {
	if userID == "" {
		return models.ErrNotLoggedIn
	}
	fields := map[string]any{
		"fcmToken":  token,
		"updatedAt": time.Now(),
	}
	if err := s.Repo.UpdateFields(ctx, userID, fields); err != nil {
		return fmt.Errorf("failed to update FCM token: %w", err)
	}
	return nil
}

// DeleteUser removes a user record.
func (s *DefaultUserService) DeleteUser(ctx context.Context, userID string) error {
	if userID == "" {
		return models.ErrNotLoggedIn
	}
	if err := s.Repo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
