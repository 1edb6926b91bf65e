package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	userRepo "spotshare/database/repository/user"
	"spotshare/models"

	"github.com/go-redis/redis/v8"
)

const cacheTTL = 30 * time.Second

// Service projects the global points ordering for ranked display.
// Read-only; consumed by presentation.
type Service interface {
	Top(ctx context.Context, limit int64) ([]models.LeaderboardEntry, error)
}

// DefaultService is the production implementation. Cache is optional:
// a nil client disables caching.
type DefaultService struct {
	Repo  userRepo.UserRepository
	Cache *redis.Client
}

// Top returns up to limit users ordered by points with standard
// competition ranks (ties share a rank).
func (s *DefaultService) Top(ctx context.Context, limit int64) ([]models.LeaderboardEntry, error) {
	cacheKey := fmt.Sprintf("leaderboard:top:%d", limit)

	if s.Cache != nil {
		cached, err := s.Cache.Get(ctx, cacheKey).Result()
		if err == nil && cached != "" {
			var entries []models.LeaderboardEntry
			if err := json.Unmarshal([]byte(cached), &entries); err == nil {
				return entries, nil
			}
			// If unmarshal fails, fall through to re-computation.
		}
	}

	users, err := s.Repo.TopByPoints(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to project leaderboard: %w", err)
	}
	entries := rankEntries(users)

	if s.Cache != nil {
		if payload, err := json.Marshal(entries); err == nil {
			s.Cache.Set(ctx, cacheKey, payload, cacheTTL)
		}
	}
	return entries, nil
}

// rankEntries assigns standard competition ranks to users already
// ordered by points descending: tied users share a rank, and the next
// distinct point value gets 1 + the number of users strictly above it.
func rankEntries(users []models.User) []models.LeaderboardEntry {
	entries := make([]models.LeaderboardEntry, 0, len(users))
	for i, u := range users {
		rank := i + 1
		if i > 0 && u.Points == users[i-1].Points {
			rank = entries[i-1].Rank
		}
		entries = append(entries, models.LeaderboardEntry{
			Rank:      rank,
			UserID:    u.ID,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Points:    u.Points,
		})
	}
	return entries
}
