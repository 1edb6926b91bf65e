package userRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"spotshare/models"
)

// MemoryUserRepo is an in-memory UserRepository. Watch is backed by
// buffered channels fed from every mutating call, mirroring what the
// change stream delivers in production. Used by tests and local
// development.
type MemoryUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
	subs  map[string][]*memorySub
}

// NewMemoryUserRepo seeds an in-memory repository with the given users.
func NewMemoryUserRepo(users ...*models.User) *MemoryUserRepo {
	repo := &MemoryUserRepo{
		users: make(map[string]*models.User),
		subs:  make(map[string][]*memorySub),
	}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

// GetByID retrieves a user by its unique ID.
func (r *MemoryUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := *u
	return &out, nil
}

// GetByEmail retrieves a user by its email address.
func (r *MemoryUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, models.ErrNotFound
}

// Create inserts a new user record.
func (r *MemoryUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

// UpdateFields applies a partial update to a user record.
func (r *MemoryUserRepo) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return models.ErrNotFound
	}
	for key, value := range fields {
		switch key {
		case "firstName":
			u.FirstName = value.(string)
		case "lastName":
			u.LastName = value.(string)
		case "phoneNumber":
			u.PhoneNumber = value.(string)
		case "fcmToken":
			u.FCMToken = value.(string)
		case "latitude":
			lat := value.(float64)
			u.Latitude = &lat
		case "longitude":
			lng := value.(float64)
			u.Longitude = &lng
		case "lastParkingCount":
			u.LastParkingCount = value.(int)
		case "updatedAt":
			u.UpdatedAt = value.(time.Time)
		}
	}
	r.notifyLocked(id)
	return nil
}

// Delete removes a user record by its ID.
func (r *MemoryUserRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return models.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

// AddPoints adjusts a user's point total by delta, flooring at zero.
func (r *MemoryUserRepo) AddPoints(ctx context.Context, id string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return models.ErrNotFound
	}
	u.Points += delta
	if u.Points < 0 {
		u.Points = 0
	}
	r.notifyLocked(id)
	return nil
}

// CountWithPointsAbove counts users with strictly more points than the
// given value, excluding the given user.
func (r *MemoryUserRepo) CountWithPointsAbove(ctx context.Context, excludeID string, points int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, u := range r.users {
		if u.ID != excludeID && u.Points > points {
			count++
		}
	}
	return count, nil
}

// SetRank writes a user's recomputed leaderboard rank.
func (r *MemoryUserRepo) SetRank(ctx context.Context, id string, rank int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return models.ErrNotFound
	}
	u.Rank = rank
	return nil
}

// TopByPoints returns up to limit users ordered by points descending.
func (r *MemoryUserRepo) TopByPoints(ctx context.Context, limit int64) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].ID < out[j].ID
	})
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Watch subscribes to change notifications for one user's record.
func (r *MemoryUserRepo) Watch(ctx context.Context, id string) (Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub := &memorySub{
		repo:    r,
		userID:  id,
		updates: make(chan models.User, 32),
	}
	r.subs[id] = append(r.subs[id], sub)
	return sub, nil
}

// notifyLocked pushes the current snapshot to every live subscriber.
// Callers hold r.mu. A subscriber that has fallen 32 updates behind
// loses the oldest ones; the watcher only cares about the latest state.
func (r *MemoryUserRepo) notifyLocked(id string) {
	u, ok := r.users[id]
	if !ok {
		return
	}
	snapshot := *u
	for _, sub := range r.subs[id] {
		select {
		case sub.updates <- snapshot:
		default:
		}
	}
}

type memorySub struct {
	repo    *MemoryUserRepo
	userID  string
	updates chan models.User
	once    sync.Once
}

func (s *memorySub) Updates() <-chan models.User { return s.updates }

func (s *memorySub) Cancel() {
	s.once.Do(func() {
		s.repo.mu.Lock()
		live := s.repo.subs[s.userID][:0]
		for _, sub := range s.repo.subs[s.userID] {
			if sub != s {
				live = append(live, sub)
			}
		}
		s.repo.subs[s.userID] = live
		s.repo.mu.Unlock()
		close(s.updates)
	})
}

func (s *memorySub) Err() error { return nil }
