package rank

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	userRepo "spotshare/database/repository/user"
	"spotshare/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingUserRepo wraps the in-memory repo to observe recompute traffic.
type countingUserRepo struct {
	*userRepo.MemoryUserRepo
	countCalls   atomic.Int64
	setRankCalls atomic.Int64
}

func newCountingUserRepo(users ...*models.User) *countingUserRepo {
	return &countingUserRepo{MemoryUserRepo: userRepo.NewMemoryUserRepo(users...)}
}

func (r *countingUserRepo) CountWithPointsAbove(ctx context.Context, excludeID string, points int) (int64, error) {
	r.countCalls.Add(1)
	return r.MemoryUserRepo.CountWithPointsAbove(ctx, excludeID, points)
}

func (r *countingUserRepo) SetRank(ctx context.Context, id string, rank int) error {
	r.setRankCalls.Add(1)
	return r.MemoryUserRepo.SetRank(ctx, id, rank)
}

func seedUsers(points ...int) []*models.User {
	users := make([]*models.User, len(points))
	for i, p := range points {
		users[i] = &models.User{ID: userID(i), Points: p}
	}
	return users
}

func userID(i int) string {
	return "user-" + string(rune('a'+i))
}

func TestRanksShareOnTies(t *testing.T) {
	points := []int{100, 100, 90, 80, 80, 80, 50, 10, 0, 0}
	wantRanks := []int{1, 1, 3, 4, 4, 4, 7, 8, 9, 9}

	repo := userRepo.NewMemoryUserRepo(seedUsers(points...)...)

	for i := range points {
		engine := NewEngine(repo)
		require.NoError(t, engine.Start(context.Background(), userID(i)))
		defer engine.Stop()

		// A zero delta still notifies the watcher; the first snapshot
		// always recomputes.
		require.NoError(t, repo.AddPoints(context.Background(), userID(i), 0))
	}

	for i, want := range wantRanks {
		i, want := i, want
		assert.Eventually(t, func() bool {
			u, err := repo.GetByID(context.Background(), userID(i))
			return err == nil && u.Rank == want
		}, 2*time.Second, 10*time.Millisecond, "user %s should settle at rank %d", userID(i), want)
	}
}

func TestRankFollowsPointChanges(t *testing.T) {
	repo := userRepo.NewMemoryUserRepo(seedUsers(10, 20, 30)...)

	engine := NewEngine(repo)
	require.NoError(t, engine.Start(context.Background(), userID(0)))
	defer engine.Stop()

	require.NoError(t, repo.AddPoints(context.Background(), userID(0), 0))
	assert.Eventually(t, func() bool {
		u, _ := repo.GetByID(context.Background(), userID(0))
		return u != nil && u.Rank == 3
	}, 2*time.Second, 10*time.Millisecond)

	// Overtake both others.
	require.NoError(t, repo.AddPoints(context.Background(), userID(0), 25))
	assert.Eventually(t, func() bool {
		u, _ := repo.GetByID(context.Background(), userID(0))
		return u != nil && u.Rank == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestUnrelatedFieldChangeSkipsRecompute(t *testing.T) {
	repo := newCountingUserRepo(seedUsers(10, 20)...)

	engine := NewEngine(repo)
	require.NoError(t, engine.Start(context.Background(), userID(0)))
	defer engine.Stop()

	require.NoError(t, repo.AddPoints(context.Background(), userID(0), 5))
	assert.Eventually(t, func() bool {
		return repo.countCalls.Load() == 1
	}, 2*time.Second, 10*time.Millisecond)

	// A token refresh touches the same document without moving points.
	fields := map[string]any{"fcmToken": "fresh-token"}
	require.NoError(t, repo.UpdateFields(context.Background(), userID(0), fields))

	time.Sleep(100 * time.Millisecond)
	assert.EqualValues(t, 1, repo.countCalls.Load())
}

func TestEqualRankSkipsWrite(t *testing.T) {
	repo := newCountingUserRepo(&models.User{ID: "solo", Points: 10, Rank: 1})

	engine := NewEngine(repo)
	require.NoError(t, engine.Start(context.Background(), "solo"))
	defer engine.Stop()

	// Points move but the candidate rank is still 1.
	require.NoError(t, repo.AddPoints(context.Background(), "solo", 5))
	assert.Eventually(t, func() bool {
		return repo.countCalls.Load() == 1
	}, 2*time.Second, 10*time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	assert.EqualValues(t, 0, repo.setRankCalls.Load())
}

func TestStopIsIdempotent(t *testing.T) {
	repo := userRepo.NewMemoryUserRepo(&models.User{ID: "solo"})

	engine := NewEngine(repo)
	assert.Equal(t, StateIdle, engine.State())

	require.NoError(t, engine.Start(context.Background(), "solo"))
	assert.Equal(t, StateWatching, engine.State())

	engine.Stop()
	engine.Stop()
	assert.Equal(t, StateIdle, engine.State())

	// Restart after stop.
	require.NoError(t, engine.Start(context.Background(), "solo"))
	assert.Equal(t, StateWatching, engine.State())
	engine.Stop()
}

func TestManagerLifecycle(t *testing.T) {
	repo := userRepo.NewMemoryUserRepo(seedUsers(1, 2)...)
	manager := NewManager(repo)

	require.NoError(t, manager.StartFor(context.Background(), userID(0)))
	require.NoError(t, manager.StartFor(context.Background(), userID(0))) // second login is a no-op
	require.NoError(t, manager.StartFor(context.Background(), userID(1)))

	manager.StopFor(userID(0))
	manager.StopFor(userID(0)) // already stopped

	manager.StopAll()
}
