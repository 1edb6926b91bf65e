package rank

import (
	"context"
	"fmt"
	"sync"
	"time"

	userRepo "spotshare/database/repository/user"
	"spotshare/models"
	"spotshare/utils"

	"go.uber.org/zap"
)

// State is the engine's lifecycle state.
type State int

const (
	// StateIdle means no subscription is active.
	StateIdle State = iota
	// StateWatching means the engine is subscribed to a user's record.
	StateWatching
	// StateRecomputing means a rank write is in flight.
	StateRecomputing
)

const recomputeTimeout = 10 * time.Second

// Engine recomputes one user's leaderboard rank whenever that user's
// point total changes. Rank is eventually consistent with points:
// recomputed lazily on change, never maintained incrementally. The
// engine is owned by a session-scope object and has an explicit
// Start/Stop lifecycle; it never crashes its host — recompute failures
// are logged and superseded by the next point change.
type Engine struct {
	repo userRepo.UserRepository

	mu         sync.Mutex
	state      State
	userID     string
	sub        userRepo.Subscription
	lastPoints *int
	loopDone   chan struct{}
}

// NewEngine creates an engine in the Idle state.
func NewEngine(repo userRepo.UserRepository) *Engine {
	return &Engine{repo: repo, state: StateIdle}
}

// State returns the engine's current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Start cancels any prior subscription and subscribes to change
// notifications on the given user's record.
func (e *Engine) Start(ctx context.Context, userID string) error {
	e.Stop()

	sub, err := e.repo.Watch(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to watch user %s: %w", userID, err)
	}

	done := make(chan struct{})
	e.mu.Lock()
	e.state = StateWatching
	e.userID = userID
	e.sub = sub
	e.lastPoints = nil
	e.loopDone = done
	e.mu.Unlock()

	go func() {
		defer close(done)
		for snapshot := range sub.Updates() {
			e.handle(snapshot)
		}
	}()
	return nil
}

// Stop cancels the subscription and clears all in-memory tracking.
// Safe to call when already Idle, and idempotent.
func (e *Engine) Stop() {
	e.mu.Lock()
	sub := e.sub
	done := e.loopDone
	e.sub = nil
	e.loopDone = nil
	e.userID = ""
	e.lastPoints = nil
	e.state = StateIdle
	e.mu.Unlock()

	if sub != nil {
		sub.Cancel()
	}
	if done != nil {
		<-done
	}
}

// handle processes one document snapshot.
func (e *Engine) handle(u models.User) {
	logger := utils.GetLogger()

	e.mu.Lock()
	if e.state == StateRecomputing {
		// An in-flight write will make the store re-notify with the
		// settled state; this snapshot is superseded.
		e.mu.Unlock()
		return
	}
	if e.lastPoints != nil && *e.lastPoints == u.Points {
		// Unrelated field change on the same document.
		e.mu.Unlock()
		return
	}
	points := u.Points
	e.lastPoints = &points
	e.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), recomputeTimeout)
	defer cancel()

	above, err := e.repo.CountWithPointsAbove(ctx, u.ID, points)
	if err != nil {
		logger.Warn("rank recompute count failed",
			zap.String("userID", u.ID), zap.Error(err))
		return
	}
	candidate := int(above) + 1

	if u.Rank == candidate {
		return
	}

	e.mu.Lock()
	if e.state != StateWatching {
		e.mu.Unlock()
		return
	}
	e.state = StateRecomputing
	e.mu.Unlock()

	if err := e.repo.SetRank(ctx, u.ID, candidate); err != nil {
		// Not retried here: the next point change naturally
		// re-triggers recomputation.
		logger.Warn("rank write failed",
			zap.String("userID", u.ID), zap.Int("rank", candidate), zap.Error(err))
	} else {
		logger.Debug("rank recomputed",
			zap.String("userID", u.ID), zap.Int("rank", candidate), zap.Int("points", points))
	}

	e.mu.Lock()
	if e.state == StateRecomputing {
		e.state = StateWatching
	}
	e.mu.Unlock()
}
