package rank

import (
	"context"
	"sync"

	userRepo "spotshare/database/repository/user"
)

// Manager owns one rank engine per signed-in user. Engines are started
// on login and stopped on logout or server shutdown; an unstopped
// engine is a resource leak, not a correctness bug, since rank writes
// are idempotent.
type Manager struct {
	repo userRepo.UserRepository

	mu      sync.Mutex
	engines map[string]*Engine
}

// NewManager creates an empty engine manager.
func NewManager(repo userRepo.UserRepository) *Manager {
	return &Manager{
		repo:    repo,
		engines: make(map[string]*Engine),
	}
}

// StartFor ensures an engine is watching the given user.
func (m *Manager) StartFor(ctx context.Context, userID string) error {
	m.mu.Lock()
	engine, ok := m.engines[userID]
	if !ok {
		engine = NewEngine(m.repo)
		m.engines[userID] = engine
	}
	m.mu.Unlock()

	if engine.State() != StateIdle {
		return nil
	}
	return engine.Start(ctx, userID)
}

// StopFor stops and forgets the engine for the given user, if any.
func (m *Manager) StopFor(userID string) {
	m.mu.Lock()
	engine, ok := m.engines[userID]
	delete(m.engines, userID)
	m.mu.Unlock()

	if ok {
		engine.Stop()
	}
}

// StopAll stops every engine. Called on shutdown.
func (m *Manager) StopAll() {
	m.mu.Lock()
	engines := m.engines
	m.engines = make(map[string]*Engine)
	m.mu.Unlock()

	for _, engine := range engines {
		engine.Stop()
	}
}
