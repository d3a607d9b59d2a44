package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/FoxxDev-Collab/pricefeed-app/internal/models"
	"github.com/google/uuid"
)

// MemoryUserStore keeps lockout and reputation columns in memory. Every
// mutation runs under one mutex, matching the single-statement atomicity of
// the SQL repository.
type MemoryUserStore struct {
	mu     sync.Mutex
	auth   map[uuid.UUID]models.UserAuthState
	points map[uuid.UUID]int

	RecordErr error
	ResetErr  error
	GetErr    error
	AddErr    error

	RecordCalls int
	ResetCalls  int
	AddCalls    int
}

// NewMemoryUserStore creates an empty store.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		auth:   make(map[uuid.UUID]models.UserAuthState),
		points: make(map[uuid.UUID]int),
	}
}

// CreateUser adds an active user with zero points.
func (m *MemoryUserStore) CreateUser() uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New()
	m.auth[id] = models.UserAuthState{UserID: id}
	m.points[id] = 0
	return id
}

// SetAuthState overwrites a user's lockout columns.
func (m *MemoryUserStore) SetAuthState(state models.UserAuthState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.auth[state.UserID] = state
	if _, ok := m.points[state.UserID]; !ok {
		m.points[state.UserID] = 0
	}
}

func (m *MemoryUserStore) GetAuthState(ctx context.Context, id uuid.UUID) (*models.UserAuthState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	s, ok := m.auth[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	return &s, nil
}

func (m *MemoryUserStore) RecordFailedLogin(ctx context.Context, id uuid.UUID, f models.FailedLogin) (*models.UserAuthState, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordCalls++
	if m.RecordErr != nil {
		return nil, false, m.RecordErr
	}
	s, ok := m.auth[id]
	if !ok {
		return nil, false, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	next, applied := s.ApplyFailedLogin(f)
	m.auth[id] = next
	return &next, applied, nil
}

func (m *MemoryUserStore) ResetLoginState(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResetCalls++
	if m.ResetErr != nil {
		return m.ResetErr
	}
	if _, ok := m.auth[id]; !ok {
		return fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	m.auth[id] = models.UserAuthState{UserID: id}
	return nil
}

func (m *MemoryUserStore) ClearExpiredLocks(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, s := range m.auth {
		if s.LockedUntil != nil && !s.LockedUntil.After(now) {
			s.LockedUntil = nil
			m.auth[id] = s
			n++
		}
	}
	return n, nil
}

func (m *MemoryUserStore) AddReputationPoints(ctx context.Context, id uuid.UUID, n int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddCalls++
	if m.AddErr != nil {
		return 0, m.AddErr
	}
	total, ok := m.points[id]
	if !ok {
		return 0, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	total += n
	m.points[id] = total
	return total, nil
}

func (m *MemoryUserStore) GetReputation(ctx context.Context, id uuid.UUID) (*models.UserReputation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	total, ok := m.points[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	return &models.UserReputation{UserID: id, ReputationPoints: total}, nil
}

// Points returns the stored reputation total.
func (m *MemoryUserStore) Points(id uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.points[id]
}

// AuthState returns the stored lockout columns.
func (m *MemoryUserStore) AuthState(id uuid.UUID) models.UserAuthState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.auth[id]
}
