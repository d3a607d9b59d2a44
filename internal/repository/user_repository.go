package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/FoxxDev-Collab/pricefeed-app/internal/db"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/db/queries"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/models"
	"github.com/google/uuid"
)

// UserRepository handles the lockout and reputation columns of users.
type UserRepository struct {
	db *db.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *db.DB) *UserRepository {
	return &UserRepository{db: db}
}

func scanAuthState(row rowScanner) (*models.UserAuthState, error) {
	var (
		state       models.UserAuthState
		lockedUntil sql.NullTime
	)
	if err := row.Scan(&state.UserID, &state.FailedLoginAttempts, &lockedUntil); err != nil {
		return nil, err
	}
	if lockedUntil.Valid {
		t := lockedUntil.Time
		state.LockedUntil = &t
	}
	return &state, nil
}

// GetAuthState reads the failed-attempt counter and lock expiry for a user.
func (r *UserRepository) GetAuthState(ctx context.Context, id uuid.UUID) (*models.UserAuthState, error) {
	state, err := scanAuthState(r.db.QueryRowContext(ctx, queries.GetUserAuthState, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get auth state: %w", err)
	}
	return state, nil
}

// RecordFailedLogin atomically counts one failed attempt and locks the account
// when the new count reaches f.LockThreshold. Concurrent calls never lose an
// increment. When the account is already locked at f.At nothing changes, the
// current state is returned and applied is false.
func (r *UserRepository) RecordFailedLogin(ctx context.Context, id uuid.UUID, f models.FailedLogin) (*models.UserAuthState, bool, error) {
	state, err := scanAuthState(r.db.QueryRowContext(ctx, queries.RecordFailedLogin,
		id, f.At, f.LockThreshold, f.LockUntil))
	if err == nil {
		return state, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to record failed login: %w", err)
	}

	// No row updated: either the user does not exist or it is locked right now.
	state, err = r.GetAuthState(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return state, false, nil
}

// ResetLoginState clears the failure counter and any lock.
func (r *UserRepository) ResetLoginState(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, queries.ResetLoginState, id)
	if err != nil {
		return fmt.Errorf("failed to reset login state: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// ClearExpiredLocks resets every account whose lock ended at or before now and
// returns how many were cleared.
func (r *UserRepository) ClearExpiredLocks(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, queries.ClearExpiredLocks, now)
	if err != nil {
		return 0, fmt.Errorf("failed to clear expired locks: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}

// AddReputationPoints adds n to the user's reputation in one statement and
// returns the new total.
func (r *UserRepository) AddReputationPoints(ctx context.Context, id uuid.UUID, n int) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, queries.AddReputationPoints, id, n).Scan(&total)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
		}
		return 0, fmt.Errorf("failed to add reputation points: %w", err)
	}
	return total, nil
}

// GetReputation reads a user's reputation total.
func (r *UserRepository) GetReputation(ctx context.Context, id uuid.UUID) (*models.UserReputation, error) {
	var rep models.UserReputation
	err := r.db.QueryRowContext(ctx, queries.GetUserReputation, id).Scan(&rep.UserID, &rep.ReputationPoints)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get reputation: %w", err)
	}
	return &rep, nil
}
