package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// UserAuthState is the lockout-related part of a user record.
type UserAuthState struct {
	UserID              uuid.UUID  `json:"user_id" db:"id"`
	FailedLoginAttempts int        `json:"failed_login_attempts" db:"failed_login_attempts"`
	LockedUntil         *time.Time `json:"locked_until,omitempty" db:"locked_until"`
}

// IsLocked reports whether the account is locked at now. A lockedUntil in the
// past counts as unlocked even if storage has not cleared it yet.
func (s UserAuthState) IsLocked(now time.Time) bool {
	return s.LockedUntil != nil && s.LockedUntil.After(now)
}

// RemainingLockout is the time left on an active lock, or zero.
func (s UserAuthState) RemainingLockout(now time.Time) time.Duration {
	if !s.IsLocked(now) {
		return 0
	}
	return s.LockedUntil.Sub(now)
}

// RemainingLockoutMinutes rounds the remaining lock time up to whole minutes.
func (s UserAuthState) RemainingLockoutMinutes(now time.Time) int {
	remaining := s.RemainingLockout(now)
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining.Minutes()))
}

// UserReputation is the reputation part of a user record.
type UserReputation struct {
	UserID           uuid.UUID `json:"user_id" db:"id"`
	ReputationPoints int       `json:"reputation_points" db:"reputation_points"`
}

// FailedLogin parameterizes the storage-side failure increment.
type FailedLogin struct {
	At            time.Time // server clock at the attempt
	LockThreshold int       // lock when the new count reaches this; 0 never locks
	LockUntil     time.Time // expiry written when the threshold is reached
}

// ApplyFailedLogin is the in-process reference for the storage primitive: it
// returns the state after one more failure and whether it applied. A state
// that is locked at f.At is returned unchanged with applied=false.
func (s UserAuthState) ApplyFailedLogin(f FailedLogin) (UserAuthState, bool) {
	if s.IsLocked(f.At) {
		return s, false
	}
	next := s
	next.FailedLoginAttempts++
	next.LockedUntil = nil
	if f.LockThreshold > 0 && next.FailedLoginAttempts >= f.LockThreshold {
		until := f.LockUntil
		next.LockedUntil = &until
	}
	return next, true
}
