package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/FoxxDev-Collab/pricefeed-app/internal/models"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/settings"
	"github.com/FoxxDev-Collab/pricefeed-app/pkg/debug"
	"github.com/google/uuid"
)

// ErrAttemptNotRecorded means a login attempt could not be counted or the
// lock state could not be read. The attempt is rejected; the caller may retry.
var ErrAttemptNotRecorded = errors.New("login attempt could not be recorded")

// DefaultCounterTimeout bounds each counter update against storage.
const DefaultCounterTimeout = 3 * time.Second

// LockoutStore is the user-record storage the lockout tracker needs.
type LockoutStore interface {
	GetAuthState(ctx context.Context, id uuid.UUID) (*models.UserAuthState, error)
	RecordFailedLogin(ctx context.Context, id uuid.UUID, f models.FailedLogin) (*models.UserAuthState, bool, error)
	ResetLoginState(ctx context.Context, id uuid.UUID) error
}

// LockStatus is the externally visible lock state.
type LockStatus struct {
	Locked           bool `json:"locked"`
	RemainingMinutes *int `json:"remaining_minutes,omitempty"`
}

// LockoutResult describes the outcome of one failed attempt.
type LockoutResult struct {
	FailedAttempts   int        `json:"failed_attempts"`
	Counted          bool       `json:"counted"` // false when the account was already locked
	Locked           bool       `json:"locked"`
	JustLocked       bool       `json:"just_locked"`
	LockedUntil      *time.Time `json:"locked_until,omitempty"`
	RemainingMinutes int        `json:"remaining_minutes,omitempty"`
}

// LoginDecision is what the login flow should do with an attempt.
type LoginDecision struct {
	Allowed          bool   `json:"allowed"`
	Locked           bool   `json:"locked"`
	RemainingMinutes int    `json:"remaining_minutes,omitempty"`
	Message          string `json:"message,omitempty"`
}

const (
	msgInvalidCredentials = "Invalid credentials"
	msgTryAgain           = "Unable to process login right now, please try again"
)

// LockedMessage renders the rejection shown to a locked-out user.
func LockedMessage(remainingMinutes int) string {
	if remainingMinutes <= 1 {
		return "Account temporarily locked due to multiple failed login attempts. Try again in 1 minute."
	}
	return fmt.Sprintf("Account temporarily locked due to multiple failed login attempts. Try again in %d minutes.", remainingMinutes)
}

// LockoutService tracks failed logins per account and locks accounts that
// reach the configured threshold.
type LockoutService struct {
	users   LockoutStore
	config  SnapshotProvider
	clock   settings.Clock
	timeout time.Duration
	log     *debug.Logger
}

// NewLockoutService creates a LockoutService. A nil clock uses the wall clock
// and a non-positive timeout uses DefaultCounterTimeout.
func NewLockoutService(users LockoutStore, config SnapshotProvider, clock settings.Clock, counterTimeout time.Duration) *LockoutService {
	if clock == nil {
		clock = settings.SystemClock{}
	}
	if counterTimeout <= 0 {
		counterTimeout = DefaultCounterTimeout
	}
	return &LockoutService{
		users:   users,
		config:  config,
		clock:   clock,
		timeout: counterTimeout,
		log:     debug.With("lockout"),
	}
}

// failurePolicy turns the auth settings into parameters for the storage update.
func failurePolicy(auth settings.AuthSettings, now time.Time) models.FailedLogin {
	threshold := auth.MaxLoginAttempts
	if threshold < 0 {
		threshold = 0
	}
	minutes := auth.LockoutDurationMinutes
	if minutes <= 0 {
		minutes = settings.DefaultLockoutDurationMinutes
	}
	return models.FailedLogin{
		At:            now,
		LockThreshold: threshold,
		LockUntil:     now.Add(time.Duration(minutes) * time.Minute),
	}
}

// RecordFailure counts one failed attempt. Locking happens in the same
// storage update that increments the counter. An account that is already
// locked is not counted again.
func (s *LockoutService) RecordFailure(ctx context.Context, userID uuid.UUID) (LockoutResult, error) {
	snap, err := s.config.Snapshot(ctx)
	if err != nil {
		return LockoutResult{}, err
	}
	now := s.clock.Now()
	policy := failurePolicy(settings.AuthSettingsFrom(snap), now)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	state, applied, err := s.users.RecordFailedLogin(ctx, userID, policy)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return LockoutResult{}, err
		}
		s.log.Error("Failed to record failed login for user %s: %v", userID, err)
		return LockoutResult{}, fmt.Errorf("%w: %w", ErrAttemptNotRecorded, err)
	}

	res := LockoutResult{
		FailedAttempts:   state.FailedLoginAttempts,
		Counted:          applied,
		Locked:           state.IsLocked(now),
		LockedUntil:      state.LockedUntil,
		RemainingMinutes: state.RemainingLockoutMinutes(now),
	}
	res.JustLocked = applied && res.Locked
	switch {
	case res.JustLocked:
		s.log.Warning("Account %s locked for %d minutes after %d failed attempts",
			userID, res.RemainingMinutes, res.FailedAttempts)
	case !applied:
		s.log.Warning("Login attempt for locked account %s", userID)
	default:
		s.log.Debug("Failed login %d for user %s", res.FailedAttempts, userID)
	}
	return res, nil
}

// RecordSuccess resets the counter and clears any lock.
func (s *LockoutService) RecordSuccess(ctx context.Context, userID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.users.ResetLoginState(ctx, userID); err != nil {
		return fmt.Errorf("failed to reset login state: %w", err)
	}
	return nil
}

// CheckLockStatus compares the stored lock expiry against the clock now.
func (s *LockoutService) CheckLockStatus(ctx context.Context, userID uuid.UUID) (LockStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	state, err := s.users.GetAuthState(ctx, userID)
	if err != nil {
		return LockStatus{}, fmt.Errorf("failed to read lock state: %w", err)
	}
	now := s.clock.Now()
	if !state.IsLocked(now) {
		return LockStatus{}, nil
	}
	remaining := state.RemainingLockoutMinutes(now)
	return LockStatus{Locked: true, RemainingMinutes: &remaining}, nil
}

// EvaluateLogin drives the lockout state machine for one login attempt whose
// credentials have already been checked. A locked account is rejected
// whether or not the credentials were valid.
//
// Storage failures while checking or counting reject the attempt with
// ErrAttemptNotRecorded. No lock is persisted because of them, so login
// recovers as soon as storage does. A failed reset after valid credentials
// is logged and the login proceeds.
func (s *LockoutService) EvaluateLogin(ctx context.Context, userID uuid.UUID, credentialsValid bool) (LoginDecision, error) {
	status, err := s.CheckLockStatus(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return LoginDecision{Message: msgInvalidCredentials}, err
		}
		s.log.Error("Lock state unavailable for user %s: %v", userID, err)
		return LoginDecision{Message: msgTryAgain}, fmt.Errorf("%w: %w", ErrAttemptNotRecorded, err)
	}
	if status.Locked {
		s.log.Warning("Login attempt for locked account %s", userID)
		return LoginDecision{
			Locked:           true,
			RemainingMinutes: *status.RemainingMinutes,
			Message:          LockedMessage(*status.RemainingMinutes),
		}, nil
	}

	if credentialsValid {
		if err := s.RecordSuccess(ctx, userID); err != nil {
			s.log.Error("Login for user %s allowed but counter reset failed: %v", userID, err)
		}
		return LoginDecision{Allowed: true}, nil
	}

	res, err := s.RecordFailure(ctx, userID)
	if err != nil {
		return LoginDecision{Message: msgTryAgain}, err
	}
	if res.Locked {
		return LoginDecision{
			Locked:           true,
			RemainingMinutes: res.RemainingMinutes,
			Message:          LockedMessage(res.RemainingMinutes),
		}, nil
	}
	return LoginDecision{Message: msgInvalidCredentials}, nil
}

// Unlock clears the counter and lock for an account on administrator request.
func (s *LockoutService) Unlock(ctx context.Context, userID uuid.UUID) error {
	if err := s.RecordSuccess(ctx, userID); err != nil {
		return err
	}
	s.log.Info("Account %s unlocked by administrator", userID)
	return nil
}
