package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/FoxxDev-Collab/pricefeed-app/internal/models"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/settings"
	"github.com/FoxxDev-Collab/pricefeed-app/pkg/debug"
	"github.com/google/uuid"
)

// ReputationAction is a user action that earns points.
type ReputationAction string

const (
	ActionPriceSubmission ReputationAction = "price_submission"
	ActionVerification    ReputationAction = "verification"
	ActionStoreAdded      ReputationAction = "store_added"
	ActionItemAdded       ReputationAction = "item_added"
)

// ParseReputationAction validates an action name.
func ParseReputationAction(s string) (ReputationAction, error) {
	a := ReputationAction(s)
	if _, ok := actionPoints[a]; !ok {
		return "", fmt.Errorf("unknown reputation action %q: %w", s, models.ErrInvalidInput)
	}
	return a, nil
}

var actionPoints = map[ReputationAction]func(settings.ReputationSettings) int{
	ActionPriceSubmission: func(r settings.ReputationSettings) int { return r.PointsPriceSubmission },
	ActionVerification:    func(r settings.ReputationSettings) int { return r.PointsVerification },
	ActionStoreAdded:      func(r settings.ReputationSettings) int { return r.PointsStoreAdded },
	ActionItemAdded:       func(r settings.ReputationSettings) int { return r.PointsItemAdded },
}

// Tier names, lowest first.
const (
	TierNewcomer = "Newcomer"
	TierBronze   = "Bronze"
	TierSilver   = "Silver"
	TierGold     = "Gold"
	TierPlatinum = "Platinum"
)

type tier struct {
	name string
	min  int
}

func tiers(r settings.ReputationSettings) []tier {
	return []tier{
		{TierNewcomer, 0},
		{TierBronze, r.LevelBronze},
		{TierSilver, r.LevelSilver},
		{TierGold, r.LevelGold},
		{TierPlatinum, r.LevelPlatinum},
	}
}

// LevelFor returns the highest tier whose threshold is at most points.
func LevelFor(points int, r settings.ReputationSettings) string {
	return ProgressFor(points, r).Level
}

// LevelProgress is the display view of a point total.
type LevelProgress struct {
	Level           string  `json:"level"`
	Points          int     `json:"points"`
	NextLevel       *string `json:"next_level"`
	PointsToNext    int     `json:"points_to_next_level"`
	ProgressPercent int     `json:"progress"`
}

// ProgressFor places points between the current and next tier thresholds.
// ProgressPercent stays within 0..100, also for negative totals.
func ProgressFor(points int, r settings.ReputationSettings) LevelProgress {
	ts := tiers(r)
	current := 0
	for i := len(ts) - 1; i >= 0; i-- {
		if points >= ts[i].min {
			current = i
			break
		}
	}

	p := LevelProgress{Level: ts[current].name, Points: points, ProgressPercent: 100}
	if current+1 >= len(ts) {
		return p
	}
	next := ts[current+1]
	p.NextLevel = &next.name
	p.PointsToNext = next.min - points

	span := next.min - ts[current].min
	if span > 0 {
		p.ProgressPercent = int(math.Round(float64(points-ts[current].min) / float64(span) * 100))
	}
	p.ProgressPercent = min(max(p.ProgressPercent, 0), 100)
	return p
}

// ReputationStore is the user-record storage the ledger needs.
type ReputationStore interface {
	AddReputationPoints(ctx context.Context, id uuid.UUID, n int) (int, error)
	GetReputation(ctx context.Context, id uuid.UUID) (*models.UserReputation, error)
}

// ReputationService awards points and derives tiers.
type ReputationService struct {
	users   ReputationStore
	config  SnapshotProvider
	timeout time.Duration
	log     *debug.Logger
}

// NewReputationService creates a ReputationService. A non-positive timeout
// uses DefaultCounterTimeout.
func NewReputationService(users ReputationStore, config SnapshotProvider, counterTimeout time.Duration) *ReputationService {
	if counterTimeout <= 0 {
		counterTimeout = DefaultCounterTimeout
	}
	return &ReputationService{
		users:   users,
		config:  config,
		timeout: counterTimeout,
		log:     debug.With("reputation"),
	}
}

// AddPoints awards the configured points for action and returns how many were
// added. It never fails the caller: configuration or storage problems are
// logged and zero is returned.
func (s *ReputationService) AddPoints(ctx context.Context, userID uuid.UUID, action ReputationAction) int {
	pointsFor, ok := actionPoints[action]
	if !ok {
		s.log.Warning("Ignoring unknown reputation action %q for user %s", action, userID)
		return 0
	}
	snap, err := s.config.Snapshot(ctx)
	if err != nil {
		s.log.Error("Skipping reputation award %s for user %s: %v", action, userID, err)
		return 0
	}
	points := pointsFor(settings.ReputationSettingsFrom(snap))
	if points <= 0 {
		return 0
	}

	// The award outlives a cancelled request but not the counter timeout.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	total, err := s.users.AddReputationPoints(ctx, userID, points)
	if err != nil {
		s.log.Error("Failed to add %d reputation points to user %s for %s: %v", points, userID, action, err)
		return 0
	}
	s.log.Debug("User %s earned %d points for %s (total %d)", userID, points, action, total)
	return points
}

// Level returns the tier for points under the current configuration.
func (s *ReputationService) Level(ctx context.Context, points int) (string, error) {
	snap, err := s.config.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	return LevelFor(points, settings.ReputationSettingsFrom(snap)), nil
}

// LevelProgress returns the display view for points.
func (s *ReputationService) LevelProgress(ctx context.Context, points int) (LevelProgress, error) {
	snap, err := s.config.Snapshot(ctx)
	if err != nil {
		return LevelProgress{}, err
	}
	return ProgressFor(points, settings.ReputationSettingsFrom(snap)), nil
}

// UserLevel reads a user's points and returns their display view.
func (s *ReputationService) UserLevel(ctx context.Context, userID uuid.UUID) (LevelProgress, error) {
	snap, err := s.config.Snapshot(ctx)
	if err != nil {
		return LevelProgress{}, err
	}

	readCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	rep, err := s.users.GetReputation(readCtx, userID)
	if err != nil {
		return LevelProgress{}, fmt.Errorf("failed to get reputation: %w", err)
	}
	return ProgressFor(rep.ReputationPoints, settings.ReputationSettingsFrom(snap)), nil
}
