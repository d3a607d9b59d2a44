package services

import (
	"context"
	"math"
	"time"

	"github.com/FoxxDev-Collab/pricefeed-app/internal/models"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/settings"
)

// IsStale reports whether a price submitted at submittedAt is older than the
// configured expiry, measured in fractional days.
func IsStale(submittedAt, now time.Time, p settings.PriceSettings) bool {
	ageDays := now.Sub(submittedAt).Hours() / 24
	return ageDays > float64(p.PriceExpiryDays)
}

// IsVerified reports whether enough users have confirmed a price.
func IsVerified(verifiedCount int, p settings.PriceSettings) bool {
	return verifiedCount >= p.VerificationThreshold
}

// IsWithinDeviation reports whether newPrice is within the allowed percentage
// of averagePrice. Without a positive average there is nothing to compare
// against and every price is accepted.
func IsWithinDeviation(newPrice, averagePrice float64, p settings.PriceSettings) bool {
	if averagePrice <= 0 {
		return true
	}
	deviation := math.Abs((newPrice-averagePrice)/averagePrice) * 100
	return deviation <= float64(p.MaxPriceDeviation)
}

// TrustReport is every trust predicate evaluated against one snapshot.
type TrustReport struct {
	Stale           bool `json:"stale"`
	Verified        bool `json:"verified"`
	WithinDeviation bool `json:"within_deviation"`
}

// ValidationRules are the submission-form rules derived from price settings.
type ValidationRules struct {
	RequireReceipt      bool `json:"require_receipt"`
	AllowAnonymous      bool `json:"allow_anonymous"`
	MaxDeviationPercent int  `json:"max_deviation_percent"`
}

// PriceTrustService evaluates price observations against live configuration.
// It keeps no state and touches no storage besides the settings cache.
type PriceTrustService struct {
	config SnapshotProvider
	clock  settings.Clock
}

// NewPriceTrustService creates a PriceTrustService. A nil clock uses the wall clock.
func NewPriceTrustService(config SnapshotProvider, clock settings.Clock) *PriceTrustService {
	if clock == nil {
		clock = settings.SystemClock{}
	}
	return &PriceTrustService{config: config, clock: clock}
}

func (s *PriceTrustService) priceSettings(ctx context.Context) (settings.PriceSettings, error) {
	snap, err := s.config.Snapshot(ctx)
	if err != nil {
		return settings.PriceSettings{}, err
	}
	return settings.PriceSettingsFrom(snap), nil
}

// IsStale reports whether a price submitted at submittedAt is past the
// configured expiry.
func (s *PriceTrustService) IsStale(ctx context.Context, submittedAt time.Time) (bool, error) {
	p, err := s.priceSettings(ctx)
	if err != nil {
		return false, err
	}
	return IsStale(submittedAt, s.clock.Now(), p), nil
}

// IsVerified reports whether verifiedCount meets the verification threshold.
func (s *PriceTrustService) IsVerified(ctx context.Context, verifiedCount int) (bool, error) {
	p, err := s.priceSettings(ctx)
	if err != nil {
		return false, err
	}
	return IsVerified(verifiedCount, p), nil
}

// IsWithinDeviation checks newPrice against averagePrice. Without a positive
// average there is no baseline and configuration is not read.
func (s *PriceTrustService) IsWithinDeviation(ctx context.Context, newPrice, averagePrice float64) (bool, error) {
	if averagePrice <= 0 {
		return true, nil
	}
	p, err := s.priceSettings(ctx)
	if err != nil {
		return false, err
	}
	return IsWithinDeviation(newPrice, averagePrice, p), nil
}

// Evaluate runs every predicate on one snapshot so the answers agree with
// each other even if an administrator changes settings meanwhile.
func (s *PriceTrustService) Evaluate(ctx context.Context, obs models.PriceObservation) (TrustReport, error) {
	p, err := s.priceSettings(ctx)
	if err != nil {
		return TrustReport{}, err
	}
	return TrustReport{
		Stale:           IsStale(obs.SubmittedAt, s.clock.Now(), p),
		Verified:        IsVerified(obs.VerifiedCount, p),
		WithinDeviation: IsWithinDeviation(obs.Price, obs.AveragePrice, p),
	}, nil
}

// ValidationRules returns the rules a submission form enforces.
func (s *PriceTrustService) ValidationRules(ctx context.Context) (ValidationRules, error) {
	p, err := s.priceSettings(ctx)
	if err != nil {
		return ValidationRules{}, err
	}
	return ValidationRules{
		RequireReceipt:      p.RequireReceipt,
		AllowAnonymous:      p.AllowAnonymousPrices,
		MaxDeviationPercent: p.MaxPriceDeviation,
	}, nil
}
