package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/FoxxDev-Collab/pricefeed-app/internal/models"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/repository"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/settings"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultThresholds = settings.ReputationSettings{
	LevelBronze:   100,
	LevelSilver:   500,
	LevelGold:     1000,
	LevelPlatinum: 5000,
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		points int
		want   string
	}{
		{0, TierNewcomer},
		{99, TierNewcomer},
		{100, TierBronze},
		{499, TierBronze},
		{500, TierSilver},
		{1000, TierGold},
		{4999, TierGold},
		{5000, TierPlatinum},
		{1 << 30, TierPlatinum},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFor(tt.points, defaultThresholds), "points=%d", tt.points)
	}
}

func TestLevelForIsMonotonic(t *testing.T) {
	order := map[string]int{TierNewcomer: 0, TierBronze: 1, TierSilver: 2, TierGold: 3, TierPlatinum: 4}
	threshold := []settings.ReputationSettings{
		defaultThresholds,
		{LevelBronze: 10, LevelSilver: 10, LevelGold: 20, LevelPlatinum: 30},
		{LevelBronze: 500, LevelSilver: 100, LevelGold: 1000, LevelPlatinum: 50},
	}
	for _, r := range threshold {
		prev := -1
		for p := 0; p <= 6000; p++ {
			rank := order[LevelFor(p, r)]
			require.GreaterOrEqual(t, rank, prev, "points=%d thresholds=%+v", p, r)
			prev = rank
		}
	}
}

func TestProgressFor(t *testing.T) {
	p := ProgressFor(300, defaultThresholds)
	assert.Equal(t, TierBronze, p.Level)
	require.NotNil(t, p.NextLevel)
	assert.Equal(t, TierSilver, *p.NextLevel)
	assert.Equal(t, 200, p.PointsToNext)
	assert.Equal(t, 50, p.ProgressPercent)

	p = ProgressFor(0, defaultThresholds)
	assert.Equal(t, TierNewcomer, p.Level)
	assert.Equal(t, 0, p.ProgressPercent)
	assert.Equal(t, 100, p.PointsToNext)

	p = ProgressFor(2, settings.ReputationSettings{LevelBronze: 3, LevelSilver: 6, LevelGold: 9, LevelPlatinum: 12})
	assert.Equal(t, 67, p.ProgressPercent, "rounded to the nearest percent")

	p = ProgressFor(-5, defaultThresholds)
	assert.Equal(t, TierNewcomer, p.Level)
	assert.Equal(t, 0, p.ProgressPercent, "negative totals do not go below zero")
	assert.Equal(t, 105, p.PointsToNext)

	p = ProgressFor(50, settings.ReputationSettings{LevelBronze: 0, LevelSilver: 0, LevelGold: 0, LevelPlatinum: 100})
	assert.GreaterOrEqual(t, p.ProgressPercent, 0)
	assert.LessOrEqual(t, p.ProgressPercent, 100)

	p = ProgressFor(7000, defaultThresholds)
	assert.Equal(t, TierPlatinum, p.Level)
	assert.Nil(t, p.NextLevel)
	assert.Equal(t, 0, p.PointsToNext)
	assert.Equal(t, 100, p.ProgressPercent)
}

func (f *fixture) reputation() *ReputationService {
	return NewReputationService(f.users, f.store, time.Second)
}

func TestReputationService_AdminChangeThenAward(t *testing.T) {
	f := newFixture(t, map[string]string{"points_price_submission": "2"})
	svc := f.reputation()
	admin := NewSettingsService(&sourceBackedRepo{src: f.src}, f.store, nil, nil, "test")
	ctx := context.Background()
	id := f.users.CreateUser()

	assert.Equal(t, 2, svc.AddPoints(ctx, id, ActionPriceSubmission))

	require.NoError(t, admin.UpdateSetting(ctx, "points_price_submission", "5"))

	assert.Equal(t, 5, svc.AddPoints(ctx, id, ActionPriceSubmission))
	assert.Equal(t, 7, f.users.Points(id))
	assert.Equal(t, 5, svc.AddPoints(ctx, id, ActionPriceSubmission))
	assert.Equal(t, 12, f.users.Points(id), "each award adds again")
}

func TestReputationService_AddPointsPerAction(t *testing.T) {
	f := newFixture(t, nil)
	svc := f.reputation()
	id := f.users.CreateUser()
	ctx := context.Background()

	assert.Equal(t, 5, svc.AddPoints(ctx, id, ActionPriceSubmission))
	assert.Equal(t, 2, svc.AddPoints(ctx, id, ActionVerification))
	assert.Equal(t, 10, svc.AddPoints(ctx, id, ActionStoreAdded))
	assert.Equal(t, 3, svc.AddPoints(ctx, id, ActionItemAdded))
	assert.Equal(t, 20, f.users.Points(id))

	assert.Equal(t, 0, svc.AddPoints(ctx, id, ReputationAction("spam")))
	assert.Equal(t, 20, f.users.Points(id))
}

func TestReputationService_NonPositiveIsNoop(t *testing.T) {
	f := newFixture(t, map[string]string{"points_verification": "0", "points_item_added": "-4"})
	svc := f.reputation()
	id := f.users.CreateUser()

	assert.Equal(t, 0, svc.AddPoints(context.Background(), id, ActionVerification))
	assert.Equal(t, 0, svc.AddPoints(context.Background(), id, ActionItemAdded))
	assert.Equal(t, 0, f.users.AddCalls)
}

func TestReputationService_FailuresAreSwallowed(t *testing.T) {
	f := newFixture(t, nil)
	svc := f.reputation()
	id := f.users.CreateUser()
	f.users.AddErr = errors.New("deadlock")

	assert.NotPanics(t, func() {
		assert.Equal(t, 0, svc.AddPoints(context.Background(), id, ActionStoreAdded))
	})
	assert.Equal(t, 1, f.users.AddCalls)

	f2 := newFixture(t, nil)
	f2.src.SetLoadError(errors.New("db down"))
	assert.Equal(t, 0, f2.reputation().AddPoints(context.Background(), f2.users.CreateUser(), ActionStoreAdded))
}

func TestReputationService_AwardSurvivesCancelledRequest(t *testing.T) {
	f := newFixture(t, nil)
	svc := f.reputation()
	id := f.users.CreateUser()
	require.NoError(t, f.store.Warm(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, 10, svc.AddPoints(ctx, id, ActionStoreAdded))
	assert.Equal(t, 10, f.users.Points(id))
}

func TestReputationService_ConcurrentAwards(t *testing.T) {
	f := newFixture(t, nil)
	svc := f.reputation()
	id := f.users.CreateUser()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.AddPoints(context.Background(), id, ActionVerification)
		}()
	}
	wg.Wait()
	assert.Equal(t, 200, f.users.Points(id))
}

func TestReputationService_UserLevel(t *testing.T) {
	f := newFixture(t, map[string]string{"level_bronze": "10"})
	svc := f.reputation()
	id := f.users.CreateUser()
	ctx := context.Background()

	svc.AddPoints(ctx, id, ActionStoreAdded)
	p, err := svc.UserLevel(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, TierBronze, p.Level)
	assert.Equal(t, 10, p.Points)

	lvl, err := svc.Level(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, TierNewcomer, lvl)

	_, err = svc.UserLevel(ctx, uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestParseReputationAction(t *testing.T) {
	a, err := ParseReputationAction("store_added")
	require.NoError(t, err)
	assert.Equal(t, ActionStoreAdded, a)

	_, err = ParseReputationAction("login")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

// sourceBackedRepo lets SettingsService write through to the mock source the
// store reads from.
type sourceBackedRepo struct {
	src interface {
		LoadAll(ctx context.Context) ([]models.SettingEntry, error)
		Set(key, value string)
	}
	mu sync.Mutex
}

func (r *sourceBackedRepo) LoadAll(ctx context.Context) ([]models.SettingEntry, error) {
	return r.src.LoadAll(ctx)
}

func (r *sourceBackedRepo) GetSetting(ctx context.Context, key string) (*models.SettingEntry, error) {
	entries, err := r.src.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.Key == key {
			return &e, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *sourceBackedRepo) ListByCategory(ctx context.Context, category string) ([]models.SettingEntry, error) {
	entries, err := r.src.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.SettingEntry
	for _, e := range entries {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *sourceBackedRepo) UpdateOne(ctx context.Context, key, value string) error {
	if _, err := r.GetSetting(ctx, key); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.src.Set(key, value)
	return nil
}

func (r *sourceBackedRepo) UpdateMany(ctx context.Context, updates []models.SettingUpdate) error {
	for _, u := range updates {
		if _, err := r.GetSetting(ctx, u.Key); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range updates {
		r.src.Set(u.Key, u.Value)
	}
	return nil
}

var _ SettingsRepository = (*sourceBackedRepo)(nil)
var _ SettingsRepository = (*repository.SystemSettingsRepository)(nil)
var _ SettingsRepository = (*testutil.MemorySettingsRepo)(nil)
