// Package services holds the policy code that reads dynamic configuration:
// account lockout, reputation and price trust, plus administrative settings
// writes and the scheduled jobs around them.
package services

import (
	"context"

	"github.com/FoxxDev-Collab/pricefeed-app/internal/settings"
)

// SnapshotProvider hands out consistent configuration snapshots.
// *settings.Store implements it.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) (*settings.Snapshot, error)
}
