// Package events broadcasts settings changes between server instances.
//
// Without a broker every instance relies on its own cache TTL, so a change
// made on one instance reaches the others within one TTL window. With NATS
// configured, the instance that wrote the change announces it and the others
// drop their cached snapshot immediately.
package events

import (
	"context"
	"time"
)

// TopicSettingsInvalidated carries SettingsInvalidated events.
const TopicSettingsInvalidated = "pricefeed.settings.invalidated"

// SettingsInvalidated announces that settings rows were written.
type SettingsInvalidated struct {
	Keys   []string  `json:"keys"`
	Origin string    `json:"origin"` // instance id of the writer
	At     time.Time `json:"at"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
