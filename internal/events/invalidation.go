package events

import (
	"encoding/json"
	"fmt"

	"github.com/FoxxDev-Collab/pricefeed-app/pkg/debug"
)

// Invalidator drops a cached settings snapshot. *settings.Store implements it.
type Invalidator interface {
	Invalidate()
}

// Subscriber is the subscription side needed by the invalidation listener.
type Subscriber interface {
	Subscribe(topic string, handler func(data []byte)) (func(), error)
}

// ListenForInvalidations invalidates store whenever another instance
// announces a settings write. Announcements from origin itself are ignored,
// since that instance invalidated locally when it wrote. The returned
// function stops listening.
func ListenForInvalidations(sub Subscriber, origin string, store Invalidator) (func(), error) {
	log := debug.With("events")
	cancel, err := sub.Subscribe(TopicSettingsInvalidated, func(data []byte) {
		var evt SettingsInvalidated
		if err := json.Unmarshal(data, &evt); err != nil {
			log.Warning("Discarding malformed settings invalidation: %v", err)
			return
		}
		if evt.Origin == origin {
			return
		}
		log.Info("Settings changed on instance %s (%d keys), invalidating local cache", evt.Origin, len(evt.Keys))
		store.Invalidate()
	})
	if err != nil {
		return nil, fmt.Errorf("listening for settings invalidations: %w", err)
	}
	return cancel, nil
}
