// Package changebus broadcasts "something changed, re-read it" signals for
// the persisted collections. Delivery is asynchronous and best effort;
// events carry a summary, never the changed data itself.
package changebus

import (
	"strings"
	"time"

	"github.com/juju/clock"
	"github.com/juju/loggo"
	"github.com/juju/pubsub/v2"
	"github.com/yukikurage/vcc-collab-api/internal/metrics"
)

const (
	// UpdateTopic carries collection change events.
	UpdateTopic = "vcc_update"
	// StorageTopic carries raw key writes observed on the store.
	StorageTopic = "storage"
)

// Collection types carried in Event.Type.
const (
	TypeProjects      = "projects"
	TypeNotifications = "notifications"
	TypeActivities    = "activities"
	TypeUsers         = "users"
	TypeSession       = "session"
	TypeProfile       = "profile"
	TypeBookmarks     = "bookmarks"
)

type Event struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// Summary is the payload published after a collection write.
type Summary struct {
	Count int `json:"count"`
}

type StorageChange struct {
	Key string `json:"key"`
}

type Bus struct {
	hub   *pubsub.SimpleHub
	clock clock.Clock
}

// New creates a Bus stamping events with clk.
func New(clk clock.Clock) *Bus {
	if clk == nil {
		clk = clock.WallClock
	}
	return &Bus{
		hub: pubsub.NewSimpleHub(&pubsub.SimpleHubConfig{
			Logger: loggo.GetLogger("vcc.changebus"),
		}),
		clock: clk,
	}
}

// Publish announces a change of the collection named by typ.
func (b *Bus) Publish(typ string, payload interface{}) {
	if b == nil {
		return
	}
	metrics.ChangeEvents.WithLabelValues(typ).Inc()
	b.hub.Publish(UpdateTopic, Event{
		Type:      typ,
		Payload:   payload,
		Timestamp: b.clock.Now(),
	})
}

// PublishCount announces a change of a collection now holding n records.
func (b *Bus) PublishCount(typ string, n int) {
	b.Publish(typ, Summary{Count: n})
}

// Subscribe registers fn for every change event. The returned func unsubscribes.
func (b *Bus) Subscribe(fn func(Event)) func() {
	return b.hub.Subscribe(UpdateTopic, func(_ string, data interface{}) {
		if ev, ok := data.(Event); ok {
			fn(ev)
		}
	})
}

// PublishStorage announces a raw write of key.
func (b *Bus) PublishStorage(key string) {
	if b == nil {
		return
	}
	b.hub.Publish(StorageTopic, StorageChange{Key: key})
}

// SubscribeStorage registers fn for raw writes of keys starting with prefix.
func (b *Bus) SubscribeStorage(prefix string, fn func(StorageChange)) func() {
	return b.hub.Subscribe(StorageTopic, func(_ string, data interface{}) {
		change, ok := data.(StorageChange)
		if !ok || !strings.HasPrefix(change.Key, prefix) {
			return
		}
		fn(change)
	})
}
