package repository

import (
	"github.com/yukikurage/vcc-collab-api/internal/changebus"
	"github.com/yukikurage/vcc-collab-api/internal/kvstore"
)

// kvListRepository stores a list under one key and announces every
// successful write on the change bus.
type kvListRepository[T any] struct {
	coll      *kvstore.Collection[[]T]
	bus       *changebus.Bus
	eventType string
}

func newKVListRepository[T any](store kvstore.Store, key string, bus *changebus.Bus, eventType string) *kvListRepository[T] {
	return &kvListRepository[T]{
		coll:      kvstore.NewCollection[[]T](store, key),
		bus:       bus,
		eventType: eventType,
	}
}

func (r *kvListRepository[T]) List() []T {
	items := r.coll.Load()
	if items == nil {
		return []T{}
	}
	return items
}

func (r *kvListRepository[T]) Update(fn func(items *[]T) error) ([]T, error) {
	items, err := r.coll.Update(fn)
	if err != nil {
		return nil, err
	}
	r.bus.PublishCount(r.eventType, len(items))
	return items, nil
}
