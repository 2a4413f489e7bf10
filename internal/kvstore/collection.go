package kvstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/yukikurage/vcc-collab-api/internal/logger"
	"github.com/yukikurage/vcc-collab-api/internal/metrics"
	"go.uber.org/zap"
)

// Collection is a typed view of the JSON value stored under one key.
//
// Reads never fail: a missing key or an unreadable value yields the zero
// value, and unreadable values are logged. Writes report failures wrapped in
// ErrStorage. Update serializes read-modify-write cycles within the process;
// writers in other processes sharing the store still race, last writer wins.
type Collection[T any] struct {
	store Store
	key   string
	mu    sync.Mutex
	log   *zap.Logger
}

func NewCollection[T any](store Store, key string) *Collection[T] {
	return &Collection[T]{
		store: store,
		key:   key,
		log:   logger.Named("kvstore").With(zap.String("key", key)),
	}
}

// Key returns the collection key.
func (c *Collection[T]) Key() string {
	return c.key
}

// Load reads the current value.
func (c *Collection[T]) Load() T {
	var v T
	raw, err := c.store.Get(c.key)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			metrics.StorageFailures.WithLabelValues("read").Inc()
			c.log.Error("failed to read collection", zap.Error(err))
		}
		return v
	}
	if len(raw) == 0 {
		return v
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		metrics.StorageFailures.WithLabelValues("decode").Inc()
		c.log.Error("failed to decode collection", zap.Error(err))
		var zero T
		return zero
	}
	return v
}

func (c *Collection[T]) save(v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		metrics.StorageFailures.WithLabelValues("encode").Inc()
		c.log.Error("failed to encode collection", zap.Error(err))
		return fmt.Errorf("%w: failed to encode %s: %v", ErrStorage, c.key, err)
	}
	if err := c.store.Set(c.key, raw); err != nil {
		metrics.StorageFailures.WithLabelValues("write").Inc()
		c.log.Error("failed to write collection", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// Clear removes the stored value.
func (c *Collection[T]) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.Remove(c.key); err != nil {
		metrics.StorageFailures.WithLabelValues("remove").Inc()
		c.log.Error("failed to remove collection", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// Update loads the value, applies fn and saves the result while holding the
// collection lock. If fn returns an error nothing is written and the error is
// returned unchanged.
func (c *Collection[T]) Update(fn func(v *T) error) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := c.Load()
	if err := fn(&v); err != nil {
		return v, err
	}
	if err := c.save(v); err != nil {
		return v, err
	}
	return v, nil
}

// Set replaces the stored value.
func (c *Collection[T]) Set(v T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save(v)
}
