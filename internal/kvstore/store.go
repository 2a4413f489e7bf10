// Package kvstore is the persisted key-value substrate every collection lives
// in. Values are JSON documents addressed by collection key.
package kvstore

import "errors"

var (
	// ErrKeyNotFound is returned by Get when nothing is stored under the key.
	ErrKeyNotFound = errors.New("kvstore: key not found")
	// ErrStorage marks a failed primary write surfaced to callers.
	ErrStorage = errors.New("storage failure")
)

// Store is a flat key to JSON document store.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Remove(key string) error
	// Keys lists stored keys starting with prefix, sorted.
	Keys(prefix string) ([]string, error)
}
