package repository

import (
	"github.com/yukikurage/vcc-collab-api/internal/changebus"
	"github.com/yukikurage/vcc-collab-api/internal/constants"
	"github.com/yukikurage/vcc-collab-api/internal/kvstore"
)

// kvBookmarkRepository keeps one id list per user under "<prefix>:<userID>".
type kvBookmarkRepository struct {
	store  kvstore.Store
	prefix string
	bus    *changebus.Bus
}

// NewSavedRepository creates the per-user saved-projects lists
func NewSavedRepository(store kvstore.Store, bus *changebus.Bus) BookmarkRepository {
	return &kvBookmarkRepository{store: store, prefix: constants.KeySaved, bus: bus}
}

// NewCompareRepository creates the per-user compare-projects lists
func NewCompareRepository(store kvstore.Store, bus *changebus.Bus) BookmarkRepository {
	return &kvBookmarkRepository{store: store, prefix: constants.KeyCompare, bus: bus}
}

func (r *kvBookmarkRepository) list(userID string) *kvListRepository[string] {
	return newKVListRepository[string](r.store, r.prefix+":"+userID, r.bus, changebus.TypeBookmarks)
}

func (r *kvBookmarkRepository) List(userID string) []string {
	return r.list(userID).List()
}

func (r *kvBookmarkRepository) Update(userID string, fn func(ids *[]string) error) ([]string, error) {
	return r.list(userID).Update(fn)
}
