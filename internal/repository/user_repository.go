package repository

import (
	"github.com/yukikurage/vcc-collab-api/internal/changebus"
	"github.com/yukikurage/vcc-collab-api/internal/constants"
	"github.com/yukikurage/vcc-collab-api/internal/kvstore"
	"github.com/yukikurage/vcc-collab-api/internal/models"
)

// NewUserRepository creates a UserRepository stored under the users key
func NewUserRepository(store kvstore.Store, bus *changebus.Bus) UserRepository {
	return newKVListRepository[models.User](store, constants.KeyUsers, bus, changebus.TypeUsers)
}

// KVSessionRepository keeps the current-user pointer in the store
type KVSessionRepository struct {
	coll *kvstore.Collection[*models.User]
	bus  *changebus.Bus
}

// NewSessionRepository creates a SessionRepository stored under the current-user key
func NewSessionRepository(store kvstore.Store, bus *changebus.Bus) SessionRepository {
	return &KVSessionRepository{
		coll: kvstore.NewCollection[*models.User](store, constants.KeyCurrentUser),
		bus:  bus,
	}
}

func (r *KVSessionRepository) Current() *models.User {
	return r.coll.Load()
}

func (r *KVSessionRepository) Set(user *models.User) error {
	if err := r.coll.Set(user); err != nil {
		return err
	}
	r.bus.Publish(changebus.TypeSession, nil)
	return nil
}

func (r *KVSessionRepository) Clear() error {
	if err := r.coll.Clear(); err != nil {
		return err
	}
	r.bus.Publish(changebus.TypeSession, nil)
	return nil
}
