package repository

import (
	"github.com/yukikurage/vcc-collab-api/internal/changebus"
	"github.com/yukikurage/vcc-collab-api/internal/constants"
	"github.com/yukikurage/vcc-collab-api/internal/kvstore"
	"github.com/yukikurage/vcc-collab-api/internal/models"
)

// KVProfileRepository keeps the recommendation profile in the store
type KVProfileRepository struct {
	coll *kvstore.Collection[*models.UserProfile]
	bus  *changebus.Bus
}

// NewProfileRepository creates a ProfileRepository stored under the profile key
func NewProfileRepository(store kvstore.Store, bus *changebus.Bus) ProfileRepository {
	return &KVProfileRepository{
		coll: kvstore.NewCollection[*models.UserProfile](store, constants.KeyUserProfile),
		bus:  bus,
	}
}

func (r *KVProfileRepository) Get() *models.UserProfile {
	return r.coll.Load()
}

func (r *KVProfileRepository) Save(profile models.UserProfile) error {
	if err := r.coll.Set(&profile); err != nil {
		return err
	}
	r.bus.Publish(changebus.TypeProfile, nil)
	return nil
}
