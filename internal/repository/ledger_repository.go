package repository

import (
	"github.com/yukikurage/vcc-collab-api/internal/changebus"
	"github.com/yukikurage/vcc-collab-api/internal/constants"
	"github.com/yukikurage/vcc-collab-api/internal/kvstore"
	"github.com/yukikurage/vcc-collab-api/internal/models"
)

// NewNotificationRepository creates a NotificationRepository stored under the notifications key
func NewNotificationRepository(store kvstore.Store, bus *changebus.Bus) NotificationRepository {
	return newKVListRepository[models.Notification](store, constants.KeyNotifications, bus, changebus.TypeNotifications)
}

// NewActivityRepository creates an ActivityRepository stored under the activities key
func NewActivityRepository(store kvstore.Store, bus *changebus.Bus) ActivityRepository {
	return newKVListRepository[models.Activity](store, constants.KeyActivities, bus, changebus.TypeActivities)
}
