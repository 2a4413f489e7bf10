package repository

import (
	"github.com/yukikurage/vcc-collab-api/internal/changebus"
	"github.com/yukikurage/vcc-collab-api/internal/constants"
	"github.com/yukikurage/vcc-collab-api/internal/kvstore"
	"github.com/yukikurage/vcc-collab-api/internal/models"
)

// NewProjectRepository creates a ProjectRepository stored under the projects key
func NewProjectRepository(store kvstore.Store, bus *changebus.Bus) ProjectRepository {
	return newKVListRepository[models.Project](store, constants.KeyProjects, bus, changebus.TypeProjects)
}
