package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/vcc-collab-api/internal/constants"
	apierrors "github.com/yukikurage/vcc-collab-api/internal/errors"
	"github.com/yukikurage/vcc-collab-api/internal/models"
)

// ProjectLookup loads projects by id.
type ProjectLookup interface {
	Get(id string) (*models.Project, error)
}

// RequireProjectAccess loads the project named by the :id parameter.
// Projects are public to every logged-in user.
func RequireProjectAccess(projects ProjectLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		project, err := projects.Get(c.Param("id"))
		if err != nil {
			apierrors.NotFound(c, "Project not found")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyProject, project)
		c.Next()
	}
}

// RequireProjectMember allows the owner and every member of the loaded project
func RequireProjectMember() gin.HandlerFunc {
	return requireProjectRole("Only project members can perform this action", func(p *models.Project, name string) bool {
		return p.Owner == name || p.HasMember(name)
	})
}

// RequireProjectManager allows the owner and co-owners of the loaded project
func RequireProjectManager() gin.HandlerFunc {
	return requireProjectRole("Only the project owner or a co-owner can perform this action", IsProjectManager)
}

// IsProjectManager reports whether name may manage the project.
func IsProjectManager(p *models.Project, name string) bool {
	if p.Owner == name {
		return true
	}
	idx := p.FindMember(name)
	return idx >= 0 && p.Members[idx].Role == models.RoleCoOwner
}

func requireProjectRole(message string, allowed func(p *models.Project, name string) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get project from context (set by RequireProjectAccess)
		project, exists := GetProject(c)
		if !exists {
			apierrors.Forbidden(c, "Project access required")
			c.Abort()
			return
		}

		user, exists := GetUser(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if !allowed(project, user.Name) {
			apierrors.Forbidden(c, message)
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetProject retrieves the project loaded by RequireProjectAccess
func GetProject(c *gin.Context) (*models.Project, bool) {
	v, exists := c.Get(constants.ContextKeyProject)
	if !exists {
		return nil, false
	}
	project, ok := v.(*models.Project)
	return project, ok && project != nil
}
