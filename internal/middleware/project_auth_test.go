package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/yukikurage/vcc-collab-api/internal/constants"
	"github.com/yukikurage/vcc-collab-api/internal/models"
)

type stubProjects map[string]models.Project

func (s stubProjects) Get(id string) (*models.Project, error) {
	p, ok := s[id]
	if !ok {
		return nil, errors.New("project not found")
	}
	return &p, nil
}

func testProject() models.Project {
	return models.Project{
		ID:    "p1",
		Owner: "alice",
		Members: []models.Member{
			{Name: "bob", Role: models.RoleCoOwner},
			{Name: "carol", Role: models.RoleMember},
		},
	}
}

func TestIsProjectManager(t *testing.T) {
	p := testProject()

	assert.True(t, IsProjectManager(&p, "alice"))
	assert.True(t, IsProjectManager(&p, "bob"))
	assert.False(t, IsProjectManager(&p, "carol"))
	assert.False(t, IsProjectManager(&p, "dave"))
}

func TestProjectRoleMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	projects := stubProjects{"p1": testProject()}

	cases := []struct {
		name       string
		user       string
		projectID  string
		middleware gin.HandlerFunc
		want       int
	}{
		{"owner manages", "alice", "p1", RequireProjectManager(), http.StatusOK},
		{"co-owner manages", "bob", "p1", RequireProjectManager(), http.StatusOK},
		{"member cannot manage", "carol", "p1", RequireProjectManager(), http.StatusForbidden},
		{"member works", "carol", "p1", RequireProjectMember(), http.StatusOK},
		{"outsider cannot work", "dave", "p1", RequireProjectMember(), http.StatusForbidden},
		{"unknown project", "alice", "nope", RequireProjectMember(), http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.Use(func(c *gin.Context) {
				c.Set(constants.ContextKeyUser, &models.User{Name: tc.user})
			})
			r.GET("/projects/:id", RequireProjectAccess(projects), tc.middleware, func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/projects/"+tc.projectID, nil))
			assert.Equal(t, tc.want, w.Code)
		})
	}
}
