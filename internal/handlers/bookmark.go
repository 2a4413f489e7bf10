package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/vcc-collab-api/internal/dto"
	"github.com/yukikurage/vcc-collab-api/internal/services"
)

// BookmarkHandler serves the caller's saved and compare lists.
type BookmarkHandler struct {
	bookmarks *services.BookmarkService
	projects  *services.ProjectService
}

func NewBookmarkHandler(bookmarks *services.BookmarkService, projects *services.ProjectService) *BookmarkHandler {
	return &BookmarkHandler{bookmarks: bookmarks, projects: projects}
}

// ListSaved returns the saved ids and the projects they resolve to
func (h *BookmarkHandler) ListSaved(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ids":      h.bookmarks.Saved(user.ID),
		"projects": dto.ToProjectList(h.bookmarks.SavedProjects(user.ID)),
	})
}

// ToggleSaved adds or removes a project from the saved list
func (h *BookmarkHandler) ToggleSaved(c *gin.Context) {
	h.toggle(c, h.bookmarks.ToggleSaved)
}

// ClearSaved empties the saved list
func (h *BookmarkHandler) ClearSaved(c *gin.Context) {
	h.clear(c, h.bookmarks.ClearSaved)
}

// ListCompare returns the compare ids and the projects they resolve to
func (h *BookmarkHandler) ListCompare(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ids":      h.bookmarks.Compare(user.ID),
		"projects": dto.ToProjectList(h.bookmarks.CompareProjects(user.ID)),
	})
}

// ToggleCompare adds or removes a project from the compare list
func (h *BookmarkHandler) ToggleCompare(c *gin.Context) {
	h.toggle(c, h.bookmarks.ToggleCompare)
}

// ClearCompare empties the compare list
func (h *BookmarkHandler) ClearCompare(c *gin.Context) {
	h.clear(c, h.bookmarks.ClearCompare)
}

func (h *BookmarkHandler) toggle(c *gin.Context, fn func(userID, projectID string) (bool, error)) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if _, err := h.projects.Get(id); err != nil {
		respondServiceError(c, err)
		return
	}

	added, err := fn(user.ID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "added": added})
}

func (h *BookmarkHandler) clear(c *gin.Context, fn func(userID string) error) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := fn(user.ID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ids": []string{}})
}
