package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/vcc-collab-api/internal/errors"
	"github.com/yukikurage/vcc-collab-api/internal/htmlsanitize"
	"github.com/yukikurage/vcc-collab-api/internal/services"
)

// WorkspaceHandler serves a project's shared files and chat.
type WorkspaceHandler struct {
	projects *services.ProjectService
}

func NewWorkspaceHandler(projects *services.ProjectService) *WorkspaceHandler {
	return &WorkspaceHandler{projects: projects}
}

// ListFiles returns the shared files
func (h *WorkspaceHandler) ListFiles(c *gin.Context) {
	project, ok := currentProject(c)
	if !ok {
		return
	}

	files, err := h.projects.Files(project.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"files": files})
}

// UploadFile shares a file given as a data URL
func (h *WorkspaceHandler) UploadFile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	project, ok := currentProject(c)
	if !ok {
		return
	}

	type UploadRequest struct {
		Name string `json:"name" binding:"required"`
		Type string `json:"type"`
		Data string `json:"data" binding:"required"`
	}

	var req UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	file, err := h.projects.AddFile(project.ID, services.FileInput{
		Name:       htmlsanitize.Text(req.Name),
		Type:       req.Type,
		Data:       req.Data,
		UploadedBy: user.Name,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, file)
}

// DeleteFile removes a shared file
func (h *WorkspaceHandler) DeleteFile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	project, ok := currentProject(c)
	if !ok {
		return
	}

	if err := h.projects.DeleteFile(project.ID, c.Param("fid"), user.Name); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
}

// ListMessages returns the project chat
func (h *WorkspaceHandler) ListMessages(c *gin.Context) {
	project, ok := currentProject(c)
	if !ok {
		return
	}

	messages, err := h.projects.Messages(project.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// SendMessage posts to the project chat
func (h *WorkspaceHandler) SendMessage(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	project, ok := currentProject(c)
	if !ok {
		return
	}

	type MessageRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	text := htmlsanitize.Text(req.Text)
	if text == "" {
		apierrors.BadRequest(c, "Message cannot be empty")
		return
	}

	message, err := h.projects.AddMessage(project.ID, user.Name, text)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}
