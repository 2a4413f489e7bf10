package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/vcc-collab-api/internal/errors"
	"github.com/yukikurage/vcc-collab-api/internal/htmlsanitize"
	"github.com/yukikurage/vcc-collab-api/internal/models"
	"github.com/yukikurage/vcc-collab-api/internal/services"
)

// TaskHandler serves a project's task board.
type TaskHandler struct {
	projects  *services.ProjectService
	aiService *services.AIService
}

// NewTaskHandler creates a new TaskHandler. aiService may be nil.
func NewTaskHandler(projects *services.ProjectService, aiService *services.AIService) *TaskHandler {
	return &TaskHandler{
		projects:  projects,
		aiService: aiService,
	}
}

// assignable reports whether name may hold tasks in the project.
func assignable(p *models.Project, name string) bool {
	return name == "" || p.Owner == name || p.HasMember(name)
}

// CreateTask adds a task to the board
func (h *TaskHandler) CreateTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	project, ok := currentProject(c)
	if !ok {
		return
	}

	type CreateTaskRequest struct {
		Title       string            `json:"title" binding:"required"`
		Description string            `json:"description"`
		DueDate     string            `json:"dueDate"`
		AssignedTo  string            `json:"assignedTo"`
		Status      models.TaskStatus `json:"status"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if !assignable(project, req.AssignedTo) {
		apierrors.BadRequest(c, "Tasks can only be assigned to project members")
		return
	}

	task, err := h.projects.AddTask(project.ID, services.TaskInput{
		Title:       htmlsanitize.Text(req.Title),
		Description: htmlsanitize.Text(req.Description),
		DueDate:     req.DueDate,
		AssignedTo:  req.AssignedTo,
		Status:      req.Status,
		CreatedBy:   user.Name,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// UpdateTask edits the fields present in the body
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	project, ok := currentProject(c)
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Title       *string            `json:"title"`
		Description *string            `json:"description"`
		DueDate     *string            `json:"dueDate"`
		AssignedTo  *string            `json:"assignedTo"`
		Status      *models.TaskStatus `json:"status"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if req.AssignedTo != nil && !assignable(project, *req.AssignedTo) {
		apierrors.BadRequest(c, "Tasks can only be assigned to project members")
		return
	}

	task, err := h.projects.UpdateTask(project.ID, c.Param("tid"), services.UpdateTaskInput{
		Title:       sanitized(req.Title),
		Description: sanitized(req.Description),
		DueDate:     req.DueDate,
		AssignedTo:  req.AssignedTo,
		Status:      req.Status,
		UpdatedBy:   user.Name,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// DeleteTask removes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	project, ok := currentProject(c)
	if !ok {
		return
	}

	if err := h.projects.DeleteTask(project.ID, c.Param("tid"), user.Name); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// ChangeStatus moves a task to another column
func (h *TaskHandler) ChangeStatus(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	project, ok := currentProject(c)
	if !ok {
		return
	}

	type StatusRequest struct {
		Status models.TaskStatus `json:"status" binding:"required"`
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.projects.ChangeTaskStatus(project.ID, c.Param("tid"), req.Status, user.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// AssignTask hands a task to a member
func (h *TaskHandler) AssignTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	project, ok := currentProject(c)
	if !ok {
		return
	}

	type AssignRequest struct {
		AssignedTo string `json:"assignedTo"`
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if !assignable(project, req.AssignedTo) {
		apierrors.BadRequest(c, "Tasks can only be assigned to project members")
		return
	}

	task, err := h.projects.AssignTask(project.ID, c.Param("tid"), req.AssignedTo, user.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// GenerateTasks drafts tasks for the project with the AI service. Drafts are
// returned for review and not stored.
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	project, ok := currentProject(c)
	if !ok {
		return
	}

	// Check if AI service is available
	if h.aiService == nil || !h.aiService.Enabled() {
		respondServiceError(c, services.ErrAIDisabled)
		return
	}

	drafts, err := h.aiService.DraftTasks(c.Request.Context(), *project)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": drafts,
	})
}
