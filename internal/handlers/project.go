package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/vcc-collab-api/internal/constants"
	"github.com/yukikurage/vcc-collab-api/internal/dto"
	apierrors "github.com/yukikurage/vcc-collab-api/internal/errors"
	"github.com/yukikurage/vcc-collab-api/internal/htmlsanitize"
	"github.com/yukikurage/vcc-collab-api/internal/models"
	"github.com/yukikurage/vcc-collab-api/internal/services"
)

// ProjectHandler serves project lifecycle, membership and matching routes.
type ProjectHandler struct {
	projects   *services.ProjectService
	users      *services.AuthService
	activities *services.ActivityService
	matches    *services.MatchService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projects *services.ProjectService, users *services.AuthService, activities *services.ActivityService, matches *services.MatchService) *ProjectHandler {
	return &ProjectHandler{
		projects:   projects,
		users:      users,
		activities: activities,
		matches:    matches,
	}
}

// ListProjects returns projects filtered by the query string.
//
// search runs the broad keyword search over title, description, skills and
// owner. owner and member list one user's projects. Otherwise q, skill,
// category and sort drive the explore listing.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	var projects []models.Project
	switch {
	case c.Query("search") != "":
		projects = h.projects.Search(c.Query("search"))
	case c.Query("owner") != "":
		projects = h.projects.ListByOwner(c.Query("owner"))
	case c.Query("member") != "":
		projects = h.projects.ListJoined(c.Query("member"))
	default:
		projects = h.projects.Explore(services.ExploreFilter{
			Query:     c.Query("q"),
			Skill:     c.Query("skill"),
			Category:  c.Query("category"),
			SortOrder: c.DefaultQuery("sort", "newest"),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"projects": dto.ToProjectList(projects),
		"total":    len(projects),
	})
}

type projectRequest struct {
	Title             *string  `json:"title"`
	Description       *string  `json:"description"`
	Goal              *string  `json:"goal"`
	Skills            []string `json:"skills"`
	RolesNeeded       []string `json:"rolesNeeded"`
	Outputs           []string `json:"outputs"`
	StartDate         *string  `json:"startDate"`
	EndDate           *string  `json:"endDate"`
	CollaborationType *string  `json:"collaborationType"`
	Thumbnail         *string  `json:"thumbnail"`
}

func sanitized(v *string) *string {
	if v == nil {
		return nil
	}
	s := htmlsanitize.Text(*v)
	return &s
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// CreateProject creates a project owned by the current user
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	title := deref(sanitized(req.Title))
	if title == "" {
		apierrors.BadRequest(c, "Title is required")
		return
	}

	project, err := h.projects.Create(services.CreateProjectInput{
		Title:             title,
		Description:       deref(sanitized(req.Description)),
		Goal:              deref(sanitized(req.Goal)),
		Skills:            htmlsanitize.List(req.Skills),
		RolesNeeded:       htmlsanitize.List(req.RolesNeeded),
		Outputs:           htmlsanitize.List(req.Outputs),
		StartDate:         deref(req.StartDate),
		EndDate:           deref(req.EndDate),
		CollaborationType: deref(sanitized(req.CollaborationType)),
		Thumbnail:         deref(req.Thumbnail),
		Owner:             user.Name,
		OwnerID:           user.ID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// GetProject returns the full project
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, ok := currentProject(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// UpdateProject replaces the editable fields present in the body
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	project, ok := currentProject(c)
	if !ok {
		return
	}

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if req.Title != nil && htmlsanitize.Text(*req.Title) == "" {
		apierrors.BadRequest(c, "Title cannot be empty")
		return
	}

	updated, err := h.projects.Update(project.ID, services.UpdateProjectInput{
		Title:             sanitized(req.Title),
		Description:       sanitized(req.Description),
		Goal:              sanitized(req.Goal),
		Skills:            htmlsanitize.List(req.Skills),
		RolesNeeded:       htmlsanitize.List(req.RolesNeeded),
		Outputs:           htmlsanitize.List(req.Outputs),
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		CollaborationType: sanitized(req.CollaborationType),
		Thumbnail:         req.Thumbnail,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*updated))
}

// CompleteProject marks the project as finished
func (h *ProjectHandler) CompleteProject(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	project, ok := currentProject(c)
	if !ok {
		return
	}

	updated, err := h.projects.Complete(project.ID, user.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*updated))
}

// Apply records the current user's application
func (h *ProjectHandler) Apply(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	project, ok := currentProject(c)
	if !ok {
		return
	}

	type ApplyRequest struct {
		Message string `json:"message"`
	}

	var req ApplyRequest
	// The message is optional, so an empty body is accepted.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	applicant, err := h.projects.AddApplicant(project.ID, services.ApplicantInput{
		Name:    user.Name,
		Message: htmlsanitize.Text(req.Message),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, applicant)
}

// AcceptApplicant turns an applicant into a member
func (h *ProjectHandler) AcceptApplicant(c *gin.Context) {
	project, ok := currentProject(c)
	if !ok {
		return
	}

	updated, err := h.projects.AcceptApplicant(project.ID, c.Param("aid"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*updated))
}

// RejectApplicant drops an application
func (h *ProjectHandler) RejectApplicant(c *gin.Context) {
	project, ok := currentProject(c)
	if !ok {
		return
	}

	updated, err := h.projects.RejectApplicant(project.ID, c.Param("aid"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*updated))
}

// SendInvite invites a registered user to the project
func (h *ProjectHandler) SendInvite(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	project, ok := currentProject(c)
	if !ok {
		return
	}

	type InviteRequest struct {
		ToName  string `json:"toName" binding:"required"`
		Role    string `json:"role"`
		Message string `json:"message"`
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	invitee, err := h.users.GetByName(req.ToName)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	invite, err := h.projects.SendInvite(project.ID, services.InviteInput{
		InvitedBy: user.Name,
		ToName:    invitee.Name,
		Role:      htmlsanitize.Text(req.Role),
		Message:   htmlsanitize.Text(req.Message),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, invite)
}

// AcceptInvite lets the invitee join the project
func (h *ProjectHandler) AcceptInvite(c *gin.Context) {
	h.answerInvite(c, h.projects.AcceptInvite)
}

// RejectInvite lets the invitee decline
func (h *ProjectHandler) RejectInvite(c *gin.Context) {
	h.answerInvite(c, h.projects.RejectInvite)
}

func (h *ProjectHandler) answerInvite(c *gin.Context, answer func(projectID, inviteID string) (*models.Project, error)) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	project, ok := currentProject(c)
	if !ok {
		return
	}

	inviteID := c.Param("iid")
	var invite *models.Invite
	for i := range project.Invites {
		if project.Invites[i].ID == inviteID {
			invite = &project.Invites[i]
			break
		}
	}
	if invite == nil {
		respondServiceError(c, services.ErrInviteNotFound)
		return
	}
	if invite.ToName != user.Name {
		apierrors.Forbidden(c, "Only the invited user can answer this invite")
		return
	}

	updated, err := answer(project.ID, inviteID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*updated))
}

// KickMember removes a member from the project
func (h *ProjectHandler) KickMember(c *gin.Context) {
	project, ok := currentProject(c)
	if !ok {
		return
	}

	updated, err := h.projects.KickMember(project.ID, c.Param("name"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*updated))
}

// PromoteMember makes a member co-owner
func (h *ProjectHandler) PromoteMember(c *gin.Context) {
	project, ok := currentProject(c)
	if !ok {
		return
	}

	updated, err := h.projects.PromoteMember(project.ID, c.Param("name"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*updated))
}

// SetMemberRole assigns a role label to a member
func (h *ProjectHandler) SetMemberRole(c *gin.Context) {
	project, ok := currentProject(c)
	if !ok {
		return
	}

	type RoleRequest struct {
		Role string `json:"role" binding:"required"`
	}

	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.projects.SetMemberRole(project.ID, c.Param("name"), models.MemberRole(htmlsanitize.Text(req.Role)))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*updated))
}

// Candidates ranks users for the project
func (h *ProjectHandler) Candidates(c *gin.Context) {
	project, ok := currentProject(c)
	if !ok {
		return
	}

	minScore, ok := queryFloat(c, "min_score")
	if !ok {
		minScore = constants.DefaultCandidateMinScore
	}
	limit := queryInt(c, "limit", constants.DefaultCandidateLimit)

	candidates, err := h.matches.Candidates(project.ID, limit, minScore)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"candidates": dto.ToCandidateList(candidates),
	})
}

// MatchUser scores one user against the project
func (h *ProjectHandler) MatchUser(c *gin.Context) {
	project, ok := currentProject(c)
	if !ok {
		return
	}

	match, err := h.matches.MatchUser(project.ID, c.Param("name"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, match)
}

// Activities returns the project's activity log
func (h *ProjectHandler) Activities(c *gin.Context) {
	project, ok := currentProject(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"activities": h.activities.ForProject(project.ID),
	})
}
