package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/vcc-collab-api/internal/catalog"
	"github.com/yukikurage/vcc-collab-api/internal/constants"
	apierrors "github.com/yukikurage/vcc-collab-api/internal/errors"
	"github.com/yukikurage/vcc-collab-api/internal/htmlsanitize"
	"github.com/yukikurage/vcc-collab-api/internal/models"
	"github.com/yukikurage/vcc-collab-api/internal/recommend"
	"github.com/yukikurage/vcc-collab-api/internal/services"
)

// FeedHandler serves the per-user views: notifications, activity,
// invitations, assigned tasks and recommendations.
type FeedHandler struct {
	notifications   *services.NotificationService
	activities      *services.ActivityService
	projects        *services.ProjectService
	recommendations *services.RecommendationService
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(
	notifications *services.NotificationService,
	activities *services.ActivityService,
	projects *services.ProjectService,
	recommendations *services.RecommendationService,
) *FeedHandler {
	return &FeedHandler{
		notifications:   notifications,
		activities:      activities,
		projects:        projects,
		recommendations: recommendations,
	}
}

// ListNotifications returns the caller's notifications, newest first
func (h *FeedHandler) ListNotifications(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": h.notifications.ForUser(user.Name),
		"unreadCount":   h.notifications.UnreadCount(user.Name),
	})
}

// MarkNotificationRead marks one of the caller's notifications as read
func (h *FeedHandler) MarkNotificationRead(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id := c.Param("nid")
	owned := false
	for _, n := range h.notifications.ForUser(user.Name) {
		if n.ID == id {
			owned = true
			break
		}
	}
	if !owned {
		respondServiceError(c, services.ErrNotificationNotFound)
		return
	}

	if err := h.notifications.MarkRead(id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// MarkAllNotificationsRead marks every notification of the caller as read
func (h *FeedHandler) MarkAllNotificationsRead(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.notifications.MarkAllRead(user.Name); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

// ListActivities returns the activity the caller took part in
func (h *FeedHandler) ListActivities(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"activities": h.activities.ForUser(user.Name)})
}

// ListInvitations returns the invites addressed to the caller
func (h *FeedHandler) ListInvitations(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"invitations": h.projects.InvitationsForUser(user.Name)})
}

// ListAssignedTasks returns tasks assigned to the caller across projects
func (h *FeedHandler) ListAssignedTasks(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": h.projects.TasksAssignedTo(user.Name)})
}

// Recommendations ranks projects for the caller
func (h *FeedHandler) Recommendations(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	opts := recommend.Options{
		Limit:              queryInt(c, "limit", constants.DefaultRecommendationLimit),
		IncludeOwnProjects: c.Query("include_own") == "true",
	}
	if minScore, ok := queryFloat(c, "min_score"); ok {
		opts.MinScore = &minScore
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":         h.recommendations.ProfileFor(user),
		"recommendations": h.recommendations.Recommend(user, opts),
	})
}

// SaveProfile stores the fallback profile used for ranking
func (h *FeedHandler) SaveProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	type ProfileRequest struct {
		Skills    []string `json:"skills"`
		Interests []string `json:"interests"`
	}

	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	profile := models.UserProfile{
		Name:      user.Name,
		Skills:    htmlsanitize.List(req.Skills),
		Interests: htmlsanitize.List(req.Interests),
	}
	if err := h.recommendations.SaveProfile(profile); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// ListSkills returns the categorized skill catalogue
func ListSkills(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": catalog.Categories(),
		"skills":     catalog.AllSkills(),
	})
}
