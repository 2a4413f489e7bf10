package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/vcc-collab-api/internal/dto"
	apierrors "github.com/yukikurage/vcc-collab-api/internal/errors"
	"github.com/yukikurage/vcc-collab-api/internal/htmlsanitize"
	"github.com/yukikurage/vcc-collab-api/internal/models"
	"github.com/yukikurage/vcc-collab-api/internal/services"
)

// UserHandler serves the user directory.
type UserHandler struct {
	users *services.AuthService
}

func NewUserHandler(users *services.AuthService) *UserHandler {
	return &UserHandler{users: users}
}

// ListUsers searches users by name, email or skill
func (h *UserHandler) ListUsers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"users": dto.ToPublicUserDTOs(h.users.Search(c.Query("q"))),
	})
}

// GetUser returns a user profile by name
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.users.GetByName(c.Param("name"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPublicUserDTO(*user))
}

// UpdateProfile replaces the profile fields present in the body
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	type UpdateProfileRequest struct {
		Skills      []string            `json:"skills"`
		Bio         *string             `json:"bio"`
		Experiences []models.Experience `json:"experiences"`
		Links       models.Links        `json:"links"`
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateProfileInput{
		Skills:      htmlsanitize.List(req.Skills),
		Experiences: req.Experiences,
		Links:       req.Links,
	}
	if req.Bio != nil {
		bio := htmlsanitize.Text(*req.Bio)
		input.Bio = &bio
	}
	for i := range input.Experiences {
		e := &input.Experiences[i]
		e.Title = htmlsanitize.Text(e.Title)
		e.Role = htmlsanitize.Text(e.Role)
		e.Description = htmlsanitize.Text(e.Description)
	}

	updated, err := h.users.UpdateProfile(user.ID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*updated))
}
