package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/vcc-collab-api/internal/errors"
	"github.com/yukikurage/vcc-collab-api/internal/kvstore"
	"github.com/yukikurage/vcc-collab-api/internal/logger"
	"github.com/yukikurage/vcc-collab-api/internal/middleware"
	"github.com/yukikurage/vcc-collab-api/internal/models"
	"github.com/yukikurage/vcc-collab-api/internal/services"
	"go.uber.org/zap"
)

// respondServiceError maps service sentinels to API errors.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMissingFields),
		errors.Is(err, services.ErrInvalidTaskStatus):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrWrongPassword):
		apierrors.InvalidCredentials(c, "")
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrNameTaken),
		errors.Is(err, services.ErrAlreadyMember),
		errors.Is(err, services.ErrAlreadyApplied),
		errors.Is(err, services.ErrAlreadyInvited):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrProjectCompleted),
		errors.Is(err, services.ErrInviteNotPending),
		errors.Is(err, services.ErrCompareLimit):
		apierrors.InvalidOperation(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrApplicantNotFound),
		errors.Is(err, services.ErrInviteNotFound),
		errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrFileNotFound),
		errors.Is(err, services.ErrMemberNotFound),
		errors.Is(err, services.ErrNotificationNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrAIDisabled):
		apierrors.ServiceUnavailable(c, "AI service is not configured. Please set OPENAI_API_KEY environment variable.")
	case errors.Is(err, kvstore.ErrStorage):
		logger.L().Error("storage failure", zap.String("path", c.FullPath()), zap.Error(err))
		apierrors.ServiceUnavailable(c, "Failed to save changes")
	default:
		logger.L().Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		apierrors.InternalError(c, "Internal server error")
	}
}

// currentUser returns the user loaded by RequireAuth, answering 401 when absent.
func currentUser(c *gin.Context) (*models.User, bool) {
	user, ok := middleware.GetUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return nil, false
	}
	return user, true
}

// currentProject returns the project loaded by RequireProjectAccess.
func currentProject(c *gin.Context) (*models.Project, bool) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return nil, false
	}
	return project, true
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}

func queryFloat(c *gin.Context, key string) (float64, bool) {
	v, err := strconv.ParseFloat(c.Query(key), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
