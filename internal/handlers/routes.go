package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yukikurage/vcc-collab-api/internal/middleware"
	"github.com/yukikurage/vcc-collab-api/internal/services"
)

// Services bundles what the HTTP layer talks to. AI may be nil.
type Services struct {
	Auth            *services.AuthService
	Projects        *services.ProjectService
	Notifications   *services.NotificationService
	Activities      *services.ActivityService
	Matches         *services.MatchService
	Recommendations *services.RecommendationService
	Bookmarks       *services.BookmarkService
	AI              *services.AIService
}

// RegisterRoutes mounts the health, metrics and API routes on r. Session
// middleware must already be installed.
func RegisterRoutes(r *gin.Engine, svc Services) {
	authHandler := NewAuthHandler(svc.Auth)
	userHandler := NewUserHandler(svc.Auth)
	projectHandler := NewProjectHandler(svc.Projects, svc.Auth, svc.Activities, svc.Matches)
	taskHandler := NewTaskHandler(svc.Projects, svc.AI)
	workspaceHandler := NewWorkspaceHandler(svc.Projects)
	feedHandler := NewFeedHandler(svc.Notifications, svc.Activities, svc.Projects, svc.Recommendations)
	bookmarkHandler := NewBookmarkHandler(svc.Bookmarks, svc.Projects)

	requireAuth := middleware.RequireAuth(svc.Auth)
	loadProject := middleware.RequireProjectAccess(svc.Projects)
	member := middleware.RequireProjectMember()
	manager := middleware.RequireProjectManager()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "VCC Collaboration API is running",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
		}

		api.GET("/skills", ListSkills)

		users := api.Group("/users")
		users.Use(requireAuth)
		{
			users.GET("", userHandler.ListUsers)
			users.PUT("/me/profile", userHandler.UpdateProfile)
			users.GET("/:name", userHandler.GetUser)
		}

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(requireAuth)
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", projectHandler.CreateProject)

			project := projects.Group("/:id", loadProject)
			{
				project.GET("", projectHandler.GetProject)
				project.PUT("", manager, projectHandler.UpdateProject)
				project.POST("/complete", manager, projectHandler.CompleteProject)
				project.GET("/activities", projectHandler.Activities)
				project.GET("/candidates", projectHandler.Candidates)
				project.GET("/match/:name", projectHandler.MatchUser)

				project.POST("/applicants", projectHandler.Apply)
				project.POST("/applicants/:aid/accept", manager, projectHandler.AcceptApplicant)
				project.POST("/applicants/:aid/reject", manager, projectHandler.RejectApplicant)

				project.POST("/invites", manager, projectHandler.SendInvite)
				project.POST("/invites/:iid/accept", projectHandler.AcceptInvite)
				project.POST("/invites/:iid/reject", projectHandler.RejectInvite)

				project.DELETE("/members/:name", manager, projectHandler.KickMember)
				project.POST("/members/:name/promote", manager, projectHandler.PromoteMember)
				project.PUT("/members/:name/role", manager, projectHandler.SetMemberRole)

				tasks := project.Group("/tasks", member)
				{
					tasks.POST("", taskHandler.CreateTask)
					tasks.POST("/generate", taskHandler.GenerateTasks)
					tasks.PUT("/:tid", taskHandler.UpdateTask)
					tasks.DELETE("/:tid", taskHandler.DeleteTask)
					tasks.POST("/:tid/status", taskHandler.ChangeStatus)
					tasks.POST("/:tid/assign", taskHandler.AssignTask)
				}

				files := project.Group("/files", member)
				{
					files.GET("", workspaceHandler.ListFiles)
					files.POST("", workspaceHandler.UploadFile)
					files.DELETE("/:fid", workspaceHandler.DeleteFile)
				}

				messages := project.Group("/messages", member)
				{
					messages.GET("", workspaceHandler.ListMessages)
					messages.POST("", workspaceHandler.SendMessage)
				}
			}
		}

		feed := api.Group("")
		feed.Use(requireAuth)
		{
			feed.GET("/notifications", feedHandler.ListNotifications)
			feed.POST("/notifications/read-all", feedHandler.MarkAllNotificationsRead)
			feed.POST("/notifications/:nid/read", feedHandler.MarkNotificationRead)
			feed.GET("/activities", feedHandler.ListActivities)
			feed.GET("/invitations", feedHandler.ListInvitations)
			feed.GET("/tasks/assigned", feedHandler.ListAssignedTasks)
			feed.GET("/recommendations", feedHandler.Recommendations)
			feed.PUT("/recommendations/profile", feedHandler.SaveProfile)
		}

		bookmarks := api.Group("/bookmarks")
		bookmarks.Use(requireAuth)
		{
			bookmarks.GET("/saved", bookmarkHandler.ListSaved)
			bookmarks.POST("/saved/:id", bookmarkHandler.ToggleSaved)
			bookmarks.DELETE("/saved", bookmarkHandler.ClearSaved)
			bookmarks.GET("/compare", bookmarkHandler.ListCompare)
			bookmarks.POST("/compare/:id", bookmarkHandler.ToggleCompare)
			bookmarks.DELETE("/compare", bookmarkHandler.ClearCompare)
		}
	}
}
