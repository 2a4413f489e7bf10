package repository

import (
	"github.com/yukikurage/vcc-collab-api/internal/models"
)

// UserRepository defines data access for the user directory collection
type UserRepository interface {
	// List returns every user in stored order
	List() []models.User

	// Update applies fn to the whole collection and persists the result
	Update(fn func(users *[]models.User) error) ([]models.User, error)
}

// SessionRepository defines data access for the current-user pointer
type SessionRepository interface {
	// Current returns the logged-in user or nil
	Current() *models.User

	// Set replaces the logged-in user
	Set(user *models.User) error

	// Clear removes the logged-in user
	Clear() error
}

// ProjectRepository defines data access for the project aggregates
type ProjectRepository interface {
	// List returns every project in stored order
	List() []models.Project

	// Update applies fn to the whole collection and persists the result
	Update(fn func(projects *[]models.Project) error) ([]models.Project, error)
}

// NotificationRepository defines data access for the notification ledger
type NotificationRepository interface {
	List() []models.Notification
	Update(fn func(notifications *[]models.Notification) error) ([]models.Notification, error)
}

// ActivityRepository defines data access for the activity ledger
type ActivityRepository interface {
	List() []models.Activity
	Update(fn func(activities *[]models.Activity) error) ([]models.Activity, error)
}

// ProfileRepository defines data access for the lightweight recommendation profile
type ProfileRepository interface {
	// Get returns the stored profile or nil
	Get() *models.UserProfile

	// Save replaces the stored profile
	Save(profile models.UserProfile) error
}

// BookmarkRepository defines data access for per-user lists of project ids
type BookmarkRepository interface {
	List(userID string) []string
	Update(userID string, fn func(ids *[]string) error) ([]string, error)
}
