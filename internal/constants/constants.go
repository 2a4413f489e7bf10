package constants

const (
	// ContextKeyUserID is the session and gin context key holding the logged-in user id.
	ContextKeyUserID = "user_id"
	// ContextKeyUser is the gin context key holding the resolved logged-in user.
	ContextKeyUser = "user"
	// ContextKeyProject is the gin context key holding the project loaded by middleware.
	ContextKeyProject = "project"
	// SessionCookieName is the name of the session cookie.
	SessionCookieName = "vcc_session"

	// MaxCompareProjects caps the side-by-side comparison list.
	MaxCompareProjects = 4
	// MaxAIGeneratedTasks caps the number of drafted tasks returned per request.
	MaxAIGeneratedTasks = 10

	DefaultCandidateLimit      = 5
	DefaultCandidateMinScore   = 1.0
	DefaultRecommendationLimit = 6
)

// Persisted collection keys.
const (
	KeyProjects      = "projects_vcc_v1"
	KeyNotifications = "vcc_notifications_v1"
	KeyActivities    = "vcc_activities_v1"
	KeyUsers         = "vcc_users_v1"
	KeyCurrentUser   = "vcc_current_user"
	KeyCompare       = "vcc_compare_projects"
	KeySaved         = "vcc_saved_projects"
	KeyUserProfile   = "vinix_user_profile"
)

// StorageEventScope is the key prefix the server watches for raw writes.
// The persisted keys share no common prefix, so it matches every key.
const StorageEventScope = ""
