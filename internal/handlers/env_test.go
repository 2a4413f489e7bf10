package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/vcc-collab-api/internal/changebus"
	"github.com/yukikurage/vcc-collab-api/internal/constants"
	"github.com/yukikurage/vcc-collab-api/internal/database"
	"github.com/yukikurage/vcc-collab-api/internal/kvstore"
	"github.com/yukikurage/vcc-collab-api/internal/repository"
	"github.com/yukikurage/vcc-collab-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
	svc    Services
}

// setupTestEnv wires the full router over an in-memory SQLite store.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db))

	clk := testclock.NewClock(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	bus := changebus.New(clk)
	store := kvstore.NewObserved(kvstore.NewGormStore(db), bus)

	userRepo := repository.NewUserRepository(store, bus)
	projectRepo := repository.NewProjectRepository(store, bus)
	auth := services.NewAuthService(userRepo, repository.NewSessionRepository(store, bus), clk, false)
	notifications := services.NewNotificationService(repository.NewNotificationRepository(store, bus), clk)
	activities := services.NewActivityService(repository.NewActivityRepository(store, bus), clk)
	badges := services.NewBadgeService(auth, userRepo, projectRepo, 1)
	projects := services.NewProjectService(projectRepo, notifications, activities, badges, clk)

	svc := Services{
		Auth:            auth,
		Projects:        projects,
		Notifications:   notifications,
		Activities:      activities,
		Matches:         services.NewMatchService(projects, auth),
		Recommendations: services.NewRecommendationService(projectRepo, repository.NewProfileRepository(store, bus), clk),
		Bookmarks: services.NewBookmarkService(
			repository.NewSavedRepository(store, bus),
			repository.NewCompareRepository(store, bus),
			projects,
		),
		AI: services.NewAIService("", clk),
	}

	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	RegisterRoutes(r, svc)

	return &testEnv{db: db, router: r, svc: svc}
}

// client replays the session cookie it was last given.
type client struct {
	env     *testEnv
	cookies []*http.Cookie
}

func (e *testEnv) anonymous() *client {
	return &client{env: e}
}

// signup registers name and returns a logged-in client.
func (e *testEnv) signup(t *testing.T, name string) *client {
	t.Helper()
	c := e.anonymous()
	w := c.do(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"name":     name,
		"email":    name + "@example.com",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NotEmpty(t, c.cookies, "expected session cookie to be set")
	return c
}

func (c *client) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	c.env.router.ServeHTTP(w, req)

	if cookies := w.Result().Cookies(); len(cookies) > 0 {
		c.cookies = cookies
	}
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
