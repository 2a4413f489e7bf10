package services

import (
	"errors"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/vcc-collab-api/internal/changebus"
	"github.com/yukikurage/vcc-collab-api/internal/kvstore"
	"github.com/yukikurage/vcc-collab-api/internal/models"
	"github.com/yukikurage/vcc-collab-api/internal/repository"
)

var epoch = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

// fixture wires every service over one in-memory store.
type fixture struct {
	store         *kvstore.MemoryStore
	bus           *changebus.Bus
	clock         *testclock.Clock
	userRepo      repository.UserRepository
	projectRepo   repository.ProjectRepository
	users         *AuthService
	notifications *NotificationService
	activities    *ActivityService
	badges        *BadgeService
	projects      *ProjectService
	matches       *MatchService
	bookmarks     *BookmarkService
	recs          *RecommendationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithStore(kvstore.NewMemoryStore())
}

func newFixtureWithStore(store kvstore.Store) *fixture {
	clk := testclock.NewClock(epoch)
	bus := changebus.New(clk)

	f := &fixture{bus: bus, clock: clk}
	if ms, ok := store.(*kvstore.MemoryStore); ok {
		f.store = ms
	}
	f.userRepo = repository.NewUserRepository(store, bus)
	f.projectRepo = repository.NewProjectRepository(store, bus)
	f.users = NewAuthService(f.userRepo, repository.NewSessionRepository(store, bus), clk, false)
	f.notifications = NewNotificationService(repository.NewNotificationRepository(store, bus), clk)
	f.activities = NewActivityService(repository.NewActivityRepository(store, bus), clk)
	f.badges = NewBadgeService(f.users, f.userRepo, f.projectRepo, 2)
	f.projects = NewProjectService(f.projectRepo, f.notifications, f.activities, f.badges, clk)
	f.matches = NewMatchService(f.projects, f.users)
	f.bookmarks = NewBookmarkService(repository.NewSavedRepository(store, bus), repository.NewCompareRepository(store, bus), f.projects)
	f.recs = NewRecommendationService(f.projectRepo, repository.NewProfileRepository(store, bus), clk)
	return f
}

func (f *fixture) register(t *testing.T, name string) *models.User {
	t.Helper()
	u, err := f.users.Register(RegisterInput{Name: name, Email: name + "@example.com", Password: "secret"})
	require.NoError(t, err)
	return u
}

func (f *fixture) createProject(t *testing.T, owner, title string, skills ...string) *models.Project {
	t.Helper()
	p, err := f.projects.Create(CreateProjectInput{
		Title:       title,
		Description: title + " description",
		Skills:      skills,
		RolesNeeded: []string{"Designer", "Engineer"},
		Owner:       owner,
	})
	require.NoError(t, err)
	return p
}

// addMember puts name on the team through an accepted application.
func (f *fixture) addMember(t *testing.T, projectID, name string) {
	t.Helper()
	a, err := f.projects.AddApplicant(projectID, ApplicantInput{Name: name, Message: "hi"})
	require.NoError(t, err)
	_, err = f.projects.AcceptApplicant(projectID, a.ID)
	require.NoError(t, err)
}

func notificationTypes(ns []models.Notification) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = n.Type
	}
	return out
}

// failingStore accepts reads and refuses every write.
type failingStore struct {
	kvstore.Store
}

var errDiskFull = errors.New("disk full")

func (failingStore) Set(string, []byte) error { return errDiskFull }
