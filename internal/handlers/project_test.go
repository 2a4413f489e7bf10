package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/vcc-collab-api/internal/dto"
	apierrors "github.com/yukikurage/vcc-collab-api/internal/errors"
	"github.com/yukikurage/vcc-collab-api/internal/models"
	"github.com/yukikurage/vcc-collab-api/internal/services"
)

// ProjectHandlerTestSuite drives the project routes through the full router
type ProjectHandlerTestSuite struct {
	suite.Suite
	env   *testEnv
	alice *client
	bob   *client
	carol *client
}

// SetupTest runs before each test
func (suite *ProjectHandlerTestSuite) SetupTest() {
	t := suite.T()
	suite.env = setupTestEnv(t)
	suite.alice = suite.env.signup(t, "alice")
	suite.bob = suite.env.signup(t, "bob")
	suite.carol = suite.env.signup(t, "carol")
}

func (suite *ProjectHandlerTestSuite) createProject(c *client, title string) dto.ProjectDTO {
	w := c.do(suite.T(), http.MethodPost, "/api/projects", map[string]interface{}{
		"title":       title,
		"description": "A <script>alert(1)</script>project",
		"skills":      []string{"Figma", "React"},
		"rolesNeeded": []string{"Designer", "Engineer"},
		"startDate":   "2025-03-01",
		"endDate":     "2025-04-01",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	return decode[dto.ProjectDTO](suite.T(), w)
}

// join makes c a member through an accepted application.
func (suite *ProjectHandlerTestSuite) join(projectID string, c *client) {
	t := suite.T()
	w := c.do(t, http.MethodPost, "/api/projects/"+projectID+"/applicants", map[string]string{"message": "hi"})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	applicant := decode[models.Applicant](t, w)

	w = suite.alice.do(t, http.MethodPost, "/api/projects/"+projectID+"/applicants/"+applicant.ID+"/accept", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
}

// TestCreateProject tests project creation and retrieval
func (suite *ProjectHandlerTestSuite) TestCreateProject() {
	t := suite.T()
	p := suite.createProject(suite.alice, "Design System")

	suite.Equal("alice", p.Owner)
	suite.Equal("A project", p.Description)
	suite.Equal("2025-03-01 → 2025-04-01", p.Timeline)
	suite.Equal(models.ProjectStatusOpen, p.EffectiveStatus)
	suite.Equal(2, p.RemainingSlots)

	w := suite.bob.do(t, http.MethodGet, "/api/projects/"+p.ID, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal("Design System", decode[dto.ProjectDTO](t, w).Title)

	w = suite.bob.do(t, http.MethodGet, "/api/projects?q=design", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	list := decode[struct {
		Projects []dto.ProjectListItemDTO `json:"projects"`
		Total    int                      `json:"total"`
	}](t, w)
	suite.Equal(1, list.Total)
	suite.Equal(p.ID, list.Projects[0].ID)
}

// TestCreateProject_MissingTitle tests the title requirement
func (suite *ProjectHandlerTestSuite) TestCreateProject_MissingTitle() {
	w := suite.alice.do(suite.T(), http.MethodPost, "/api/projects", map[string]string{"title": "  "})
	suite.Equal(http.StatusBadRequest, w.Code)
}

// TestGetProject_NotFound tests an unknown project id
func (suite *ProjectHandlerTestSuite) TestGetProject_NotFound() {
	w := suite.alice.do(suite.T(), http.MethodGet, "/api/projects/missing", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

// TestUpdateProject_ManagerOnly tests that only managers can edit
func (suite *ProjectHandlerTestSuite) TestUpdateProject_ManagerOnly() {
	t := suite.T()
	p := suite.createProject(suite.alice, "Design System")

	w := suite.bob.do(t, http.MethodPut, "/api/projects/"+p.ID, map[string]string{"title": "Hijacked"})
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.alice.do(t, http.MethodPut, "/api/projects/"+p.ID, map[string]string{"title": "Renamed"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.Equal("Renamed", decode[dto.ProjectDTO](t, w).Title)
}

// TestApplicantFlow tests apply, accept and the resulting notification
func (suite *ProjectHandlerTestSuite) TestApplicantFlow() {
	t := suite.T()
	p := suite.createProject(suite.alice, "Design System")

	w := suite.bob.do(t, http.MethodPost, "/api/projects/"+p.ID+"/applicants", nil)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	applicant := decode[models.Applicant](t, w)

	w = suite.bob.do(t, http.MethodPost, "/api/projects/"+p.ID+"/applicants", nil)
	suite.Equal(http.StatusConflict, w.Code)

	w = suite.bob.do(t, http.MethodPost, "/api/projects/"+p.ID+"/applicants/"+applicant.ID+"/accept", nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.alice.do(t, http.MethodPost, "/api/projects/"+p.ID+"/applicants/"+applicant.ID+"/accept", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	updated := decode[dto.ProjectDTO](t, w)
	suite.Require().Len(updated.Members, 1)
	suite.Equal("bob", updated.Members[0].Name)
	suite.Empty(updated.Applicants)

	w = suite.bob.do(t, http.MethodGet, "/api/notifications", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	feed := decode[struct {
		Notifications []models.Notification `json:"notifications"`
		UnreadCount   int                   `json:"unreadCount"`
	}](t, w)
	suite.Require().NotEmpty(feed.Notifications)
	suite.Equal(services.NotifyApplicantAccepted, feed.Notifications[0].Type)
	suite.Equal(1, feed.UnreadCount)

	// alice cannot read bob's notification
	w = suite.alice.do(t, http.MethodPost, "/api/notifications/"+feed.Notifications[0].ID+"/read", nil)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.bob.do(t, http.MethodPost, "/api/notifications/"+feed.Notifications[0].ID+"/read", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal(0, suite.env.svc.Notifications.UnreadCount("bob"))
}

// TestInviteFlow tests that only the invitee can answer
func (suite *ProjectHandlerTestSuite) TestInviteFlow() {
	t := suite.T()
	p := suite.createProject(suite.alice, "Design System")

	w := suite.alice.do(t, http.MethodPost, "/api/projects/"+p.ID+"/invites", map[string]string{"toName": "nobody"})
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.bob.do(t, http.MethodPost, "/api/projects/"+p.ID+"/invites", map[string]string{"toName": "carol"})
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.alice.do(t, http.MethodPost, "/api/projects/"+p.ID+"/invites", map[string]string{"toName": "carol"})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	invite := decode[models.Invite](t, w)
	suite.Equal(services.DefaultInviteRole, invite.Role)

	w = suite.carol.do(t, http.MethodGet, "/api/invitations", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), invite.ID)

	w = suite.bob.do(t, http.MethodPost, "/api/projects/"+p.ID+"/invites/"+invite.ID+"/accept", nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.carol.do(t, http.MethodPost, "/api/projects/"+p.ID+"/invites/"+invite.ID+"/accept", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	joined := decode[dto.ProjectDTO](t, w)
	suite.True(joined.HasMember("carol"))

	w = suite.carol.do(t, http.MethodPost, "/api/projects/"+p.ID+"/invites/"+invite.ID+"/reject", nil)
	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal(apierrors.ErrCodeInvalidOperation, decode[apierrors.APIError](t, w).Code)
}

// TestMemberManagement tests promote, role and kick
func (suite *ProjectHandlerTestSuite) TestMemberManagement() {
	t := suite.T()
	p := suite.createProject(suite.alice, "Design System")
	suite.join(p.ID, suite.bob)
	suite.join(p.ID, suite.carol)

	w := suite.bob.do(t, http.MethodDelete, "/api/projects/"+p.ID+"/members/carol", nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.alice.do(t, http.MethodPost, "/api/projects/"+p.ID+"/members/bob/promote", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	// A co-owner can now manage the team.
	w = suite.bob.do(t, http.MethodPut, "/api/projects/"+p.ID+"/members/carol/role", map[string]string{"role": "Designer"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = suite.bob.do(t, http.MethodDelete, "/api/projects/"+p.ID+"/members/carol", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	kicked := decode[dto.ProjectDTO](t, w)
	suite.False(kicked.HasMember("carol"))

	w = suite.alice.do(t, http.MethodDelete, "/api/projects/"+p.ID+"/members/carol", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

// TestTasks tests the task board routes
func (suite *ProjectHandlerTestSuite) TestTasks() {
	t := suite.T()
	p := suite.createProject(suite.alice, "Design System")
	suite.join(p.ID, suite.bob)
	base := "/api/projects/" + p.ID + "/tasks"

	w := suite.carol.do(t, http.MethodPost, base, map[string]string{"title": "Sneaky"})
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.alice.do(t, http.MethodPost, base, map[string]string{"title": "Wireframes", "assignedTo": "carol"})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.alice.do(t, http.MethodPost, base, map[string]string{"title": "Wireframes", "assignedTo": "bob"})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	task := decode[models.Task](t, w)
	suite.Equal(models.TaskStatusTodo, task.Status)
	suite.Equal("alice", task.CreatedBy)

	w = suite.bob.do(t, http.MethodPost, base+"/"+task.ID+"/status", map[string]string{"status": "bogus"})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.bob.do(t, http.MethodPost, base+"/"+task.ID+"/status", map[string]string{"status": "done"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.Equal(models.TaskStatusDone, decode[models.Task](t, w).Status)

	w = suite.bob.do(t, http.MethodPut, base+"/"+task.ID, map[string]string{"title": "Wireframes v2"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	updated := decode[models.Task](t, w)
	suite.Equal("Wireframes v2", updated.Title)
	suite.Equal("bob", updated.UpdatedBy)

	w = suite.bob.do(t, http.MethodGet, "/api/tasks/assigned", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), task.ID)

	w = suite.alice.do(t, http.MethodPost, base+"/"+task.ID+"/assign", map[string]string{"assignedTo": ""})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.Empty(decode[models.Task](t, w).AssignedTo)

	w = suite.alice.do(t, http.MethodDelete, base+"/"+task.ID, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.alice.do(t, http.MethodDelete, base+"/"+task.ID, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

// TestGenerateTasks_Disabled tests the AI route without an API key
func (suite *ProjectHandlerTestSuite) TestGenerateTasks_Disabled() {
	p := suite.createProject(suite.alice, "Design System")

	w := suite.alice.do(suite.T(), http.MethodPost, "/api/projects/"+p.ID+"/tasks/generate", nil)
	suite.Equal(http.StatusServiceUnavailable, w.Code)
}

// TestWorkspace tests files and chat
func (suite *ProjectHandlerTestSuite) TestWorkspace() {
	t := suite.T()
	p := suite.createProject(suite.alice, "Design System")
	suite.join(p.ID, suite.bob)
	base := "/api/projects/" + p.ID

	w := suite.bob.do(t, http.MethodPost, base+"/files", map[string]string{
		"name": "brief.txt",
		"type": "text/plain",
		"data": "data:text/plain;base64,aGk=",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	file := decode[models.ProjectFile](t, w)
	suite.Equal("bob", file.UploadedBy)

	w = suite.carol.do(t, http.MethodGet, base+"/files", nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.alice.do(t, http.MethodDelete, base+"/files/"+file.ID, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.bob.do(t, http.MethodPost, base+"/messages", map[string]string{"text": "<b>hello</b> team"})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	suite.Equal("hello team", decode[models.Message](t, w).Text)

	w = suite.bob.do(t, http.MethodPost, base+"/messages", map[string]string{"text": "<i></i>"})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.alice.do(t, http.MethodGet, base+"/messages", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	msgs := decode[struct {
		Messages []models.Message `json:"messages"`
	}](t, w)
	suite.Require().Len(msgs.Messages, 1)
	suite.Equal("bob", msgs.Messages[0].Sender)

	w = suite.alice.do(t, http.MethodGet, base+"/activities", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), services.ActivityChatMessage)
}

// TestCompleteProject tests that completed projects refuse new work
func (suite *ProjectHandlerTestSuite) TestCompleteProject() {
	t := suite.T()
	p := suite.createProject(suite.alice, "Design System")

	w := suite.alice.do(t, http.MethodPost, "/api/projects/"+p.ID+"/complete", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	done := decode[dto.ProjectDTO](t, w)
	suite.Equal(models.ProjectStatusCompleted, done.Status)
	suite.NotNil(done.CompletedAt)

	w = suite.alice.do(t, http.MethodPost, "/api/projects/"+p.ID+"/tasks", map[string]string{"title": "Late"})
	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal(apierrors.ErrCodeInvalidOperation, decode[apierrors.APIError](t, w).Code)

	w = suite.bob.do(t, http.MethodPost, "/api/projects/"+p.ID+"/applicants", nil)
	suite.Equal(http.StatusConflict, w.Code)
}

// TestCandidatesAndMatch tests the matching routes
func (suite *ProjectHandlerTestSuite) TestCandidatesAndMatch() {
	t := suite.T()
	p := suite.createProject(suite.alice, "Design System")

	w := suite.bob.do(t, http.MethodPut, "/api/users/me/profile", map[string]interface{}{"skills": []string{"Figma", "React"}})
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.alice.do(t, http.MethodGet, "/api/projects/"+p.ID+"/candidates?min_score=0", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	body := w.Body.String()
	suite.Contains(body, `"name":"bob"`)
	suite.NotContains(body, "supersecret")
	suite.NotContains(body, "bob@example.com")
	suite.NotContains(body, `"email"`)
	suite.NotContains(body, `"password"`)

	w = suite.alice.do(t, http.MethodGet, "/api/projects/"+p.ID+"/match/bob", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "Figma")

	w = suite.alice.do(t, http.MethodGet, "/api/projects/"+p.ID+"/match/nobody", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

// TestBookmarks tests the saved and compare lists
func (suite *ProjectHandlerTestSuite) TestBookmarks() {
	t := suite.T()
	ids := make([]string, 5)
	for i := range ids {
		ids[i] = suite.createProject(suite.alice, fmt.Sprintf("Project %d", i)).ID
	}

	w := suite.alice.do(t, http.MethodPost, "/api/bookmarks/saved/"+ids[0], nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"added":true`)

	w = suite.alice.do(t, http.MethodGet, "/api/bookmarks/saved", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), ids[0])

	w = suite.alice.do(t, http.MethodPost, "/api/bookmarks/saved/missing", nil)
	suite.Equal(http.StatusNotFound, w.Code)

	for _, id := range ids[:4] {
		w = suite.alice.do(t, http.MethodPost, "/api/bookmarks/compare/"+id, nil)
		suite.Require().Equal(http.StatusOK, w.Code)
	}
	w = suite.alice.do(t, http.MethodPost, "/api/bookmarks/compare/"+ids[4], nil)
	suite.Equal(http.StatusConflict, w.Code)

	w = suite.alice.do(t, http.MethodDelete, "/api/bookmarks/compare", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	w = suite.alice.do(t, http.MethodGet, "/api/bookmarks/compare", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"ids":[],"projects":[]}`, w.Body.String())
}

// TestBookmarks_PerUser tests that one user's lists are invisible to another
func (suite *ProjectHandlerTestSuite) TestBookmarks_PerUser() {
	t := suite.T()
	p := suite.createProject(suite.alice, "Alice secret")

	w := suite.alice.do(t, http.MethodPost, "/api/bookmarks/saved/"+p.ID, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.bob.do(t, http.MethodGet, "/api/bookmarks/saved", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"ids":[],"projects":[]}`, w.Body.String())

	w = suite.bob.do(t, http.MethodDelete, "/api/bookmarks/saved", nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.alice.do(t, http.MethodGet, "/api/bookmarks/saved", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	saved := decode[struct {
		IDs []string `json:"ids"`
	}](t, w)
	suite.Equal([]string{p.ID}, saved.IDs)
}

// TestRecommendations tests the ranked feed and skills catalogue
func (suite *ProjectHandlerTestSuite) TestRecommendations() {
	t := suite.T()
	p := suite.createProject(suite.alice, "Design System")

	w := suite.bob.do(t, http.MethodPut, "/api/users/me/profile", map[string]interface{}{"skills": []string{"Figma"}})
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.bob.do(t, http.MethodGet, "/api/recommendations", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), p.ID)

	// Own projects are excluded unless asked for.
	w = suite.alice.do(t, http.MethodPut, "/api/users/me/profile", map[string]interface{}{"skills": []string{"Figma"}})
	suite.Require().Equal(http.StatusOK, w.Code)
	w = suite.alice.do(t, http.MethodGet, "/api/recommendations?min_score=0", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.NotContains(w.Body.String(), p.ID)
	w = suite.alice.do(t, http.MethodGet, "/api/recommendations?include_own=true", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), p.ID)

	w = suite.bob.do(t, http.MethodGet, "/api/skills", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "Figma")
}

// TestProjectRoutesRequireAuth tests the session guard
func (suite *ProjectHandlerTestSuite) TestProjectRoutesRequireAuth() {
	w := suite.env.anonymous().do(suite.T(), http.MethodGet, "/api/projects", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

// TestProjectHandlerTestSuite runs the test suite
func TestProjectHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectHandlerTestSuite))
}
