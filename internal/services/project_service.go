package services

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/juju/clock"
	"github.com/yukikurage/vcc-collab-api/internal/catalog"
	"github.com/yukikurage/vcc-collab-api/internal/logger"
	"github.com/yukikurage/vcc-collab-api/internal/metrics"
	"github.com/yukikurage/vcc-collab-api/internal/models"
	"github.com/yukikurage/vcc-collab-api/internal/repository"
	"go.uber.org/zap"
)

var (
	ErrProjectNotFound   = errors.New("project not found")
	ErrApplicantNotFound = errors.New("applicant not found")
	ErrInviteNotFound    = errors.New("invite not found")
	ErrInviteNotPending  = errors.New("invite is no longer pending")
	ErrTaskNotFound      = errors.New("task not found")
	ErrFileNotFound      = errors.New("file not found")
	ErrMemberNotFound    = errors.New("member not found")
	ErrProjectCompleted  = errors.New("project is already completed")
	ErrAlreadyMember     = errors.New("user is already part of this project")
	ErrAlreadyApplied    = errors.New("user already has a pending application")
	ErrAlreadyInvited    = errors.New("user already has a pending invite")
	ErrInvalidTaskStatus = errors.New("invalid task status")
)

// Notification types.
const (
	NotifyProjectCreated    = "project_created"
	NotifyProjectUpdated    = "project_updated"
	NotifyNewApplicant      = "new_applicant"
	NotifyApplicantAccepted = "applicant_accepted"
	NotifyApplicantRejected = "applicant_rejected"
	NotifyChatMessage       = "chat_message"
	NotifyInviteSent        = "invite_sent"
	NotifyInviteAccepted    = "invite_accepted"
	NotifyInviteRejected    = "invite_rejected"
	NotifyMemberKicked      = "member_kicked"
	NotifyMemberPromoted    = "member_promoted"
	NotifyProjectCompleted  = "project_completed"
)

// Activity types.
const (
	ActivityProjectCreated    = "project.created"
	ActivityProjectUpdated    = "project.updated"
	ActivityProjectCompleted  = "project.completed"
	ActivityApplicantAdded    = "applicant.added"
	ActivityApplicantAccepted = "applicant.accepted"
	ActivityApplicantRejected = "applicant.rejected"
	ActivityInviteSent        = "invite.sent"
	ActivityInviteAccepted    = "invite.accepted"
	ActivityInviteRejected    = "invite.rejected"
	ActivityTaskAdded         = "task.added"
	ActivityTaskUpdated       = "task.updated"
	ActivityTaskDeleted       = "task.deleted"
	ActivityTaskStatusChanged = "task.status_changed"
	ActivityTaskAssigned      = "task.assigned"
	ActivityFileAdded         = "file.added"
	ActivityFileDeleted       = "file.deleted"
	ActivityChatMessage       = "chat.message"
	ActivityMemberKicked      = "member.kicked"
	ActivityMemberPromoted    = "member.promoted"
	ActivityMemberRoleChanged = "member.role_changed"
)

// DefaultInviteRole is the role offered when an invite names none.
const DefaultInviteRole = "Kolaborator"

// BadgeAwarder recomputes a user's badges after project activity.
type BadgeAwarder interface {
	AwardBadgesForUser(name string) ([]string, error)
}

// ProjectService owns every mutation of the project aggregates. Each
// operation rewrites the whole project collection, then records its
// notifications and activities. Side-effect failures are logged and do not
// fail the operation. Callers are trusted: authorization happens upstream.
type ProjectService struct {
	projectRepo   repository.ProjectRepository
	notifications *NotificationService
	activities    *ActivityService
	badges        BadgeAwarder
	clock         clock.Clock
	log           *zap.Logger
}

// NewProjectService creates a new ProjectService. badges may be nil.
func NewProjectService(projectRepo repository.ProjectRepository, notifications *NotificationService, activities *ActivityService, badges BadgeAwarder, clk clock.Clock) *ProjectService {
	return &ProjectService{
		projectRepo:   projectRepo,
		notifications: notifications,
		activities:    activities,
		badges:        badges,
		clock:         clk,
		log:           logger.Named("projects"),
	}
}

// ---- reads ----

// Get returns a project by id.
func (s *ProjectService) Get(id string) (*models.Project, error) {
	for _, p := range s.projectRepo.List() {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, ErrProjectNotFound
}

// List returns every project in stored order, newest created first.
func (s *ProjectService) List() []models.Project {
	return s.projectRepo.List()
}

// ListByOwner returns the projects owned by name.
func (s *ProjectService) ListByOwner(name string) []models.Project {
	return s.filter(func(p models.Project) bool { return p.Owner == name })
}

// ListJoined returns the projects name is a member of.
func (s *ProjectService) ListJoined(name string) []models.Project {
	return s.filter(func(p models.Project) bool { return p.HasMember(name) })
}

// Search returns projects whose title, description, owner or any skill
// contains keyword, ignoring case. An empty keyword returns everything.
func (s *ProjectService) Search(keyword string) []models.Project {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if kw == "" {
		return s.List()
	}
	return s.filter(func(p models.Project) bool {
		return strings.Contains(strings.ToLower(p.Title), kw) ||
			strings.Contains(strings.ToLower(p.Description), kw) ||
			strings.Contains(strings.ToLower(p.Owner), kw) ||
			slices.ContainsFunc(p.Skills, func(sk string) bool { return strings.Contains(strings.ToLower(sk), kw) })
	})
}

// ExploreFilter narrows and orders the explore listing.
type ExploreFilter struct {
	// Query matches title or description, ignoring case.
	Query string
	// Skill must appear verbatim in the project's skills.
	Skill string
	// Category keeps projects with any skill from that catalogue category.
	Category string
	// SortOrder is "newest" (default) or "oldest" by creation time.
	SortOrder string
}

// Explore lists projects matching filter.
func (s *ProjectService) Explore(filter ExploreFilter) []models.Project {
	q := strings.ToLower(strings.TrimSpace(filter.Query))
	var categorySkills []string
	if filter.Category != "" {
		categorySkills = catalog.SkillsIn(filter.Category)
	}

	out := s.filter(func(p models.Project) bool {
		if q != "" && !strings.Contains(strings.ToLower(p.Title), q) && !strings.Contains(strings.ToLower(p.Description), q) {
			return false
		}
		if filter.Skill != "" && !slices.Contains(p.Skills, filter.Skill) {
			return false
		}
		if filter.Category != "" && !slices.ContainsFunc(p.Skills, func(sk string) bool { return slices.Contains(categorySkills, sk) }) {
			return false
		}
		return true
	})

	oldest := filter.SortOrder == "oldest"
	sort.SliceStable(out, func(i, j int) bool {
		if oldest {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// InvitationView is an invite annotated with its project.
type InvitationView struct {
	models.Invite
	ProjectID    string `json:"projectId"`
	ProjectTitle string `json:"projectTitle"`
	ProjectOwner string `json:"projectOwner"`
}

// InvitationsForUser returns every invite addressed to name across projects.
func (s *ProjectService) InvitationsForUser(name string) []InvitationView {
	out := []InvitationView{}
	for _, p := range s.projectRepo.List() {
		for _, inv := range p.Invites {
			if inv.ToName == name {
				out = append(out, InvitationView{
					Invite:       inv,
					ProjectID:    p.ID,
					ProjectTitle: p.Title,
					ProjectOwner: p.Owner,
				})
			}
		}
	}
	return out
}

// AssignedTask is a task annotated with its project.
type AssignedTask struct {
	models.Task
	ProjectID     string               `json:"projectId"`
	ProjectTitle  string               `json:"projectTitle"`
	ProjectStatus models.ProjectStatus `json:"projectStatus"`
}

// TasksAssignedTo returns every task assigned to name across projects.
func (s *ProjectService) TasksAssignedTo(name string) []AssignedTask {
	out := []AssignedTask{}
	for _, p := range s.projectRepo.List() {
		for _, t := range p.Tasks {
			if t.AssignedTo == name {
				out = append(out, AssignedTask{
					Task:          t,
					ProjectID:     p.ID,
					ProjectTitle:  p.Title,
					ProjectStatus: p.EffectiveStatus(),
				})
			}
		}
	}
	return out
}

// Files returns the files shared in a project.
func (s *ProjectService) Files(projectID string) ([]models.ProjectFile, error) {
	p, err := s.Get(projectID)
	if err != nil {
		return nil, err
	}
	if p.Files == nil {
		return []models.ProjectFile{}, nil
	}
	return p.Files, nil
}

func (s *ProjectService) filter(keep func(models.Project) bool) []models.Project {
	out := []models.Project{}
	for _, p := range s.projectRepo.List() {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// ---- project lifecycle ----

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Title             string
	Description       string
	Goal              string
	Skills            []string
	RolesNeeded       []string
	Outputs           []string
	StartDate         string
	EndDate           string
	CollaborationType string
	Thumbnail         string
	Owner             string
	OwnerID           string
}

// Create stores a new open project in front of the collection.
func (s *ProjectService) Create(input CreateProjectInput) (*models.Project, error) {
	p := models.Project{
		ID:                uuid.NewString(),
		Title:             input.Title,
		Description:       input.Description,
		Goal:              input.Goal,
		Skills:            nonNil(input.Skills),
		RolesNeeded:       nonNil(input.RolesNeeded),
		Outputs:           nonNil(input.Outputs),
		StartDate:         input.StartDate,
		EndDate:           input.EndDate,
		CollaborationType: input.CollaborationType,
		Thumbnail:         input.Thumbnail,
		Owner:             input.Owner,
		OwnerID:           input.OwnerID,
		Status:            models.ProjectStatusOpen,
		CreatedAt:         s.clock.Now(),
		Members:           []models.Member{},
		Applicants:        []models.Applicant{},
		Invites:           []models.Invite{},
		Tasks:             []models.Task{},
		Files:             []models.ProjectFile{},
		Messages:          []models.Message{},
	}
	if p.StartDate != "" && p.EndDate != "" {
		p.Timeline = p.StartDate + " → " + p.EndDate
	}

	_, err := s.projectRepo.Update(func(all *[]models.Project) error {
		*all = append([]models.Project{p}, *all...)
		return nil
	})
	metrics.ObserveMutation("project.create", err)
	if err != nil {
		return nil, err
	}

	s.notify(s.notification(&p, p.Owner, p.Owner, NotifyProjectCreated,
		fmt.Sprintf("Proyek \"%s\" berhasil dibuat.", p.Title)))
	s.record(&p, ActivityProjectCreated, p.Owner,
		fmt.Sprintf("Project \"%s\" created by %s", p.Title, p.Owner), nil)
	s.award(p.Owner)
	return &p, nil
}

// UpdateProjectInput carries the editable project fields; nil fields are kept.
type UpdateProjectInput struct {
	Title             *string
	Description       *string
	Goal              *string
	Skills            []string
	RolesNeeded       []string
	Outputs           []string
	StartDate         *string
	EndDate           *string
	CollaborationType *string
	Thumbnail         *string
}

// Update replaces the editable fields of a project and tells every member.
func (s *ProjectService) Update(projectID string, input UpdateProjectInput) (*models.Project, error) {
	p, err := s.mutate("project.update", projectID, func(p *models.Project) error {
		setIf(&p.Title, input.Title)
		setIf(&p.Description, input.Description)
		setIf(&p.Goal, input.Goal)
		setIf(&p.StartDate, input.StartDate)
		setIf(&p.EndDate, input.EndDate)
		setIf(&p.CollaborationType, input.CollaborationType)
		setIf(&p.Thumbnail, input.Thumbnail)
		if input.Skills != nil {
			p.Skills = input.Skills
		}
		if input.RolesNeeded != nil {
			p.RolesNeeded = input.RolesNeeded
		}
		if input.Outputs != nil {
			p.Outputs = input.Outputs
		}
		if input.StartDate != nil || input.EndDate != nil {
			p.Timeline = ""
			if p.StartDate != "" && p.EndDate != "" {
				p.Timeline = p.StartDate + " → " + p.EndDate
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	notes := make([]models.Notification, 0, len(p.Members))
	for _, m := range p.Members {
		notes = append(notes, s.notification(p, m.Name, p.Owner, NotifyProjectUpdated,
			fmt.Sprintf("Proyek \"%s\" diperbarui.", p.Title)))
	}
	s.notify(notes...)
	s.record(p, ActivityProjectUpdated, p.Owner,
		fmt.Sprintf("Project \"%s\" updated by %s", p.Title, p.Owner), nil)
	return p, nil
}

// Complete marks a project as finished, notifying the members and the owner.
func (s *ProjectService) Complete(projectID, actor string) (*models.Project, error) {
	p, err := s.mutate("project.complete", projectID, func(p *models.Project) error {
		if p.Completed() {
			return ErrProjectCompleted
		}
		now := s.clock.Now()
		p.Status = models.ProjectStatusCompleted
		p.CompletedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	notes := make([]models.Notification, 0, len(p.Members)+1)
	for _, m := range p.Members {
		notes = append(notes, s.notification(p, m.Name, actor, NotifyProjectCompleted,
			fmt.Sprintf("Proyek \"%s\" telah selesai.", p.Title)))
	}
	notes = append(notes, s.notification(p, p.Owner, actor, NotifyProjectCompleted,
		fmt.Sprintf("Anda menandai proyek \"%s\" sebagai selesai.", p.Title)))
	s.notify(notes...)
	s.record(p, ActivityProjectCompleted, actor,
		fmt.Sprintf("Project \"%s\" completed by %s", p.Title, actor), nil)
	return p, nil
}

// ---- shared plumbing ----

// mutate applies fn to one project inside a locked read-modify-write of the
// whole collection and returns the stored result. Nothing is written when
// fn fails.
func (s *ProjectService) mutate(op, projectID string, fn func(p *models.Project) error) (*models.Project, error) {
	var out models.Project
	_, err := s.projectRepo.Update(func(all *[]models.Project) error {
		for i := range *all {
			if (*all)[i].ID != projectID {
				continue
			}
			if err := fn(&(*all)[i]); err != nil {
				return err
			}
			out = (*all)[i]
			return nil
		}
		return ErrProjectNotFound
	})
	metrics.ObserveMutation(op, err)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ProjectService) notification(p *models.Project, to, from, typ, message string) models.Notification {
	return models.Notification{
		ToName:    to,
		FromName:  from,
		ProjectID: p.ID,
		Type:      typ,
		Message:   message,
		Link:      ProjectLink(p.ID),
	}
}

func (s *ProjectService) notify(ns ...models.Notification) {
	if s.notifications == nil || len(ns) == 0 {
		return
	}
	if err := s.notifications.AddMany(ns); err != nil {
		s.log.Error("failed to record notifications", zap.String("type", ns[0].Type), zap.Error(err))
	}
}

func (s *ProjectService) record(p *models.Project, typ, actor, message string, meta map[string]string) {
	if s.activities == nil {
		return
	}
	err := s.activities.Add(models.Activity{
		ProjectID: p.ID,
		Type:      typ,
		Message:   message,
		Actor:     actor,
		Meta:      meta,
	})
	if err != nil {
		s.log.Error("failed to record activity", zap.String("type", typ), zap.Error(err))
	}
}

func (s *ProjectService) award(name string) {
	if s.badges == nil || name == "" {
		return
	}
	if _, err := s.badges.AwardBadgesForUser(name); err != nil && !errors.Is(err, ErrUserNotFound) {
		s.log.Error("failed to award badges", zap.String("user", name), zap.Error(err))
	}
}

// ProjectLink is the in-app path of a project.
func ProjectLink(projectID string) string {
	return "/project/" + projectID
}

func setIf(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
