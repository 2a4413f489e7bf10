package models

import "time"

type ProjectStatus string

const (
	ProjectStatusOpen      ProjectStatus = "open"
	ProjectStatusClosed    ProjectStatus = "closed"
	ProjectStatusCompleted ProjectStatus = "completed"
)

type MemberRole string

const (
	RoleMember  MemberRole = "member"
	RoleCoOwner MemberRole = "co-owner"
)

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestRejected RequestStatus = "rejected"
)

// Project is the aggregate root; every sub-collection is embedded and the whole
// record is persisted as one unit.
type Project struct {
	ID                string        `json:"id"`
	Title             string        `json:"title"`
	Description       string        `json:"description"`
	Goal              string        `json:"goal"`
	Skills            []string      `json:"skills"`
	RolesNeeded       []string      `json:"rolesNeeded"`
	Outputs           []string      `json:"outputs"`
	StartDate         string        `json:"startDate,omitempty"`
	EndDate           string        `json:"endDate,omitempty"`
	CollaborationType string        `json:"collaborationType,omitempty"`
	Timeline          string        `json:"timeline,omitempty"`
	Thumbnail         string        `json:"thumbnail"`
	Owner             string        `json:"owner"`
	OwnerID           string        `json:"ownerId"`
	Status            ProjectStatus `json:"status"`
	CreatedAt         time.Time     `json:"createdAt"`
	CompletedAt       *time.Time    `json:"completedAt"`

	Members    []Member      `json:"members"`
	Applicants []Applicant   `json:"applicants"`
	Invites    []Invite      `json:"invites"`
	Tasks      []Task        `json:"tasks"`
	Files      []ProjectFile `json:"files"`
	Messages   []Message     `json:"messages"`
}

type Member struct {
	Name     string     `json:"name"`
	Role     MemberRole `json:"role"`
	JoinedAt time.Time  `json:"joinedAt"`
}

type Applicant struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Message string        `json:"message"`
	Date    time.Time     `json:"date"`
	Status  RequestStatus `json:"status"`
}

type Invite struct {
	ID        string        `json:"id"`
	InvitedBy string        `json:"invitedBy"`
	ToName    string        `json:"toName"`
	Role      string        `json:"role"`
	Message   string        `json:"message"`
	Date      time.Time     `json:"date"`
	Status    RequestStatus `json:"status"`
}

// Completed reports whether the project reached its terminal state.
func (p *Project) Completed() bool {
	return p.Status == ProjectStatusCompleted
}

// RemainingSlots is the number of roles still unfilled.
func (p *Project) RemainingSlots() int {
	remaining := len(p.RolesNeeded) - len(p.Members)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// EffectiveStatus is the status shown to users: completed wins, a project
// without free slots reads as closed, otherwise the stored status (open by default).
func (p *Project) EffectiveStatus() ProjectStatus {
	if p.Completed() {
		return ProjectStatusCompleted
	}
	if p.RemainingSlots() == 0 {
		return ProjectStatusClosed
	}
	if p.Status == "" {
		return ProjectStatusOpen
	}
	return p.Status
}

// FindMember returns the index of the named member or -1.
func (p *Project) FindMember(name string) int {
	for i, m := range p.Members {
		if m.Name == name {
			return i
		}
	}
	return -1
}

// HasMember reports whether name is a member of the project.
func (p *Project) HasMember(name string) bool {
	return p.FindMember(name) >= 0
}
