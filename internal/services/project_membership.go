package services

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/yukikurage/vcc-collab-api/internal/models"
)

// ApplicantInput is a request to join a project.
type ApplicantInput struct {
	Name    string
	Message string
}

// AddApplicant appends a pending application and tells the owner.
func (s *ProjectService) AddApplicant(projectID string, input ApplicantInput) (*models.Applicant, error) {
	a := models.Applicant{
		ID:      uuid.NewString(),
		Name:    input.Name,
		Message: input.Message,
		Date:    s.clock.Now(),
		Status:  models.RequestPending,
	}
	p, err := s.mutate("applicant.add", projectID, func(p *models.Project) error {
		if p.Completed() {
			return ErrProjectCompleted
		}
		if p.Owner == a.Name || p.HasMember(a.Name) {
			return ErrAlreadyMember
		}
		for _, existing := range p.Applicants {
			if existing.Name == a.Name && existing.Status == models.RequestPending {
				return ErrAlreadyApplied
			}
		}
		p.Applicants = append(p.Applicants, a)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(s.notification(p, p.Owner, a.Name, NotifyNewApplicant,
		fmt.Sprintf("%s melamar di proyek \"%s\".", a.Name, p.Title)))
	s.record(p, ActivityApplicantAdded, a.Name,
		fmt.Sprintf("%s applied to \"%s\"", a.Name, p.Title),
		map[string]string{"applicantId": a.ID})
	return &a, nil
}

// AcceptApplicant removes the application and adds the applicant as a member.
func (s *ProjectService) AcceptApplicant(projectID, applicantID string) (*models.Project, error) {
	var applicant models.Applicant
	p, err := s.mutate("applicant.accept", projectID, func(p *models.Project) error {
		if p.Completed() {
			return ErrProjectCompleted
		}
		idx := findApplicant(p, applicantID)
		if idx < 0 {
			return ErrApplicantNotFound
		}
		applicant = p.Applicants[idx]
		if p.Owner == applicant.Name || p.HasMember(applicant.Name) {
			return ErrAlreadyMember
		}
		p.Applicants = append(p.Applicants[:idx:idx], p.Applicants[idx+1:]...)
		p.Members = append(p.Members, models.Member{
			Name:     applicant.Name,
			Role:     models.RoleMember,
			JoinedAt: s.clock.Now(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(s.notification(p, applicant.Name, p.Owner, NotifyApplicantAccepted,
		fmt.Sprintf("Lamaran Anda diterima di proyek \"%s\".", p.Title)))
	s.record(p, ActivityApplicantAccepted, p.Owner,
		fmt.Sprintf("%s accepted to project \"%s\" by %s", applicant.Name, p.Title, p.Owner),
		map[string]string{"applicantId": applicant.ID, "memberName": applicant.Name})
	s.award(applicant.Name)
	return p, nil
}

// RejectApplicant removes the application and tells the applicant.
func (s *ProjectService) RejectApplicant(projectID, applicantID string) (*models.Project, error) {
	var applicant models.Applicant
	p, err := s.mutate("applicant.reject", projectID, func(p *models.Project) error {
		idx := findApplicant(p, applicantID)
		if idx < 0 {
			return ErrApplicantNotFound
		}
		applicant = p.Applicants[idx]
		p.Applicants = append(p.Applicants[:idx:idx], p.Applicants[idx+1:]...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(s.notification(p, applicant.Name, p.Owner, NotifyApplicantRejected,
		fmt.Sprintf("Lamaran Anda di proyek \"%s\" ditolak.", p.Title)))
	s.record(p, ActivityApplicantRejected, p.Owner,
		fmt.Sprintf("Applicant %s rejected in \"%s\"", applicant.ID, p.Title),
		map[string]string{"applicantId": applicant.ID})
	return p, nil
}

func findApplicant(p *models.Project, id string) int {
	for i, a := range p.Applicants {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// InviteInput is an invitation from a manager to a user.
type InviteInput struct {
	InvitedBy string
	ToName    string
	Role      string
	Message   string
}

// SendInvite appends a pending invite and tells the invitee.
func (s *ProjectService) SendInvite(projectID string, input InviteInput) (*models.Invite, error) {
	inv := models.Invite{
		ID:        uuid.NewString(),
		InvitedBy: input.InvitedBy,
		ToName:    input.ToName,
		Role:      input.Role,
		Message:   input.Message,
		Date:      s.clock.Now(),
		Status:    models.RequestPending,
	}
	if inv.Role == "" {
		inv.Role = DefaultInviteRole
	}
	p, err := s.mutate("invite.send", projectID, func(p *models.Project) error {
		if p.Completed() {
			return ErrProjectCompleted
		}
		if p.Owner == inv.ToName || p.HasMember(inv.ToName) {
			return ErrAlreadyMember
		}
		for _, existing := range p.Invites {
			if existing.ToName == inv.ToName && existing.Status == models.RequestPending {
				return ErrAlreadyInvited
			}
		}
		p.Invites = append(p.Invites, inv)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(s.notification(p, inv.ToName, inv.InvitedBy, NotifyInviteSent,
		fmt.Sprintf("Anda diundang ke proyek \"%s\".", p.Title)))
	s.record(p, ActivityInviteSent, inv.InvitedBy,
		fmt.Sprintf("%s invited %s to \"%s\"", inv.InvitedBy, inv.ToName, p.Title),
		map[string]string{"toName": inv.ToName, "inviteId": inv.ID})
	return &inv, nil
}

// AcceptInvite marks the invite accepted, drops any application from the
// invitee and adds them as a member.
func (s *ProjectService) AcceptInvite(projectID, inviteID string) (*models.Project, error) {
	var inv models.Invite
	p, err := s.mutate("invite.accept", projectID, func(p *models.Project) error {
		if p.Completed() {
			return ErrProjectCompleted
		}
		idx, err := pendingInvite(p, inviteID)
		if err != nil {
			return err
		}
		p.Invites[idx].Status = models.RequestAccepted
		inv = p.Invites[idx]
		// An open application from the invitee is settled by the invite.
		p.Applicants = slices.DeleteFunc(p.Applicants, func(a models.Applicant) bool {
			return a.Name == inv.ToName
		})
		if !p.HasMember(inv.ToName) {
			p.Members = append(p.Members, models.Member{
				Name:     inv.ToName,
				Role:     models.RoleMember,
				JoinedAt: s.clock.Now(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(s.notification(p, p.Owner, inv.ToName, NotifyInviteAccepted,
		fmt.Sprintf("%s menerima undangan proyek \"%s\".", inv.ToName, p.Title)))
	s.record(p, ActivityInviteAccepted, inv.ToName,
		fmt.Sprintf("%s accepted invite to \"%s\"", inv.ToName, p.Title),
		map[string]string{"inviteId": inv.ID})
	s.award(inv.ToName)
	return p, nil
}

// RejectInvite marks the invite rejected and tells the inviter.
func (s *ProjectService) RejectInvite(projectID, inviteID string) (*models.Project, error) {
	var inv models.Invite
	p, err := s.mutate("invite.reject", projectID, func(p *models.Project) error {
		idx, err := pendingInvite(p, inviteID)
		if err != nil {
			return err
		}
		p.Invites[idx].Status = models.RequestRejected
		inv = p.Invites[idx]
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(s.notification(p, inv.InvitedBy, inv.ToName, NotifyInviteRejected,
		fmt.Sprintf("%s menolak undangan proyek \"%s\".", inv.ToName, p.Title)))
	s.record(p, ActivityInviteRejected, p.Owner,
		fmt.Sprintf("Invite %s rejected in \"%s\"", inv.ID, p.Title),
		map[string]string{"inviteId": inv.ID})
	return p, nil
}

func pendingInvite(p *models.Project, id string) (int, error) {
	for i, inv := range p.Invites {
		if inv.ID != id {
			continue
		}
		if inv.Status != models.RequestPending {
			return -1, ErrInviteNotPending
		}
		return i, nil
	}
	return -1, ErrInviteNotFound
}

// KickMember removes a member and tells them.
func (s *ProjectService) KickMember(projectID, memberName string) (*models.Project, error) {
	p, err := s.mutate("member.kick", projectID, func(p *models.Project) error {
		idx := p.FindMember(memberName)
		if idx < 0 {
			return ErrMemberNotFound
		}
		p.Members = append(p.Members[:idx:idx], p.Members[idx+1:]...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(s.notification(p, memberName, p.Owner, NotifyMemberKicked,
		fmt.Sprintf("Anda telah dikeluarkan dari proyek \"%s\" oleh %s.", p.Title, p.Owner)))
	s.record(p, ActivityMemberKicked, p.Owner,
		fmt.Sprintf("%s was kicked from \"%s\" by %s", memberName, p.Title, p.Owner),
		map[string]string{"memberName": memberName})
	return p, nil
}

// PromoteMember makes a member co-owner and tells every member.
func (s *ProjectService) PromoteMember(projectID, memberName string) (*models.Project, error) {
	p, err := s.mutate("member.promote", projectID, func(p *models.Project) error {
		idx := p.FindMember(memberName)
		if idx < 0 {
			return ErrMemberNotFound
		}
		p.Members[idx].Role = models.RoleCoOwner
		return nil
	})
	if err != nil {
		return nil, err
	}

	notes := make([]models.Notification, 0, len(p.Members))
	for _, m := range p.Members {
		notes = append(notes, s.notification(p, m.Name, p.Owner, NotifyMemberPromoted,
			fmt.Sprintf("%s dipromosikan sebagai Co-Owner di proyek \"%s\".", memberName, p.Title)))
	}
	s.notify(notes...)
	s.record(p, ActivityMemberPromoted, p.Owner,
		fmt.Sprintf("%s promoted to co-owner in \"%s\" by %s", memberName, p.Title, p.Owner),
		map[string]string{"memberName": memberName})
	return p, nil
}

// SetMemberRole assigns an arbitrary role label to a member.
func (s *ProjectService) SetMemberRole(projectID, memberName string, role models.MemberRole) (*models.Project, error) {
	p, err := s.mutate("member.role", projectID, func(p *models.Project) error {
		idx := p.FindMember(memberName)
		if idx < 0 {
			return ErrMemberNotFound
		}
		p.Members[idx].Role = role
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.record(p, ActivityMemberRoleChanged, p.Owner,
		fmt.Sprintf("%s role changed to %s in \"%s\"", memberName, role, p.Title),
		map[string]string{"memberName": memberName, "role": string(role)})
	return p, nil
}
