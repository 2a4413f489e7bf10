package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/yukikurage/vcc-collab-api/internal/logger"
	"github.com/yukikurage/vcc-collab-api/internal/models"
	"github.com/yukikurage/vcc-collab-api/internal/repository"
	"go.uber.org/zap"
)

const (
	BadgeProjectCreator     = "Project Creator"
	BadgeActiveCollaborator = "Active Collaborator"
	BadgeTaskFinisher       = "Task Finisher"
	BadgeSkilledMember      = "Skilled Member"
)

// BadgeService derives achievement badges from project activity and writes
// them back to the user directory. Badges are never revoked.
type BadgeService struct {
	users       *AuthService
	userRepo    repository.UserRepository
	projectRepo repository.ProjectRepository
	workers     int
}

// NewBadgeService creates a new BadgeService. workers bounds the sweep pool.
func NewBadgeService(users *AuthService, userRepo repository.UserRepository, projectRepo repository.ProjectRepository, workers int) *BadgeService {
	if workers <= 0 {
		workers = 1
	}
	return &BadgeService{
		users:       users,
		userRepo:    userRepo,
		projectRepo: projectRepo,
		workers:     workers,
	}
}

// DeriveBadges returns the existing badges of the user named name plus
// every badge the projects now qualify them for.
func DeriveBadges(name string, existing, skills []string, projects []models.Project) []string {
	var created, joined, finished int
	for _, p := range projects {
		if p.Owner == name {
			created++
		}
		if p.HasMember(name) {
			joined++
		}
		for _, t := range p.Tasks {
			if t.AssignedTo == name && t.Status == models.TaskStatusDone {
				finished++
			}
		}
	}

	badges := unionBadges(nil, existing)
	if created >= 1 {
		badges = unionBadges(badges, []string{BadgeProjectCreator})
	}
	if joined >= 3 {
		badges = unionBadges(badges, []string{BadgeActiveCollaborator})
	}
	if finished >= 3 {
		badges = unionBadges(badges, []string{BadgeTaskFinisher})
	}
	if len(skills) >= 5 {
		badges = unionBadges(badges, []string{BadgeSkilledMember})
	}
	return badges
}

// AwardBadgesForUser recomputes the badges of the named user and stores
// them when the set grew.
func (s *BadgeService) AwardBadgesForUser(name string) ([]string, error) {
	user, err := s.users.GetByName(name)
	if err != nil {
		return nil, err
	}

	badges := DeriveBadges(name, user.Badges, user.Skills, s.projectRepo.List())
	if len(badges) == len(unionBadges(nil, user.Badges)) {
		return badges, nil
	}

	if _, err := s.users.UpdateBadges(user.ID, badges); err != nil {
		return nil, fmt.Errorf("failed to update badges: %w", err)
	}
	return badges, nil
}

// SweepAll recomputes badges for every user. Derivation runs on a bounded
// worker pool; the results are written back in a single directory write.
// It returns the number of users whose badges grew.
func (s *BadgeService) SweepAll(ctx context.Context) (int, error) {
	users := s.userRepo.List()
	projects := s.projectRepo.List()
	derived := make([][]string, len(users))

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return 0, fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := range users {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return 0, err
		}
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			u := users[i]
			derived[i] = DeriveBadges(u.Name, u.Badges, u.Skills, projects)
		}); err != nil {
			wg.Done()
			wg.Wait()
			return 0, fmt.Errorf("failed to submit badge job: %w", err)
		}
	}
	wg.Wait()

	byID := make(map[string][]string, len(users))
	for i, u := range users {
		if len(derived[i]) > len(unionBadges(nil, u.Badges)) {
			byID[u.ID] = derived[i]
		}
	}
	if len(byID) == 0 {
		return 0, nil
	}

	changed := 0
	stored, err := s.userRepo.Update(func(all *[]models.User) error {
		for i := range *all {
			badges, ok := byID[(*all)[i].ID]
			if !ok {
				continue
			}
			merged := unionBadges((*all)[i].Badges, badges)
			if len(merged) != len((*all)[i].Badges) {
				(*all)[i].Badges = merged
				changed++
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to store badges: %w", err)
	}

	if cur := s.users.CurrentUser(); cur != nil {
		if _, ok := byID[cur.ID]; ok {
			for _, u := range stored {
				if u.ID == cur.ID {
					if err := s.users.SetCurrentUser(&u); err != nil {
						logger.Named("badges").Error("failed to refresh current user", zap.Error(err))
					}
					break
				}
			}
		}
	}
	return changed, nil
}

// unionBadges appends the badges of extra missing from base, keeping order
// and dropping duplicates.
func unionBadges(base, extra []string) []string {
	out := make([]string, 0, len(base)+len(extra))
	seen := make(map[string]struct{}, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, b := range list {
			if _, ok := seen[b]; ok {
				continue
			}
			seen[b] = struct{}{}
			out = append(out, b)
		}
	}
	return out
}
