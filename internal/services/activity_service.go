package services

import (
	"sort"

	"github.com/google/uuid"
	"github.com/juju/clock"
	"github.com/yukikurage/vcc-collab-api/internal/models"
	"github.com/yukikurage/vcc-collab-api/internal/repository"
)

// ActivityService is the append-only activity log.
type ActivityService struct {
	repo  repository.ActivityRepository
	clock clock.Clock
}

// NewActivityService creates a new ActivityService.
func NewActivityService(repo repository.ActivityRepository, clk clock.Clock) *ActivityService {
	return &ActivityService{repo: repo, clock: clk}
}

// Add records an activity in front of the log, filling id, type and time.
func (s *ActivityService) Add(a models.Activity) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Type == "" {
		a.Type = "generic"
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.clock.Now()
	}

	_, err := s.repo.Update(func(all *[]models.Activity) error {
		*all = append([]models.Activity{a}, *all...)
		return nil
	})
	return err
}

// ForProject returns the activities of one project, newest first.
func (s *ActivityService) ForProject(projectID string) []models.Activity {
	if projectID == "" {
		return []models.Activity{}
	}
	return s.filter(func(a models.Activity) bool {
		return a.ProjectID == projectID
	})
}

// ForUser returns activities performed by name or aimed at name, newest first.
func (s *ActivityService) ForUser(name string) []models.Activity {
	if name == "" {
		return []models.Activity{}
	}
	return s.filter(func(a models.Activity) bool {
		if a.Actor == name {
			return true
		}
		return a.Meta != nil && (a.Meta["target"] == name || a.Meta["toName"] == name || a.Meta["memberName"] == name)
	})
}

// All returns the whole log, newest first.
func (s *ActivityService) All() []models.Activity {
	return s.filter(func(models.Activity) bool { return true })
}

func (s *ActivityService) filter(keep func(models.Activity) bool) []models.Activity {
	out := []models.Activity{}
	for _, a := range s.repo.List() {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
