package services

import (
	"errors"
	"slices"

	"github.com/yukikurage/vcc-collab-api/internal/constants"
	"github.com/yukikurage/vcc-collab-api/internal/models"
	"github.com/yukikurage/vcc-collab-api/internal/repository"
)

var ErrCompareLimit = errors.New("compare list is full")

// BookmarkService keeps each user's saved and compare project lists.
type BookmarkService struct {
	saved    repository.BookmarkRepository
	compare  repository.BookmarkRepository
	projects *ProjectService
}

// NewBookmarkService creates a new BookmarkService.
func NewBookmarkService(saved, compare repository.BookmarkRepository, projects *ProjectService) *BookmarkService {
	return &BookmarkService{saved: saved, compare: compare, projects: projects}
}

// Saved returns the user's saved project ids.
func (s *BookmarkService) Saved(userID string) []string {
	return s.saved.List(userID)
}

// ToggleSaved adds or removes a project id and reports whether it is now saved.
func (s *BookmarkService) ToggleSaved(userID, projectID string) (bool, error) {
	return toggleID(s.saved, userID, projectID, -1)
}

// ClearSaved empties the saved list.
func (s *BookmarkService) ClearSaved(userID string) error {
	return clearIDs(s.saved, userID)
}

// Compare returns the user's compare project ids.
func (s *BookmarkService) Compare(userID string) []string {
	return s.compare.List(userID)
}

// ToggleCompare adds or removes a project id. At most
// constants.MaxCompareProjects ids are kept.
func (s *BookmarkService) ToggleCompare(userID, projectID string) (bool, error) {
	return toggleID(s.compare, userID, projectID, constants.MaxCompareProjects)
}

// ClearCompare empties the compare list.
func (s *BookmarkService) ClearCompare(userID string) error {
	return clearIDs(s.compare, userID)
}

// SavedProjects resolves the saved ids, skipping projects that no longer exist.
func (s *BookmarkService) SavedProjects(userID string) []models.Project {
	return s.resolve(s.saved.List(userID))
}

// CompareProjects resolves the compare ids, skipping projects that no longer exist.
func (s *BookmarkService) CompareProjects(userID string) []models.Project {
	return s.resolve(s.compare.List(userID))
}

func (s *BookmarkService) resolve(ids []string) []models.Project {
	out := []models.Project{}
	for _, id := range ids {
		if p, err := s.projects.Get(id); err == nil {
			out = append(out, *p)
		}
	}
	return out
}

func toggleID(repo repository.BookmarkRepository, userID, id string, limit int) (bool, error) {
	var added bool
	_, err := repo.Update(userID, func(ids *[]string) error {
		if i := slices.Index(*ids, id); i >= 0 {
			*ids = slices.Delete(*ids, i, i+1)
			added = false
			return nil
		}
		if limit >= 0 && len(*ids) >= limit {
			return ErrCompareLimit
		}
		*ids = append(*ids, id)
		added = true
		return nil
	})
	return added, err
}

func clearIDs(repo repository.BookmarkRepository, userID string) error {
	_, err := repo.Update(userID, func(ids *[]string) error {
		*ids = []string{}
		return nil
	})
	return err
}
