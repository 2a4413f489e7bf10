package services

import (
	"github.com/yukikurage/vcc-collab-api/internal/matching"
)

// MatchService ranks directory users against stored projects.
type MatchService struct {
	projects *ProjectService
	users    *AuthService
}

// NewMatchService creates a new MatchService.
func NewMatchService(projects *ProjectService, users *AuthService) *MatchService {
	return &MatchService{projects: projects, users: users}
}

// Candidates returns at most limit users scoring at least minScore for the
// project. A negative limit returns every candidate.
func (s *MatchService) Candidates(projectID string, limit int, minScore float64) ([]matching.Candidate, error) {
	p, err := s.projects.Get(projectID)
	if err != nil {
		return nil, err
	}
	return matching.TopCandidates(*p, s.users.List(), limit, minScore), nil
}

// MatchUser scores the named user against the project.
func (s *MatchService) MatchUser(projectID, name string) (*matching.Match, error) {
	p, err := s.projects.Get(projectID)
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetByName(name)
	if err != nil {
		return nil, err
	}
	return matching.MatchUserToProject(*p, *u), nil
}
