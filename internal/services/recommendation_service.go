package services

import (
	"github.com/juju/clock"
	"github.com/yukikurage/vcc-collab-api/internal/models"
	"github.com/yukikurage/vcc-collab-api/internal/recommend"
	"github.com/yukikurage/vcc-collab-api/internal/repository"
)

// RecommendationService ranks stored projects for a profile.
type RecommendationService struct {
	projectRepo repository.ProjectRepository
	profileRepo repository.ProfileRepository
	clock       clock.Clock
}

// NewRecommendationService creates a new RecommendationService.
func NewRecommendationService(projectRepo repository.ProjectRepository, profileRepo repository.ProfileRepository, clk clock.Clock) *RecommendationService {
	return &RecommendationService{projectRepo: projectRepo, profileRepo: profileRepo, clock: clk}
}

// ProfileFor builds the profile used for ranking. The logged-in user wins;
// the stored profile fills in when there is no user or the user has no skills.
func (s *RecommendationService) ProfileFor(user *models.User) models.UserProfile {
	stored := s.profileRepo.Get()
	if user == nil {
		if stored == nil {
			return models.UserProfile{}
		}
		return *stored
	}

	profile := recommend.ProfileFromUser(*user)
	if len(profile.Skills) == 0 && stored != nil && (stored.Name == "" || stored.Name == user.Name) {
		profile.Skills = stored.Skills
		profile.Interests = stored.Interests
	}
	return profile
}

// SaveProfile stores the fallback profile.
func (s *RecommendationService) SaveProfile(profile models.UserProfile) error {
	return s.profileRepo.Save(profile)
}

// Recommend ranks every stored project for the user.
func (s *RecommendationService) Recommend(user *models.User, opts recommend.Options) []recommend.Score {
	return recommend.RecommendProjectsForUser(s.projectRepo.List(), s.ProfileFor(user), s.clock.Now(), opts)
}
