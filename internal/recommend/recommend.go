// Package recommend ranks projects for a user profile by skill overlap,
// freshness and how much the team still needs people.
package recommend

import (
	"sort"
	"strings"
	"time"

	"github.com/yukikurage/vcc-collab-api/internal/models"
)

const (
	skillShare   = 0.7
	recencyShare = 0.2
	needShare    = 0.1

	recencyWindowDays = 90.0
	teamSizeCap       = 8.0

	DefaultLimit    = 6
	DefaultMinScore = 0.05
)

// Score is one project's blended relevance with its components.
type Score struct {
	Project         models.Project `json:"project"`
	Score           float64        `json:"score"`
	Matches         int            `json:"matches"`
	SkillMatchRatio float64        `json:"skillMatchRatio"`
	RecencyScore    float64        `json:"recencyScore"`
	NeedScore       float64        `json:"needScore"`
}

// Options tunes RecommendProjectsForUser. Zero Limit and MinScore take the defaults.
type Options struct {
	Limit              int
	MinScore           *float64
	IncludeOwnProjects bool
}

// ScoreProjectForUser blends 70% skill overlap, 20% recency and 10% team need.
//
// Skill overlap counts project skills present in the profile and divides by
// the profile's skill count. Recency decays linearly to zero over 90 days.
// Need decays linearly to zero as membership reaches 8.
func ScoreProjectForUser(project models.Project, profile models.UserProfile, now time.Time) Score {
	matches := 0
	for _, s := range project.Skills {
		for _, us := range profile.Skills {
			if normalize(us) == normalize(s) {
				matches++
				break
			}
		}
	}

	var ratio float64
	if len(profile.Skills) > 0 {
		ratio = float64(matches) / float64(len(profile.Skills))
	}

	var created time.Time
	if !project.CreatedAt.IsZero() {
		created = project.CreatedAt
	} else {
		created = time.Unix(0, 0)
	}
	ageDays := now.Sub(created).Hours() / 24
	recency := max(0, 1-min(ageDays/recencyWindowDays, 1))

	need := 1 - min(float64(len(project.Members))/teamSizeCap, 1)

	return Score{
		Project:         project,
		Score:           ratio*skillShare + recency*recencyShare + need*needShare,
		Matches:         matches,
		SkillMatchRatio: ratio,
		RecencyScore:    recency,
		NeedScore:       need,
	}
}

// RecommendProjectsForUser ranks projects for profile.
//
// A profile without skills gets the newest projects with zero scores.
// Otherwise projects the profile owns or has joined are dropped unless
// opts.IncludeOwnProjects is set, and the rest are scored, filtered by
// MinScore and sorted by score.
func RecommendProjectsForUser(projects []models.Project, profile models.UserProfile, now time.Time, opts Options) []Score {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	minScore := DefaultMinScore
	if opts.MinScore != nil {
		minScore = *opts.MinScore
	}

	if len(profile.Skills) == 0 {
		newest := make([]models.Project, len(projects))
		copy(newest, projects)
		sort.SliceStable(newest, func(i, j int) bool {
			return newest[i].CreatedAt.After(newest[j].CreatedAt)
		})
		if len(newest) > limit {
			newest = newest[:limit]
		}
		out := make([]Score, len(newest))
		for i, p := range newest {
			out[i] = Score{Project: p}
		}
		return out
	}

	name := strings.ToLower(profile.Name)
	scored := make([]Score, 0, len(projects))
	for _, p := range projects {
		if !opts.IncludeOwnProjects && (strings.ToLower(p.Owner) == name || joined(p, name)) {
			continue
		}
		s := ScoreProjectForUser(p, profile, now)
		if s.Score >= minScore {
			scored = append(scored, s)
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// ProfileFromUser builds a recommendation profile from a directory user.
func ProfileFromUser(u models.User) models.UserProfile {
	return models.UserProfile{
		Name:   u.Name,
		Skills: u.Skills,
	}
}

func joined(p models.Project, lowerName string) bool {
	for _, m := range p.Members {
		if strings.ToLower(m.Name) == lowerName {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
