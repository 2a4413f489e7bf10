// Package matching scores users against a project's required skills and
// ranks candidates for invitation.
package matching

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/yukikurage/vcc-collab-api/internal/models"
)

const (
	skillWeight      = 12.0
	badgeWeight      = 6.0
	experienceWeight = 4.0
	relevanceStep    = 0.1
	multiMatchBonus  = 4.0
	multiMatchCount  = 3

	// DefaultMinScore is the candidate cut-off used when none is given.
	DefaultMinScore = 1.0
)

// Match categories.
const (
	CategoryStrong = "Sangat Cocok"
	CategoryGood   = "Cocok"
	CategoryWeak   = "Kurang Cocok"
)

// Result is the breakdown of one user scored against a skill list.
type Result struct {
	Score             float64             `json:"score"`
	MatchedSkills     []string            `json:"matchedSkills"`
	MatchedBadges     []string            `json:"matchedBadges"`
	MatchedExperience []models.Experience `json:"matchedExperience"`
	RelevanceWeight   float64             `json:"relevanceWeight"`
}

// TotalMatches is the number of matched skills, badges and experiences.
func (r Result) TotalMatches() int {
	return len(r.MatchedSkills) + len(r.MatchedBadges) + len(r.MatchedExperience)
}

// Candidate is a scored user in a ranked candidate list.
type Candidate struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	User  models.User `json:"user"`
	Result
	Reasons []string `json:"reasons"`
}

// Match is the normalized compatibility of one user with one project.
type Match struct {
	ScoreRaw          float64             `json:"scoreRaw"`
	ScorePercent      int                 `json:"scorePercent"`
	Category          string              `json:"category"`
	MatchedSkills     []string            `json:"matchedSkills"`
	MatchedBadges     []string            `json:"matchedBadges"`
	MatchedExperience []models.Experience `json:"matchedExperience"`
	Reasons           []string            `json:"reasons"`
}

// CalculateMatchScore scores a user's skills, badges and experiences against
// the required skills.
//
// Each user skill equal to a required skill (case-insensitive, trimmed) is
// worth 12. Each distinct badge that contains or is contained in a required
// skill is worth 6. Each experience whose "title role" text contains a
// required skill is worth 4, at most once per entry. The sum is multiplied
// by 1 + 0.1 per matched skill, then 4 is added when at least three things
// matched in total.
func CalculateMatchScore(required, userSkills, userBadges []string, exps []models.Experience) Result {
	res := Result{
		MatchedSkills:     []string{},
		MatchedBadges:     []string{},
		MatchedExperience: []models.Experience{},
	}

	req := make([]string, len(required))
	for i, s := range required {
		req[i] = normalize(s)
	}

	var score float64

	for _, skill := range userSkills {
		if slices.Contains(req, normalize(skill)) {
			res.MatchedSkills = append(res.MatchedSkills, skill)
			score += skillWeight
		}
	}

	for _, badge := range userBadges {
		b := strings.ToLower(badge)
		for _, r := range req {
			if strings.Contains(b, r) || strings.Contains(r, b) {
				if !slices.Contains(res.MatchedBadges, badge) {
					res.MatchedBadges = append(res.MatchedBadges, badge)
					score += badgeWeight
				}
			}
		}
	}

	for _, exp := range exps {
		text := strings.ToLower(exp.Title + " " + exp.Role)
		for _, r := range req {
			if r != "" && strings.Contains(text, r) {
				res.MatchedExperience = append(res.MatchedExperience, exp)
				score += experienceWeight
				break
			}
		}
	}

	res.RelevanceWeight = 1 + float64(len(res.MatchedSkills))*relevanceStep
	score *= res.RelevanceWeight

	if res.TotalMatches() >= multiMatchCount {
		score += multiMatchBonus
	}

	res.Score = score
	return res
}

// BuildReasons renders the human-readable explanation of a result.
func BuildReasons(res Result) []string {
	var reasons []string

	if len(res.MatchedSkills) > 0 {
		reasons = append(reasons, "Skill cocok: "+strings.Join(firstN(res.MatchedSkills, 5), ", "))
	}
	if len(res.MatchedBadges) > 0 {
		reasons = append(reasons, "Badge relevan: "+strings.Join(firstN(res.MatchedBadges, 5), ", "))
	}
	if len(res.MatchedExperience) > 0 {
		labels := make([]string, 0, len(res.MatchedExperience))
		for _, e := range res.MatchedExperience {
			switch {
			case e.Title != "":
				labels = append(labels, e.Title)
			case e.Role != "":
				labels = append(labels, e.Role)
			default:
				labels = append(labels, "pengalaman")
			}
		}
		reasons = append(reasons, "Pengalaman terkait: "+strings.Join(firstN(labels, 3), "; "))
	}

	reasons = append(reasons, fmt.Sprintf("Relevansi +%.0f%%", (res.RelevanceWeight-1)*100))
	reasons = append(reasons, fmt.Sprintf("Total Score: %d", roundHalfUp(res.Score)))
	return reasons
}

// ScoreUser scores one user against the project's skills.
func ScoreUser(project models.Project, user models.User) Candidate {
	res := CalculateMatchScore(project.Skills, user.Skills, user.Badges, user.Experiences)
	return Candidate{
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		User:    user,
		Result:  res,
		Reasons: BuildReasons(res),
	}
}

// MatchCandidates ranks every user except the project owner by score,
// keeping those scoring at least minScore. Ties keep directory order.
func MatchCandidates(project models.Project, users []models.User, minScore float64) []Candidate {
	candidates := make([]Candidate, 0, len(users))
	for _, u := range users {
		if isOwner(project, u) {
			continue
		}
		c := ScoreUser(project, u)
		if c.Score >= minScore {
			candidates = append(candidates, c)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}

// TopCandidates returns at most n of the ranked candidates.
func TopCandidates(project models.Project, users []models.User, n int, minScore float64) []Candidate {
	candidates := MatchCandidates(project, users, minScore)
	if n >= 0 && len(candidates) > n {
		candidates = candidates[:n]
	}
	return candidates
}

// MatchUserToProject normalizes the user's score into a 0-100 percentage
// against a heuristic maximum derived from the number of required skills.
func MatchUserToProject(project models.Project, user models.User) *Match {
	res := CalculateMatchScore(project.Skills, user.Skills, user.Badges, user.Experiences)

	required := float64(len(project.Skills))
	maxSkillScore := math.Max(required*skillWeight, 1)
	estBonus := math.Min(required*10, 40)
	theoreticalMax := (maxSkillScore+estBonus)*1.5 + multiMatchBonus

	percent := roundHalfUp(res.Score / theoreticalMax * 100)
	if percent > 100 {
		percent = 100
	}

	return &Match{
		ScoreRaw:          res.Score,
		ScorePercent:      percent,
		Category:          categorize(percent),
		MatchedSkills:     res.MatchedSkills,
		MatchedBadges:     res.MatchedBadges,
		MatchedExperience: res.MatchedExperience,
		Reasons:           BuildReasons(res),
	}
}

func categorize(percent int) string {
	switch {
	case percent >= 80:
		return CategoryStrong
	case percent >= 50:
		return CategoryGood
	default:
		return CategoryWeak
	}
}

func isOwner(project models.Project, u models.User) bool {
	if u.Name == project.Owner {
		return true
	}
	return project.OwnerID != "" && u.ID == project.OwnerID
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func firstN(list []string, n int) []string {
	if len(list) > n {
		return list[:n]
	}
	return list
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
