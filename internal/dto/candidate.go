package dto

import (
	"github.com/yukikurage/vcc-collab-api/internal/matching"
)

// CandidateDTO represents a ranked candidate without private account fields
type CandidateDTO struct {
	ID   string        `json:"id"`
	Name string        `json:"name"`
	User PublicUserDTO `json:"user"`
	matching.Result
	Reasons []string `json:"reasons"`
}

// ToCandidateList converts ranked candidates to their public form
func ToCandidateList(candidates []matching.Candidate) []CandidateDTO {
	items := make([]CandidateDTO, len(candidates))
	for i, cand := range candidates {
		items[i] = CandidateDTO{
			ID:      cand.ID,
			Name:    cand.Name,
			User:    ToPublicUserDTO(cand.User),
			Result:  cand.Result,
			Reasons: orEmpty(cand.Reasons),
		}
	}
	return items
}
