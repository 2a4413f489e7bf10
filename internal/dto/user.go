package dto

import (
	"time"

	"github.com/yukikurage/vcc-collab-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Email       string              `json:"email"`
	Skills      []string            `json:"skills"`
	Badges      []string            `json:"badges"`
	Experiences []models.Experience `json:"experiences"`
	Bio         string              `json:"bio"`
	Links       models.Links        `json:"links"`
	CreatedAt   time.Time           `json:"createdAt"`
}

// PublicUserDTO represents another user as seen by the logged-in user
type PublicUserDTO struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Skills      []string            `json:"skills"`
	Badges      []string            `json:"badges"`
	Experiences []models.Experience `json:"experiences"`
	Bio         string              `json:"bio"`
	Links       models.Links        `json:"links"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Skills:      orEmpty(user.Skills),
		Badges:      orEmpty(user.Badges),
		Experiences: orEmptyExperiences(user.Experiences),
		Bio:         user.Bio,
		Links:       orEmptyLinks(user.Links),
		CreatedAt:   user.CreatedAt,
	}
}

// ToPublicUserDTO converts a User model to PublicUserDTO
func ToPublicUserDTO(user models.User) PublicUserDTO {
	return PublicUserDTO{
		ID:          user.ID,
		Name:        user.Name,
		Skills:      orEmpty(user.Skills),
		Badges:      orEmpty(user.Badges),
		Experiences: orEmptyExperiences(user.Experiences),
		Bio:         user.Bio,
		Links:       orEmptyLinks(user.Links),
	}
}

// ToPublicUserDTOs converts a slice of users
func ToPublicUserDTOs(users []models.User) []PublicUserDTO {
	out := make([]PublicUserDTO, len(users))
	for i, u := range users {
		out[i] = ToPublicUserDTO(u)
	}
	return out
}

func orEmpty(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

func orEmptyExperiences(list []models.Experience) []models.Experience {
	if list == nil {
		return []models.Experience{}
	}
	return list
}

func orEmptyLinks(links models.Links) models.Links {
	if links == nil {
		return models.Links{}
	}
	return links
}
