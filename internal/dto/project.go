package dto

import (
	"time"

	"github.com/yukikurage/vcc-collab-api/internal/models"
)

// ProjectDTO represents a full project with its derived status
type ProjectDTO struct {
	models.Project
	EffectiveStatus models.ProjectStatus `json:"effectiveStatus"`
	RemainingSlots  int                  `json:"remainingSlots"`
}

// ProjectListItemDTO represents a project in list responses (minimal data)
type ProjectListItemDTO struct {
	ID                string               `json:"id"`
	Title             string               `json:"title"`
	Description       string               `json:"description"`
	Skills            []string             `json:"skills"`
	RolesNeeded       []string             `json:"rolesNeeded"`
	CollaborationType string               `json:"collaborationType,omitempty"`
	Timeline          string               `json:"timeline,omitempty"`
	Thumbnail         string               `json:"thumbnail"`
	Owner             string               `json:"owner"`
	Status            models.ProjectStatus `json:"status"`
	EffectiveStatus   models.ProjectStatus `json:"effectiveStatus"`
	RemainingSlots    int                  `json:"remainingSlots"`
	MemberCount       int                  `json:"memberCount"`
	CreatedAt         time.Time            `json:"createdAt"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(p models.Project) ProjectDTO {
	return ProjectDTO{
		Project:         p,
		EffectiveStatus: p.EffectiveStatus(),
		RemainingSlots:  p.RemainingSlots(),
	}
}

// ToProjectListItemDTO converts a Project model to ProjectListItemDTO
func ToProjectListItemDTO(p models.Project) ProjectListItemDTO {
	return ProjectListItemDTO{
		ID:                p.ID,
		Title:             p.Title,
		Description:       p.Description,
		Skills:            orEmpty(p.Skills),
		RolesNeeded:       orEmpty(p.RolesNeeded),
		CollaborationType: p.CollaborationType,
		Timeline:          p.Timeline,
		Thumbnail:         p.Thumbnail,
		Owner:             p.Owner,
		Status:            p.Status,
		EffectiveStatus:   p.EffectiveStatus(),
		RemainingSlots:    p.RemainingSlots(),
		MemberCount:       len(p.Members),
		CreatedAt:         p.CreatedAt,
	}
}

// ToProjectList converts a slice of projects to list items
func ToProjectList(projects []models.Project) []ProjectListItemDTO {
	items := make([]ProjectListItemDTO, len(projects))
	for i, p := range projects {
		items[i] = ToProjectListItemDTO(p)
	}
	return items
}
