package dto

import (
	"time"

	"github.com/milad-sol/task-manager/internal/models"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     uint64    `json:"owner_id"`
	Owner       *UserDTO  `json:"owner,omitempty"`
	Members     []UserDTO `json:"members,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProjectListResponse represents a paginated list of projects
type ProjectListResponse struct {
	Projects   []ProjectDTO `json:"projects"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalCount int64        `json:"total_count"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		OwnerID:     project.OwnerID,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}

	// Include owner if preloaded
	if project.Owner.ID != 0 {
		owner := ToUserDTO(project.Owner)
		dto.Owner = &owner
	}

	// Include members if preloaded
	if len(project.Members) > 0 {
		dto.Members = make([]UserDTO, len(project.Members))
		for i, member := range project.Members {
			dto.Members[i] = ToUserDTO(member)
		}
	}

	return dto
}

// ToProjectListResponse converts a slice of projects to ProjectListResponse
func ToProjectListResponse(projects []models.Project, page, pageSize int, totalCount int64) ProjectListResponse {
	items := make([]ProjectDTO, len(projects))
	for i, project := range projects {
		items[i] = ToProjectDTO(project)
	}

	return ProjectListResponse{
		Projects:   items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
	}
}
