package dto

import (
	"github.com/dimitrije/teamup-api/internal/models"
	"github.com/google/uuid"
)

type CreateProjectRequest struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Description string   `json:"description" validate:"required,max=5000"`
	Tags        []string `json:"tags" validate:"max=20,dive,max=50"`
	LookingFor  []string `json:"looking_for" validate:"min=1,max=20,dive,max=100"`
	MaxTeamSize int      `json:"max_team_size" validate:"min=3,max=9"`
}

type UpdateProjectRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Tags        *[]string `json:"tags"`
	LookingFor  []string  `json:"looking_for"`
	MaxTeamSize *int      `json:"max_team_size"`
}

type ProjectListResponse struct {
	Projects []models.ProjectWithRole `json:"projects"`
}

type JoinProjectRequest struct {
	Message string `json:"message" validate:"max=1000"`
}

type LeaveProjectResponse struct {
	ProjectID uuid.UUID `json:"project_id"`
	Left      bool      `json:"left"`
}
