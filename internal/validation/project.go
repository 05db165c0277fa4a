package validation

import (
	"strings"

	"github.com/dimitrije/teamup-api/internal/models"
	"github.com/dimitrije/teamup-api/pkg/dto"
)

// ProjectInput normalizes and validates a create request. An empty tag list is
// stored as NULL.
func ProjectInput(req dto.CreateProjectRequest) (models.ProjectInput, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.Tags = CleanList(req.Tags)
	req.LookingFor = CleanList(req.LookingFor)

	if err := Struct(req); err != nil {
		return models.ProjectInput{}, err
	}

	tags := req.Tags
	if len(tags) == 0 {
		tags = nil
	}

	return models.ProjectInput{
		Title:       req.Title,
		Description: req.Description,
		Tags:        tags,
		LookingFor:  req.LookingFor,
		MaxTeamSize: req.MaxTeamSize,
	}, nil
}

// ProjectPatch applies the create rules to every field present in req.
func ProjectPatch(req dto.UpdateProjectRequest) (models.ProjectPatch, error) {
	var c collector
	var patch models.ProjectPatch

	if req.Title != nil {
		patch.Title = trimPtr(req.Title)
		c.check("title", *patch.Title, "required,max=255")
	}
	if req.Description != nil {
		patch.Description = trimPtr(req.Description)
		c.check("description", *patch.Description, "required,max=5000")
	}
	if req.Tags != nil {
		tags := CleanList(*req.Tags)
		if tags == nil {
			tags = []string{}
		}
		c.check("tags", tags, "max=20,dive,max=50")
		patch.Tags = &tags
	}
	if req.LookingFor != nil {
		patch.LookingFor = CleanList(req.LookingFor)
		c.check("looking_for", patch.LookingFor, "min=1,max=20,dive,max=100")
	}
	if req.MaxTeamSize != nil {
		size := *req.MaxTeamSize
		patch.MaxTeamSize = &size
		c.check("max_team_size", size, "min=3,max=9")
	}

	if err := c.err(); err != nil {
		return models.ProjectPatch{}, err
	}
	return patch, nil
}

// JoinMessage trims the optional message sent with a join request.
func JoinMessage(req dto.JoinProjectRequest) (*string, error) {
	msg := strings.TrimSpace(req.Message)
	req.Message = msg
	if err := Struct(req); err != nil {
		return nil, err
	}
	if msg == "" {
		return nil, nil
	}
	return &msg, nil
}
