package handlers

import (
	"net/http"

	"github.com/dimitrije/teamup-api/internal/logger"
	"github.com/dimitrije/teamup-api/internal/middleware"
	"github.com/dimitrije/teamup-api/internal/validation"
	"github.com/dimitrije/teamup-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

type ProjectHandler struct {
	projectService ProjectServiceInterface
	hub            HubInterface
}

func NewProjectHandler(projectService ProjectServiceInterface, hub HubInterface) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		hub:            hub,
	}
}

// List is the browse view. Anonymous callers get every project with a null
// role.
func (h *ProjectHandler) List(c *drift.Context) {
	projects, err := h.projectService.ListWithUserStatus(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err, "failed to load projects")
		return
	}

	_ = c.JSON(http.StatusOK, dto.ProjectListResponse{Projects: projects})
}

func (h *ProjectHandler) Mine(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	projects, err := h.projectService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to load projects")
		return
	}

	_ = c.JSON(http.StatusOK, dto.ProjectListResponse{Projects: projects})
}

func (h *ProjectHandler) Create(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	input, err := validation.ProjectInput(req)
	if err != nil {
		respondError(c, err, "failed to create project")
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, err, "failed to create project")
		return
	}

	_ = c.JSON(http.StatusCreated, project)
}

func (h *ProjectHandler) Get(c *drift.Context) {
	id, ok := paramID(c, "id", "project")
	if !ok {
		return
	}

	details, err := h.projectService.GetWithMembers(c.Request.Context(), id, middleware.GetUserID(c))
	if err != nil {
		respondError(c, err, "failed to load project")
		return
	}
	if details.MembersUnavailable {
		logger.Warn().Str("project_id", id.String()).Msg("project members could not be loaded")
	}

	_ = c.JSON(http.StatusOK, details)
}

func (h *ProjectHandler) Update(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	id, ok := paramID(c, "id", "project")
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	patch, err := validation.ProjectPatch(req)
	if err != nil {
		respondError(c, err, "failed to update project")
		return
	}

	project, err := h.projectService.Update(c.Request.Context(), id, userID, patch)
	if err != nil {
		respondError(c, err, "failed to update project")
		return
	}

	h.hub.NotifyProjectUpdated(project.ID)

	_ = c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) Delete(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	id, ok := paramID(c, "id", "project")
	if !ok {
		return
	}

	if err := h.projectService.Delete(c.Request.Context(), id, userID); err != nil {
		respondError(c, err, "failed to delete project")
		return
	}

	h.hub.NotifyProjectDeleted(id)

	_ = c.JSON(http.StatusOK, map[string]string{"message": "project deleted"})
}

func (h *ProjectHandler) Leave(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	id, ok := paramID(c, "id", "project")
	if !ok {
		return
	}

	if err := h.projectService.Leave(c.Request.Context(), id, userID); err != nil {
		respondError(c, err, "failed to leave project")
		return
	}

	h.hub.NotifyMemberLeft(id, userID)

	_ = c.JSON(http.StatusOK, dto.LeaveProjectResponse{ProjectID: id, Left: true})
}

func (h *ProjectHandler) RemoveMember(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	id, ok := paramID(c, "id", "project")
	if !ok {
		return
	}

	memberID, ok := paramID(c, "userId", "user")
	if !ok {
		return
	}

	if err := h.projectService.RemoveMember(c.Request.Context(), id, userID, memberID); err != nil {
		respondError(c, err, "failed to remove member")
		return
	}

	h.hub.NotifyMemberLeft(id, memberID)

	_ = c.JSON(http.StatusOK, map[string]string{"message": "member removed"})
}
