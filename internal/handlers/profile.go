package handlers

import (
	"net/http"

	"github.com/dimitrije/teamup-api/internal/validation"
	"github.com/dimitrije/teamup-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

type ProfileHandler struct {
	profileService ProfileServiceInterface
}

func NewProfileHandler(profileService ProfileServiceInterface) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

func (h *ProfileHandler) GetMe(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetCurrent(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to load profile")
		return
	}

	_ = c.JSON(http.StatusOK, dto.CurrentProfileResponse{Profile: *profile, Email: profile.Email})
}

func (h *ProfileHandler) UpdateMe(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	update, err := validation.ProfileUpdate(req)
	if err != nil {
		respondError(c, err, "failed to update profile")
		return
	}

	profile, err := h.profileService.Update(c.Request.Context(), userID, update)
	if err != nil {
		respondError(c, err, "failed to update profile")
		return
	}

	_ = c.JSON(http.StatusOK, dto.CurrentProfileResponse{Profile: *profile, Email: profile.Email})
}

func (h *ProfileHandler) GetByID(c *drift.Context) {
	id, ok := paramID(c, "id", "profile")
	if !ok {
		return
	}

	profile, err := h.profileService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "failed to load profile")
		return
	}

	_ = c.JSON(http.StatusOK, profile)
}
