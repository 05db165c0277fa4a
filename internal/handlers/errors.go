package handlers

import (
	"errors"
	"net/http"

	"github.com/dimitrije/teamup-api/internal/logger"
	"github.com/dimitrije/teamup-api/internal/services"
	"github.com/dimitrije/teamup-api/internal/validation"
	"github.com/dimitrije/teamup-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

var (
	notFoundErrors = []error{
		services.ErrProfileNotFound,
		services.ErrProjectNotFound,
		services.ErrJoinRequestNotFound,
		services.ErrNotMember,
	}
	conflictErrors = []error{
		services.ErrUsernameTaken,
		services.ErrAlreadyMember,
		services.ErrTeamFull,
		services.ErrJoinRequestResolved,
	}
	badRequestErrors = []error{
		services.ErrLeaderCannotLeave,
		services.ErrCannotRemoveLeader,
		services.ErrTeamSizeTooSmall,
		services.ErrInvalidReviewStatus,
		services.ErrNoFieldsToUpdate,
	}
)

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// respondError maps service and validation errors to responses. Anything
// unknown is logged and answered with a generic 500 carrying msg.
func respondError(c *drift.Context, err error, msg string) {
	if fields, ok := validation.AsErrors(err); ok {
		_ = c.JSON(http.StatusBadRequest, dto.ValidationErrorResponse{
			Error:  fields.Error(),
			Fields: fields,
		})
		return
	}

	switch {
	case isAny(err, notFoundErrors):
		c.NotFound(err.Error())
	case errors.Is(err, services.ErrNotProjectLeader):
		c.Forbidden(err.Error())
	case isAny(err, conflictErrors):
		_ = c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	case isAny(err, badRequestErrors):
		c.BadRequest(err.Error())
	default:
		logger.Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg(msg)
		c.InternalServerError(msg)
	}
}
