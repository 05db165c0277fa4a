package services

import (
	"errors"

	"github.com/dimitrije/teamup-api/internal/access"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrProfileNotFound     = errors.New("profile not found")
	ErrUsernameTaken       = errors.New("username is already taken")
	ErrProjectNotFound     = errors.New("project not found")
	ErrNotProjectLeader    = errors.New("only the project leader can do this")
	ErrLeaderCannotLeave   = errors.New("project leader cannot leave the project; delete it instead")
	ErrNotMember           = errors.New("user is not a member of this project")
	ErrAlreadyMember       = errors.New("user is already part of this project")
	ErrCannotRemoveLeader  = errors.New("project leader cannot be removed")
	ErrTeamFull            = errors.New("project team is full")
	ErrTeamSizeTooSmall    = errors.New("team size cannot be lower than the current member count")
	ErrJoinRequestNotFound = errors.New("join request not found")
	ErrJoinRequestResolved = errors.New("join request has already been reviewed")
	ErrInvalidReviewStatus = errors.New("status must be approved or rejected")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrNoFieldsToUpdate    = errors.New("no fields to update")
)

const uniqueViolation = "23505"

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// decisionError turns an access decision into the matching sentinel.
func decisionError(d access.Decision, notFound, conflict error) error {
	switch d {
	case access.Allow:
		return nil
	case access.NotFound:
		return notFound
	case access.Forbidden:
		return ErrNotProjectLeader
	case access.Conflict:
		return conflict
	default:
		return ErrNotProjectLeader
	}
}
