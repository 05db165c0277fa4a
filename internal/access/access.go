// Package access derives a caller's role on a project and decides whether the
// caller may perform an action. It never touches the database; callers load
// the rows and pass them in.
package access

import (
	"github.com/dimitrije/teamup-api/internal/models"
	"github.com/google/uuid"
)

type Decision int

const (
	Allow Decision = iota
	NotFound
	Forbidden
	Conflict
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case NotFound:
		return "not_found"
	case Forbidden:
		return "forbidden"
	case Conflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// ProjectSet is a set of project ids.
type ProjectSet map[uuid.UUID]struct{}

func NewProjectSet(ids ...uuid.UUID) ProjectSet {
	set := make(ProjectSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (s ProjectSet) Has(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}

// DeriveRole checks leader, then membership, then a pending request. An
// anonymous caller has no role.
func DeriveRole(project *models.Project, callerID uuid.UUID, memberOf, pendingFor ProjectSet) models.Role {
	if project == nil || callerID == uuid.Nil {
		return models.RoleNone
	}
	switch {
	case project.LeaderID == callerID:
		return models.RoleLeader
	case memberOf.Has(project.ID):
		return models.RoleMember
	case pendingFor.Has(project.ID):
		return models.RolePending
	default:
		return models.RoleNone
	}
}

func IsLeader(project *models.Project, callerID uuid.UUID) bool {
	return project != nil && callerID != uuid.Nil && project.LeaderID == callerID
}

// CanManageProject covers update, delete and member removal.
func CanManageProject(project *models.Project, callerID uuid.UUID) Decision {
	if project == nil {
		return NotFound
	}
	if !IsLeader(project, callerID) {
		return Forbidden
	}
	return Allow
}

func CanReviewJoinRequest(project *models.Project, request *models.JoinRequest, reviewerID uuid.UUID) Decision {
	if project == nil || request == nil || request.ProjectID != project.ID {
		return NotFound
	}
	if !IsLeader(project, reviewerID) {
		return Forbidden
	}
	if !request.IsPending() {
		return Conflict
	}
	return Allow
}

// CanLeaveProject refuses the leader, who has to delete the project instead.
func CanLeaveProject(project *models.Project, callerID uuid.UUID, isMember bool) Decision {
	if project == nil {
		return NotFound
	}
	if IsLeader(project, callerID) {
		return Forbidden
	}
	if !isMember {
		return NotFound
	}
	return Allow
}

// CanRequestToJoin allows a pending caller through; the existing request is
// returned by the insert.
func CanRequestToJoin(project *models.Project, callerID uuid.UUID, role models.Role) Decision {
	if project == nil {
		return NotFound
	}
	if IsLeader(project, callerID) || role == models.RoleLeader || role == models.RoleMember {
		return Conflict
	}
	return Allow
}
