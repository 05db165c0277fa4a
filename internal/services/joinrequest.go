package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dimitrije/teamup-api/internal/access"
	"github.com/dimitrije/teamup-api/internal/database"
	"github.com/dimitrije/teamup-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// JoinRequestService drives the pending -> approved | rejected workflow.
// Resolved requests are terminal.
type JoinRequestService struct {
	db *database.DB
}

func NewJoinRequestService(db *database.DB) *JoinRequestService {
	return &JoinRequestService{db: db}
}

// enrichedSelect joins a request with its project and requester profile.
var enrichedSelect = `
	SELECT ` + joinRequestSelect("jr") + `, ` + projectSelect("p") + `, ` + profileSelect("pr") + `
	FROM join_requests jr
	JOIN projects p ON p.id = jr.project_id
	JOIN profiles pr ON pr.id = jr.user_id
`

func scanEnriched(row pgx.Row) (*models.JoinRequest, error) {
	var r models.JoinRequest
	var project models.Project
	var requester models.Profile

	dest := joinRequestDest(&r)
	dest = append(dest, projectDest(&project)...)
	dest = append(dest, profileDest(&requester)...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	r.Project = &project
	r.Requester = &requester
	return &r, nil
}

func (s *JoinRequestService) listEnriched(ctx context.Context, query string, args ...any) ([]models.JoinRequest, error) {
	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := []models.JoinRequest{}
	for rows.Next() {
		r, err := scanEnriched(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *r)
	}
	return requests, rows.Err()
}

// Create files a pending request from the caller. When the caller already has
// a request for the project, that request is returned with created=false.
func (s *JoinRequestService) Create(ctx context.Context, projectID, callerID uuid.UUID, message *string) (*models.JoinRequest, bool, error) {
	project, err := getProject(ctx, s.db.Pool, projectID, false)
	if err != nil && !errors.Is(err, ErrProjectNotFound) {
		return nil, false, err
	}

	role := models.RoleNone
	if project != nil {
		if role, err = callerRole(ctx, s.db.Pool, project, callerID); err != nil {
			return nil, false, err
		}
	}
	if err := decisionError(access.CanRequestToJoin(project, callerID, role), ErrProjectNotFound, ErrAlreadyMember); err != nil {
		return nil, false, err
	}

	var r models.JoinRequest
	err = s.db.Pool.QueryRow(ctx, `
		INSERT INTO join_requests (project_id, user_id, message)
		VALUES ($1, $2, $3)
		ON CONFLICT (project_id, user_id) DO NOTHING
		RETURNING `+joinRequestSelect(""),
		projectID, callerID, message,
	).Scan(joinRequestDest(&r)...)

	created := true
	if errors.Is(err, pgx.ErrNoRows) {
		created = false
		err = s.db.Pool.QueryRow(ctx, `
			SELECT `+joinRequestSelect("")+` FROM join_requests
			WHERE project_id = $1 AND user_id = $2
		`, projectID, callerID).Scan(joinRequestDest(&r)...)
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to create join request: %w", err)
	}

	r.Project = project
	return &r, created, nil
}

func (s *JoinRequestService) GetByID(ctx context.Context, id uuid.UUID) (*models.JoinRequest, error) {
	r, err := scanEnriched(s.db.Pool.QueryRow(ctx, enrichedSelect+` WHERE jr.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrJoinRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get join request: %w", err)
	}
	return r, nil
}

// ListSent returns every request the user has made, newest first.
func (s *JoinRequestService) ListSent(ctx context.Context, userID uuid.UUID) ([]models.JoinRequest, error) {
	requests, err := s.listEnriched(ctx, enrichedSelect+`
		WHERE jr.user_id = $1
		ORDER BY jr.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sent join requests: %w", err)
	}
	return requests, nil
}

// ListReceived returns the pending requests on projects led by leaderID.
// Resolved requests are not listed.
func (s *JoinRequestService) ListReceived(ctx context.Context, leaderID uuid.UUID) ([]models.JoinRequest, error) {
	requests, err := s.listEnriched(ctx, enrichedSelect+`
		WHERE p.leader = $1 AND jr.status = $2
		ORDER BY jr.created_at DESC
	`, leaderID, models.JoinRequestPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list received join requests: %w", err)
	}
	return requests, nil
}

// Review approves or rejects a pending request. Approval adds the requester
// to the team unless the team is already full.
func (s *JoinRequestService) Review(ctx context.Context, requestID uuid.UUID, status string, reviewerID uuid.UUID) (*models.JoinRequest, error) {
	if status != models.JoinRequestApproved && status != models.JoinRequestRejected {
		return nil, ErrInvalidReviewStatus
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var request models.JoinRequest
	err = tx.QueryRow(ctx, `
		SELECT `+joinRequestSelect("")+` FROM join_requests WHERE id = $1 FOR UPDATE
	`, requestID).Scan(joinRequestDest(&request)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrJoinRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load join request: %w", err)
	}

	project, err := getProject(ctx, tx, request.ProjectID, true)
	if err != nil && !errors.Is(err, ErrProjectNotFound) {
		return nil, err
	}
	if err := decisionError(access.CanReviewJoinRequest(project, &request, reviewerID), ErrJoinRequestNotFound, ErrJoinRequestResolved); err != nil {
		return nil, err
	}

	if status == models.JoinRequestApproved {
		count, err := countMembers(ctx, tx, project.ID)
		if err != nil {
			return nil, err
		}
		if count >= project.MaxTeamSize {
			return nil, ErrTeamFull
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO project_members (project_id, user_id, role)
			VALUES ($1, $2, $3)
			ON CONFLICT (project_id, user_id) DO NOTHING
		`, project.ID, request.UserID, string(models.RoleMember))
		if err != nil {
			return nil, fmt.Errorf("failed to add member: %w", err)
		}
	}

	var updated models.JoinRequest
	err = tx.QueryRow(ctx, `
		UPDATE join_requests
		SET status = $1, reviewed_by = $2, reviewed_at = NOW(), updated_at = NOW()
		WHERE id = $3
		RETURNING `+joinRequestSelect(""),
		status, reviewerID, requestID,
	).Scan(joinRequestDest(&updated)...)
	if err != nil {
		return nil, fmt.Errorf("failed to update join request: %w", err)
	}

	requester, err := getProfile(ctx, tx, updated.UserID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	updated.Project = project
	updated.Requester = requester
	return &updated, nil
}
