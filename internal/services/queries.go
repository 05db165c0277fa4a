package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dimitrije/teamup-api/internal/access"
	"github.com/dimitrije/teamup-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// rowQuerier is satisfied by both the pool and a transaction.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var projectColumns = []string{
	"id", "title", "description", "tags", "looking_for", "max_team_size", "leader", "created_at", "updated_at",
}

var joinRequestColumns = []string{
	"id", "project_id", "user_id", "message", "status", "reviewed_by", "reviewed_at", "created_at", "updated_at",
}

func columnList(columns []string, alias string) string {
	if alias == "" {
		return strings.Join(columns, ", ")
	}
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = alias + "." + c
	}
	return strings.Join(out, ", ")
}

func projectSelect(alias string) string     { return columnList(projectColumns, alias) }
func joinRequestSelect(alias string) string { return columnList(joinRequestColumns, alias) }

func projectDest(p *models.Project) []any {
	return []any{&p.ID, &p.Title, &p.Description, &p.Tags, &p.LookingFor, &p.MaxTeamSize, &p.LeaderID, &p.CreatedAt, &p.UpdatedAt}
}

func joinRequestDest(r *models.JoinRequest) []any {
	return []any{&r.ID, &r.ProjectID, &r.UserID, &r.Message, &r.Status, &r.ReviewedBy, &r.ReviewedAt, &r.CreatedAt, &r.UpdatedAt}
}

func getProject(ctx context.Context, q rowQuerier, id uuid.UUID, lock bool) (*models.Project, error) {
	query := `SELECT ` + projectSelect("") + ` FROM projects WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}

	var p models.Project
	err := q.QueryRow(ctx, query, id).Scan(projectDest(&p)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &p, nil
}

func getProfile(ctx context.Context, q rowQuerier, id uuid.UUID) (*models.Profile, error) {
	var p models.Profile
	err := q.QueryRow(ctx,
		`SELECT `+profileSelect("")+` FROM profiles WHERE id = $1`, id,
	).Scan(profileDest(&p)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

func countMembers(ctx context.Context, q rowQuerier, projectID uuid.UUID) (int, error) {
	var n int
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM project_members WHERE project_id = $1`, projectID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count members: %w", err)
	}
	return n, nil
}

// callerRole derives the caller's role on a single project.
func callerRole(ctx context.Context, q rowQuerier, project *models.Project, callerID uuid.UUID) (models.Role, error) {
	if callerID == uuid.Nil || access.IsLeader(project, callerID) {
		return access.DeriveRole(project, callerID, nil, nil), nil
	}

	var isMember, isPending bool
	err := q.QueryRow(ctx, `
		SELECT
			EXISTS(SELECT 1 FROM project_members WHERE project_id = $1 AND user_id = $2),
			EXISTS(SELECT 1 FROM join_requests WHERE project_id = $1 AND user_id = $2 AND status = $3)
	`, project.ID, callerID, models.JoinRequestPending).Scan(&isMember, &isPending)
	if err != nil {
		return models.RoleNone, fmt.Errorf("failed to load caller role: %w", err)
	}

	var memberOf, pendingFor access.ProjectSet
	if isMember {
		memberOf = access.NewProjectSet(project.ID)
	}
	if isPending {
		pendingFor = access.NewProjectSet(project.ID)
	}
	return access.DeriveRole(project, callerID, memberOf, pendingFor), nil
}

func collectIDs(rows pgx.Rows) (access.ProjectSet, error) {
	defer rows.Close()

	set := access.ProjectSet{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		set[id] = struct{}{}
	}
	return set, rows.Err()
}

func collectProjects(rows pgx.Rows) ([]models.Project, error) {
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(projectDest(&p)...); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}
