package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dimitrije/teamup-api/internal/access"
	"github.com/dimitrije/teamup-api/internal/cache"
	"github.com/dimitrije/teamup-api/internal/database"
	"github.com/dimitrije/teamup-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ProjectService struct {
	db    *database.DB
	cache cache.ProjectCache
}

func NewProjectService(db *database.DB, projectCache cache.ProjectCache) *ProjectService {
	if projectCache == nil {
		projectCache = cache.Noop{}
	}
	return &ProjectService{db: db, cache: projectCache}
}

// Create inserts the project and the leader's membership row together.
func (s *ProjectService) Create(ctx context.Context, leaderID uuid.UUID, in models.ProjectInput) (*models.Project, error) {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var project models.Project
	err = tx.QueryRow(ctx, `
		INSERT INTO projects (title, description, tags, looking_for, max_team_size, leader)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+projectSelect(""),
		in.Title, in.Description, in.Tags, in.LookingFor, in.MaxTeamSize, leaderID,
	).Scan(projectDest(&project)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO project_members (project_id, user_id, role)
		VALUES ($1, $2, $3)
	`, project.ID, leaderID, string(models.RoleLeader))
	if err != nil {
		return nil, fmt.Errorf("failed to add leader as member: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.cache.Invalidate(ctx)
	return &project, nil
}

func (s *ProjectService) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return getProject(ctx, s.db.Pool, id, false)
}

// ListAll returns every project, newest first.
func (s *ProjectService) ListAll(ctx context.Context) ([]models.Project, error) {
	if projects, ok := s.cache.GetProjects(ctx); ok {
		return projects, nil
	}

	rows, err := s.db.Pool.Query(ctx, `SELECT `+projectSelect("")+` FROM projects ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	projects, err := collectProjects(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	s.cache.SetProjects(ctx, projects)
	return projects, nil
}

// ListWithUserStatus annotates every project with the caller's role. An
// anonymous caller gets no role on any project.
func (s *ProjectService) ListWithUserStatus(ctx context.Context, callerID uuid.UUID) ([]models.ProjectWithRole, error) {
	projects, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var memberOf, pendingFor access.ProjectSet
	if callerID != uuid.Nil {
		rows, err := s.db.Pool.Query(ctx, `SELECT project_id FROM project_members WHERE user_id = $1`, callerID)
		if err != nil {
			return nil, fmt.Errorf("failed to load memberships: %w", err)
		}
		if memberOf, err = collectIDs(rows); err != nil {
			return nil, fmt.Errorf("failed to load memberships: %w", err)
		}

		rows, err = s.db.Pool.Query(ctx, `
			SELECT project_id FROM join_requests WHERE user_id = $1 AND status = $2
		`, callerID, models.JoinRequestPending)
		if err != nil {
			return nil, fmt.Errorf("failed to load pending requests: %w", err)
		}
		if pendingFor, err = collectIDs(rows); err != nil {
			return nil, fmt.Errorf("failed to load pending requests: %w", err)
		}
	}

	out := make([]models.ProjectWithRole, len(projects))
	for i := range projects {
		out[i] = models.ProjectWithRole{
			Project:  projects[i],
			UserRole: access.DeriveRole(&projects[i], callerID, memberOf, pendingFor),
		}
	}
	return out, nil
}

// ListForUser returns the projects the caller leads or belongs to. A project
// that appears in both is reported once, as led.
func (s *ProjectService) ListForUser(ctx context.Context, callerID uuid.UUID) ([]models.ProjectWithRole, error) {
	rows, err := s.db.Pool.Query(ctx, `SELECT `+projectSelect("")+` FROM projects WHERE leader = $1`, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load led projects: %w", err)
	}
	led, err := collectProjects(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to load led projects: %w", err)
	}

	rows, err = s.db.Pool.Query(ctx, `
		SELECT `+projectSelect("p")+`
		FROM projects p
		JOIN project_members pm ON pm.project_id = p.id
		WHERE pm.user_id = $1
	`, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load joined projects: %w", err)
	}
	joined, err := collectProjects(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to load joined projects: %w", err)
	}

	byID := make(map[uuid.UUID]models.ProjectWithRole, len(led)+len(joined))
	for _, p := range joined {
		byID[p.ID] = models.ProjectWithRole{Project: p, UserRole: models.RoleMember}
	}
	for _, p := range led {
		byID[p.ID] = models.ProjectWithRole{Project: p, UserRole: models.RoleLeader}
	}

	out := make([]models.ProjectWithRole, 0, len(byID))
	for _, p := range byID {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b models.ProjectWithRole) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return out, nil
}

// GetWithMembers loads the project page. A failed member query leaves the
// page usable with an empty member list and MembersUnavailable set.
func (s *ProjectService) GetWithMembers(ctx context.Context, id, callerID uuid.UUID) (*models.ProjectDetails, error) {
	project, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	leader, err := getProfile(ctx, s.db.Pool, project.LeaderID)
	if errors.Is(err, ErrProfileNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}

	details := &models.ProjectDetails{Project: *project, LeaderProfile: leader}

	members, err := s.members(ctx, id)
	if err != nil {
		details.Members = []models.ProjectMember{}
		details.MembersUnavailable = true
	} else {
		details.Members = members
	}

	if details.UserRole, err = callerRole(ctx, s.db.Pool, project, callerID); err != nil {
		return nil, err
	}
	return details, nil
}

func (s *ProjectService) members(ctx context.Context, projectID uuid.UUID) ([]models.ProjectMember, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT pm.id, pm.project_id, pm.user_id, pm.role, pm.joined_at, `+profileSelect("pr")+`
		FROM project_members pm
		JOIN profiles pr ON pr.id = pm.user_id
		WHERE pm.project_id = $1
		ORDER BY pm.joined_at
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []models.ProjectMember{}
	for rows.Next() {
		var m models.ProjectMember
		var role string
		var profile models.Profile
		dest := append([]any{&m.ID, &m.ProjectID, &m.UserID, &role, &m.JoinedAt}, profileDest(&profile)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		m.Role = models.Role(role)
		m.Profile = &profile
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *ProjectService) CountMembers(ctx context.Context, id uuid.UUID) (int, error) {
	return countMembers(ctx, s.db.Pool, id)
}

// manageable loads a project and checks that the caller leads it.
func (s *ProjectService) manageable(ctx context.Context, id, callerID uuid.UUID) (*models.Project, error) {
	project, err := s.GetByID(ctx, id)
	if err != nil && !errors.Is(err, ErrProjectNotFound) {
		return nil, err
	}
	if err := decisionError(access.CanManageProject(project, callerID), ErrProjectNotFound, ErrNotProjectLeader); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) Update(ctx context.Context, id, callerID uuid.UUID, patch models.ProjectPatch) (*models.Project, error) {
	if _, err := s.manageable(ctx, id, callerID); err != nil {
		return nil, err
	}

	if patch.MaxTeamSize != nil {
		count, err := s.CountMembers(ctx, id)
		if err != nil {
			return nil, err
		}
		if *patch.MaxTeamSize < count {
			return nil, ErrTeamSizeTooSmall
		}
	}

	sets := []string{}
	args := []any{}
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Tags != nil {
		var tags []string
		if len(*patch.Tags) > 0 {
			tags = *patch.Tags
		}
		add("tags", tags)
	}
	if patch.LookingFor != nil {
		add("looking_for", patch.LookingFor)
	}
	if patch.MaxTeamSize != nil {
		add("max_team_size", *patch.MaxTeamSize)
	}
	if len(sets) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	sets = append(sets, "updated_at = NOW()")
	args = append(args, id, callerID)
	query := fmt.Sprintf(`UPDATE projects SET %s WHERE id = $%d AND leader = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args)-1, len(args), projectSelect(""))

	var project models.Project
	err := s.db.Pool.QueryRow(ctx, query, args...).Scan(projectDest(&project)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	s.cache.Invalidate(ctx)
	return &project, nil
}

// Delete removes the project. Members and join requests go with it.
func (s *ProjectService) Delete(ctx context.Context, id, callerID uuid.UUID) error {
	if _, err := s.manageable(ctx, id, callerID); err != nil {
		return err
	}

	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM projects WHERE id = $1 AND leader = $2`, id, callerID)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProjectNotFound
	}

	s.cache.Invalidate(ctx)
	return nil
}

// Leave removes the caller's membership. The leader cannot leave.
func (s *ProjectService) Leave(ctx context.Context, id, callerID uuid.UUID) error {
	project, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	isMember := false
	if !access.IsLeader(project, callerID) {
		err := s.db.Pool.QueryRow(ctx, `
			SELECT EXISTS(SELECT 1 FROM project_members WHERE project_id = $1 AND user_id = $2)
		`, id, callerID).Scan(&isMember)
		if err != nil {
			return fmt.Errorf("failed to check membership: %w", err)
		}
	}

	switch access.CanLeaveProject(project, callerID, isMember) {
	case access.Forbidden:
		return ErrLeaderCannotLeave
	case access.NotFound:
		return ErrNotMember
	}

	return s.dropMember(ctx, id, callerID)
}

// RemoveMember lets the leader remove someone else from the team.
func (s *ProjectService) RemoveMember(ctx context.Context, id, leaderID, memberID uuid.UUID) error {
	project, err := s.manageable(ctx, id, leaderID)
	if err != nil {
		return err
	}
	if memberID == project.LeaderID {
		return ErrCannotRemoveLeader
	}
	return s.dropMember(ctx, id, memberID)
}

// dropMember deletes the membership and the join request that led to it, so
// the user can ask to join again later.
func (s *ProjectService) dropMember(ctx context.Context, projectID, userID uuid.UUID) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		DELETE FROM project_members WHERE project_id = $1 AND user_id = $2 AND role = $3
	`, projectID, userID, string(models.RoleMember))
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotMember
	}

	_, err = tx.Exec(ctx, `DELETE FROM join_requests WHERE project_id = $1 AND user_id = $2`, projectID, userID)
	if err != nil {
		return fmt.Errorf("failed to clear join request: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
