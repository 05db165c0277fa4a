package services

import (
	"context"
	"testing"
	"time"

	"github.com/dimitrije/teamup-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupJoinRequestService(t *testing.T) (*JoinRequestService, pgxmock.PgxPoolIface) {
	t.Helper()
	db, mock := newMockDB(t)
	return NewJoinRequestService(db), mock
}

func testJoinRequest(projectID, userID uuid.UUID, status string) models.JoinRequest {
	now := time.Now()
	return models.JoinRequest{
		ID:        uuid.New(),
		ProjectID: projectID,
		UserID:    userID,
		Message:   strPtr("let me in"),
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func joinRequestValues(r models.JoinRequest) []any {
	return []any{r.ID, r.ProjectID, r.UserID, r.Message, r.Status, r.ReviewedBy, r.ReviewedAt, r.CreatedAt, r.UpdatedAt}
}

func joinRequestRows(rs ...models.JoinRequest) *pgxmock.Rows {
	rows := pgxmock.NewRows(joinRequestColumns)
	for _, r := range rs {
		rows.AddRow(joinRequestValues(r)...)
	}
	return rows
}

func enrichedColumns() []string {
	cols := append([]string{}, joinRequestColumns...)
	cols = append(cols, projectColumns...)
	return append(cols, profileColumns...)
}

func enrichedValues(r models.JoinRequest, p models.Project, pr models.Profile) []any {
	vals := joinRequestValues(r)
	vals = append(vals, projectValues(p)...)
	return append(vals, profileValues(pr)...)
}

func roleRows(isMember, isPending bool) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"is_member", "is_pending"}).AddRow(isMember, isPending)
}

func TestJoinRequestService_Create(t *testing.T) {
	svc, pool := setupJoinRequestService(t)
	caller := uuid.New()
	p := testProject(uuid.New(), "Alpha")
	r := testJoinRequest(p.ID, caller, models.JoinRequestPending)
	msg := strPtr("let me in")

	pool.ExpectQuery(`SELECT .+ FROM projects WHERE id`).WithArgs(p.ID).WillReturnRows(projectRows(p))
	pool.ExpectQuery(`SELECT EXISTS`).WithArgs(p.ID, caller, "pending").WillReturnRows(roleRows(false, false))
	pool.ExpectQuery(`INSERT INTO join_requests .+ ON CONFLICT \(project_id, user_id\) DO NOTHING`).
		WithArgs(p.ID, caller, msg).
		WillReturnRows(joinRequestRows(r))

	got, created, err := svc.Create(context.Background(), p.ID, caller, msg)

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, r.ID, got.ID)
	assert.Equal(t, models.JoinRequestPending, got.Status)
	assert.Equal(t, p.ID, got.Project.ID)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestJoinRequestService_Create_DuplicateReturnsExisting(t *testing.T) {
	svc, pool := setupJoinRequestService(t)
	caller := uuid.New()
	p := testProject(uuid.New(), "Alpha")
	existing := testJoinRequest(p.ID, caller, models.JoinRequestPending)

	pool.ExpectQuery(`SELECT .+ FROM projects WHERE id`).WithArgs(p.ID).WillReturnRows(projectRows(p))
	pool.ExpectQuery(`SELECT EXISTS`).WithArgs(p.ID, caller, "pending").WillReturnRows(roleRows(false, true))
	pool.ExpectQuery(`INSERT INTO join_requests`).
		WithArgs(p.ID, caller, (*string)(nil)).
		WillReturnError(pgx.ErrNoRows)
	pool.ExpectQuery(`SELECT .+ FROM join_requests WHERE project_id = .+ AND user_id`).
		WithArgs(p.ID, caller).
		WillReturnRows(joinRequestRows(existing))

	got, created, err := svc.Create(context.Background(), p.ID, caller, nil)

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, existing.ID, got.ID)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestJoinRequestService_Create_LeaderOrMemberRefused(t *testing.T) {
	t.Run("leader", func(t *testing.T) {
		svc, pool := setupJoinRequestService(t)
		leader := uuid.New()
		p := testProject(leader, "Alpha")

		pool.ExpectQuery(`SELECT .+ FROM projects WHERE id`).WithArgs(p.ID).WillReturnRows(projectRows(p))

		_, _, err := svc.Create(context.Background(), p.ID, leader, nil)

		assert.ErrorIs(t, err, ErrAlreadyMember)
		assert.NoError(t, pool.ExpectationsWereMet())
	})

	t.Run("member", func(t *testing.T) {
		svc, pool := setupJoinRequestService(t)
		caller := uuid.New()
		p := testProject(uuid.New(), "Alpha")

		pool.ExpectQuery(`SELECT .+ FROM projects WHERE id`).WithArgs(p.ID).WillReturnRows(projectRows(p))
		pool.ExpectQuery(`SELECT EXISTS`).WithArgs(p.ID, caller, "pending").WillReturnRows(roleRows(true, false))

		_, _, err := svc.Create(context.Background(), p.ID, caller, nil)

		assert.ErrorIs(t, err, ErrAlreadyMember)
		assert.NoError(t, pool.ExpectationsWereMet())
	})
}

func TestJoinRequestService_Create_UnknownProject(t *testing.T) {
	svc, pool := setupJoinRequestService(t)
	id := uuid.New()

	pool.ExpectQuery(`SELECT .+ FROM projects WHERE id`).WithArgs(id).WillReturnError(pgx.ErrNoRows)

	_, _, err := svc.Create(context.Background(), id, uuid.New(), nil)

	assert.ErrorIs(t, err, ErrProjectNotFound)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestJoinRequestService_ListSent(t *testing.T) {
	svc, pool := setupJoinRequestService(t)
	requester := testProfile("req")
	p := testProject(uuid.New(), "Alpha")
	pending := testJoinRequest(p.ID, requester.ID, models.JoinRequestPending)
	rejected := testJoinRequest(p.ID, requester.ID, models.JoinRequestRejected)

	pool.ExpectQuery(`FROM join_requests jr JOIN projects p .+ JOIN profiles pr .+ WHERE jr.user_id = \$1 ORDER BY jr.created_at DESC`).
		WithArgs(requester.ID).
		WillReturnRows(pgxmock.NewRows(enrichedColumns()).
			AddRow(enrichedValues(pending, p, requester)...).
			AddRow(enrichedValues(rejected, p, requester)...))

	got, err := svc.ListSent(context.Background(), requester.ID)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Alpha", got[0].Project.Title)
	assert.Equal(t, "req", got[0].Requester.Username)
	assert.Equal(t, models.JoinRequestRejected, got[1].Status)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestJoinRequestService_ListReceived_PendingOnly(t *testing.T) {
	svc, pool := setupJoinRequestService(t)
	leader := uuid.New()
	requester := testProfile("req")
	p := testProject(leader, "Alpha")
	pending := testJoinRequest(p.ID, requester.ID, models.JoinRequestPending)

	pool.ExpectQuery(`WHERE p.leader = \$1 AND jr.status = \$2`).
		WithArgs(leader, "pending").
		WillReturnRows(pgxmock.NewRows(enrichedColumns()).AddRow(enrichedValues(pending, p, requester)...))

	got, err := svc.ListReceived(context.Background(), leader)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, pending.ID, got[0].ID)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestJoinRequestService_ListReceived_Empty(t *testing.T) {
	svc, pool := setupJoinRequestService(t)
	leader := uuid.New()

	pool.ExpectQuery(`WHERE p.leader`).
		WithArgs(leader, "pending").
		WillReturnRows(pgxmock.NewRows(enrichedColumns()))

	got, err := svc.ListReceived(context.Background(), leader)

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestJoinRequestService_GetByID_NotFound(t *testing.T) {
	svc, pool := setupJoinRequestService(t)
	id := uuid.New()

	pool.ExpectQuery(`WHERE jr.id = \$1`).WithArgs(id).WillReturnError(pgx.ErrNoRows)

	_, err := svc.GetByID(context.Background(), id)

	assert.ErrorIs(t, err, ErrJoinRequestNotFound)
}

func TestJoinRequestService_Review_InvalidStatus(t *testing.T) {
	svc, pool := setupJoinRequestService(t)

	_, err := svc.Review(context.Background(), uuid.New(), models.JoinRequestPending, uuid.New())

	assert.ErrorIs(t, err, ErrInvalidReviewStatus)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestJoinRequestService_Review_Approve(t *testing.T) {
	svc, pool := setupJoinRequestService(t)
	leader := uuid.New()
	requester := testProfile("req")
	p := testProject(leader, "Alpha")
	r := testJoinRequest(p.ID, requester.ID, models.JoinRequestPending)
	approved := r
	approved.Status = models.JoinRequestApproved
	approved.ReviewedBy = &leader
	reviewedAt := time.Now()
	approved.ReviewedAt = &reviewedAt

	pool.ExpectBegin()
	pool.ExpectQuery(`SELECT .+ FROM join_requests WHERE id = \$1 FOR UPDATE`).
		WithArgs(r.ID).
		WillReturnRows(joinRequestRows(r))
	pool.ExpectQuery(`SELECT .+ FROM projects WHERE id = \$1 FOR UPDATE`).
		WithArgs(p.ID).
		WillReturnRows(projectRows(p))
	pool.ExpectQuery(`SELECT COUNT`).WithArgs(p.ID).WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	pool.ExpectExec(`INSERT INTO project_members .+ ON CONFLICT`).
		WithArgs(p.ID, requester.ID, "member").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	pool.ExpectQuery(`UPDATE join_requests SET status = \$1, reviewed_by = \$2, reviewed_at = NOW\(\)`).
		WithArgs("approved", leader, r.ID).
		WillReturnRows(joinRequestRows(approved))
	pool.ExpectQuery(`SELECT .+ FROM profiles WHERE id`).
		WithArgs(requester.ID).
		WillReturnRows(profileRows(requester))
	pool.ExpectCommit()

	got, err := svc.Review(context.Background(), r.ID, models.JoinRequestApproved, leader)

	require.NoError(t, err)
	assert.Equal(t, models.JoinRequestApproved, got.Status)
	assert.Equal(t, leader, *got.ReviewedBy)
	assert.NotNil(t, got.ReviewedAt)
	assert.Equal(t, "req", got.Requester.Username)
	assert.Equal(t, p.ID, got.Project.ID)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestJoinRequestService_Review_RejectDoesNotAddMember(t *testing.T) {
	svc, pool := setupJoinRequestService(t)
	leader := uuid.New()
	requester := testProfile("req")
	p := testProject(leader, "Alpha")
	r := testJoinRequest(p.ID, requester.ID, models.JoinRequestPending)
	rejected := r
	rejected.Status = models.JoinRequestRejected

	pool.ExpectBegin()
	pool.ExpectQuery(`FROM join_requests WHERE id = \$1 FOR UPDATE`).WithArgs(r.ID).WillReturnRows(joinRequestRows(r))
	pool.ExpectQuery(`FROM projects WHERE id = \$1 FOR UPDATE`).WithArgs(p.ID).WillReturnRows(projectRows(p))
	pool.ExpectQuery(`UPDATE join_requests`).
		WithArgs("rejected", leader, r.ID).
		WillReturnRows(joinRequestRows(rejected))
	pool.ExpectQuery(`SELECT .+ FROM profiles WHERE id`).WithArgs(requester.ID).WillReturnRows(profileRows(requester))
	pool.ExpectCommit()

	got, err := svc.Review(context.Background(), r.ID, models.JoinRequestRejected, leader)

	require.NoError(t, err)
	assert.Equal(t, models.JoinRequestRejected, got.Status)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestJoinRequestService_Review_Refusals(t *testing.T) {
	leader := uuid.New()
	requesterID := uuid.New()

	tests := []struct {
		name     string
		status   string
		reviewer uuid.UUID
		want     error
	}{
		{"not the leader", models.JoinRequestPending, uuid.New(), ErrNotProjectLeader},
		{"already approved", models.JoinRequestApproved, leader, ErrJoinRequestResolved},
		{"already rejected", models.JoinRequestRejected, leader, ErrJoinRequestResolved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, pool := setupJoinRequestService(t)
			p := testProject(leader, "Alpha")
			r := testJoinRequest(p.ID, requesterID, tt.status)

			pool.ExpectBegin()
			pool.ExpectQuery(`FROM join_requests WHERE id = \$1 FOR UPDATE`).WithArgs(r.ID).WillReturnRows(joinRequestRows(r))
			pool.ExpectQuery(`FROM projects WHERE id = \$1 FOR UPDATE`).WithArgs(p.ID).WillReturnRows(projectRows(p))
			pool.ExpectRollback()

			_, err := svc.Review(context.Background(), r.ID, models.JoinRequestApproved, tt.reviewer)

			assert.ErrorIs(t, err, tt.want)
			assert.NoError(t, pool.ExpectationsWereMet())
		})
	}
}

func TestJoinRequestService_Review_TeamFull(t *testing.T) {
	svc, pool := setupJoinRequestService(t)
	leader := uuid.New()
	p := testProject(leader, "Alpha")
	r := testJoinRequest(p.ID, uuid.New(), models.JoinRequestPending)

	pool.ExpectBegin()
	pool.ExpectQuery(`FROM join_requests WHERE id = \$1 FOR UPDATE`).WithArgs(r.ID).WillReturnRows(joinRequestRows(r))
	pool.ExpectQuery(`FROM projects WHERE id = \$1 FOR UPDATE`).WithArgs(p.ID).WillReturnRows(projectRows(p))
	pool.ExpectQuery(`SELECT COUNT`).WithArgs(p.ID).WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(p.MaxTeamSize))
	pool.ExpectRollback()

	_, err := svc.Review(context.Background(), r.ID, models.JoinRequestApproved, leader)

	assert.ErrorIs(t, err, ErrTeamFull)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestJoinRequestService_Review_UnknownRequest(t *testing.T) {
	svc, pool := setupJoinRequestService(t)
	id := uuid.New()

	pool.ExpectBegin()
	pool.ExpectQuery(`FROM join_requests WHERE id = \$1 FOR UPDATE`).WithArgs(id).WillReturnError(pgx.ErrNoRows)
	pool.ExpectRollback()

	_, err := svc.Review(context.Background(), id, models.JoinRequestApproved, uuid.New())

	assert.ErrorIs(t, err, ErrJoinRequestNotFound)
	assert.NoError(t, pool.ExpectationsWereMet())
}
