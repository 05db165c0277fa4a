package services

import (
	"testing"
	"time"

	"github.com/dimitrije/teamup-api/internal/database"
	"github.com/dimitrije/teamup-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*database.DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })
	return &database.DB{Pool: mock}, mock
}

func strPtr(s string) *string { return &s }

func testProfile(username string) models.Profile {
	now := time.Now()
	return models.Profile{
		ID:         uuid.New(),
		Email:      strPtr(username + "@example.com"),
		Username:   username,
		Name:       strPtr(username),
		Skills:     []string{"GO"},
		Provider:   "github",
		ProviderID: username + "-id",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func profileValues(p models.Profile) []any {
	return []any{
		p.ID, p.Email, p.Username, p.Name, p.Bio, p.Skills,
		p.LinkedinLink, p.GithubLink, p.TwitterLink, p.PortfolioURL,
		p.Branch, p.BatchYear, p.AvatarURL, p.ProfileCompleted,
		p.Provider, p.ProviderID, p.CreatedAt, p.UpdatedAt,
	}
}

func profileRows(ps ...models.Profile) *pgxmock.Rows {
	rows := pgxmock.NewRows(profileColumns)
	for _, p := range ps {
		rows.AddRow(profileValues(p)...)
	}
	return rows
}

func testProject(leader uuid.UUID, title string) models.Project {
	now := time.Now()
	return models.Project{
		ID:          uuid.New(),
		Title:       title,
		Description: title + " description",
		Tags:        []string{"web"},
		LookingFor:  []string{"Backend"},
		MaxTeamSize: 4,
		LeaderID:    leader,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func projectValues(p models.Project) []any {
	return []any{p.ID, p.Title, p.Description, p.Tags, p.LookingFor, p.MaxTeamSize, p.LeaderID, p.CreatedAt, p.UpdatedAt}
}

func projectRows(ps ...models.Project) *pgxmock.Rows {
	rows := pgxmock.NewRows(projectColumns)
	for _, p := range ps {
		rows.AddRow(projectValues(p)...)
	}
	return rows
}

func uniqueViolationErr(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}
