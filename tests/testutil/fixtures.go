package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/dimitrije/teamup-api/internal/database"
	"github.com/dimitrije/teamup-api/internal/models"
	"github.com/dimitrije/teamup-api/internal/oauth"
	"github.com/dimitrije/teamup-api/internal/services"
)

// Fixtures creates test data through the real services
type Fixtures struct {
	db       *database.DB
	profiles *services.ProfileService
	projects *services.ProjectService
	counter  int
}

func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{
		db:       db,
		profiles: services.NewProfileService(db),
		projects: services.NewProjectService(db, nil),
	}
}

// CreateProfile logs a new person in through the OAuth path
func (f *Fixtures) CreateProfile(t *testing.T, login string) *models.Profile {
	t.Helper()
	f.counter++

	profile, err := f.profiles.FindOrCreateFromOAuth(context.Background(), &oauth.UserInfo{
		ID:       fmt.Sprintf("provider-%d", f.counter),
		Provider: "github",
		Email:    fmt.Sprintf("%s@example.com", login),
		Name:     login,
		Username: login,
	})
	if err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}
	return profile
}

// ProjectOption configures a test project
type ProjectOption func(*models.ProjectInput)

func WithMaxTeamSize(n int) ProjectOption {
	return func(in *models.ProjectInput) { in.MaxTeamSize = n }
}

func WithTags(tags ...string) ProjectOption {
	return func(in *models.ProjectInput) { in.Tags = tags }
}

// CreateProject creates a project led by leader
func (f *Fixtures) CreateProject(t *testing.T, leader *models.Profile, title string, opts ...ProjectOption) *models.Project {
	t.Helper()

	in := models.ProjectInput{
		Title:       title,
		Description: title + " description",
		LookingFor:  []string{"Frontend"},
		MaxTeamSize: 4,
	}
	for _, opt := range opts {
		opt(&in)
	}

	project, err := f.projects.Create(context.Background(), leader.ID, in)
	if err != nil {
		t.Fatalf("failed to create project: %v", err)
	}
	return project
}

// CountRows counts rows of table matching a raw WHERE clause
func (f *Fixtures) CountRows(t *testing.T, table, where string, args ...any) int {
	t.Helper()

	var n int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", table, where)
	if err := f.db.Pool.QueryRow(context.Background(), query, args...).Scan(&n); err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}
	return n
}
