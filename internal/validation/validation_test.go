package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/dimitrije/teamup-api/pkg/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProject() dto.CreateProjectRequest {
	return dto.CreateProjectRequest{
		Title:       "Alpha",
		Description: "A campus ride-sharing app",
		Tags:        []string{"mobile"},
		LookingFor:  []string{"Backend"},
		MaxTeamSize: 4,
	}
}

func firstMessage(t *testing.T, err error) string {
	t.Helper()
	errs, ok := AsErrors(err)
	require.True(t, ok, "expected validation errors, got %v", err)
	require.NotEmpty(t, errs)
	return errs[0].Message
}

func TestProjectInput_Valid(t *testing.T) {
	req := validProject()
	req.Title = "  Alpha  "
	req.Tags = []string{" mobile ", "Mobile", "", "web"}
	req.LookingFor = []string{"Backend", " backend", "Designer"}

	in, err := ProjectInput(req)

	require.NoError(t, err)
	assert.Equal(t, "Alpha", in.Title)
	assert.Equal(t, []string{"mobile", "web"}, in.Tags)
	assert.Equal(t, []string{"Backend", "Designer"}, in.LookingFor)
	assert.Equal(t, 4, in.MaxTeamSize)
}

func TestProjectInput_EmptyTagsStoredAsNull(t *testing.T) {
	req := validProject()
	req.Tags = []string{" ", ""}

	in, err := ProjectInput(req)

	require.NoError(t, err)
	assert.Nil(t, in.Tags)
}

func TestProjectInput_Messages(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dto.CreateProjectRequest)
		field  string
		want   string
	}{
		{"blank title", func(r *dto.CreateProjectRequest) { r.Title = "   " }, "title", "Project title is required"},
		{"missing description", func(r *dto.CreateProjectRequest) { r.Description = "" }, "description", "Project description is required"},
		{"no roles", func(r *dto.CreateProjectRequest) { r.LookingFor = []string{} }, "looking_for", "Please specify at least one role you are looking for"},
		{"blank roles only", func(r *dto.CreateProjectRequest) { r.LookingFor = []string{" ", ""} }, "looking_for", "Please specify at least one role you are looking for"},
		{"nil roles", func(r *dto.CreateProjectRequest) { r.LookingFor = nil }, "looking_for", "Please specify at least one role you are looking for"},
		{"team too small", func(r *dto.CreateProjectRequest) { r.MaxTeamSize = 2 }, "max_team_size", "Team size must be between 3 and 9 members"},
		{"team too large", func(r *dto.CreateProjectRequest) { r.MaxTeamSize = 10 }, "max_team_size", "Team size must be between 3 and 9 members"},
		{"team size missing", func(r *dto.CreateProjectRequest) { r.MaxTeamSize = 0 }, "max_team_size", "Team size must be between 3 and 9 members"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validProject()
			tt.mutate(&req)

			_, err := ProjectInput(req)

			errs, ok := AsErrors(err)
			require.True(t, ok)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)
			assert.Equal(t, tt.want, errs[0].Message)
		})
	}
}

func TestProjectInput_TeamSizeBounds(t *testing.T) {
	for size := 3; size <= 9; size++ {
		req := validProject()
		req.MaxTeamSize = size
		_, err := ProjectInput(req)
		assert.NoError(t, err, "size %d", size)
	}
}

func TestProjectInput_LongTagReportsField(t *testing.T) {
	req := validProject()
	req.Tags = []string{strings.Repeat("x", 51)}

	_, err := ProjectInput(req)

	errs, ok := AsErrors(err)
	require.True(t, ok)
	assert.Equal(t, "tags", errs[0].Field)
}

func TestProjectPatch_OnlyPresentFields(t *testing.T) {
	title := " Beta "
	patch, err := ProjectPatch(dto.UpdateProjectRequest{Title: &title})

	require.NoError(t, err)
	require.NotNil(t, patch.Title)
	assert.Equal(t, "Beta", *patch.Title)
	assert.Nil(t, patch.Description)
	assert.Nil(t, patch.Tags)
	assert.Nil(t, patch.LookingFor)
	assert.Nil(t, patch.MaxTeamSize)
}

func TestProjectPatch_ClearTags(t *testing.T) {
	tags := []string{" "}
	patch, err := ProjectPatch(dto.UpdateProjectRequest{Tags: &tags})

	require.NoError(t, err)
	require.NotNil(t, patch.Tags)
	assert.Empty(t, *patch.Tags)
}

func TestProjectPatch_SameRulesAsCreate(t *testing.T) {
	blank := " "
	size := 12

	_, err := ProjectPatch(dto.UpdateProjectRequest{Title: &blank})
	assert.Equal(t, "Project title is required", firstMessage(t, err))

	_, err = ProjectPatch(dto.UpdateProjectRequest{LookingFor: []string{}})
	assert.Equal(t, "Please specify at least one role you are looking for", firstMessage(t, err))

	_, err = ProjectPatch(dto.UpdateProjectRequest{MaxTeamSize: &size})
	assert.Equal(t, "Team size must be between 3 and 9 members", firstMessage(t, err))
}

func TestProfileUpdate_Normalizes(t *testing.T) {
	username := "  Ana.Dev "
	bio := "  "
	github := " https://github.com/ana "
	year := 2024

	update, err := ProfileUpdate(dto.UpdateProfileRequest{
		Username:   &username,
		Bio:        &bio,
		GithubLink: &github,
		Skills:     []string{" go", "Go", "sql ", ""},
		BatchYear:  &year,
	})

	require.NoError(t, err)
	assert.Equal(t, "ana.dev", *update.Username)
	assert.Equal(t, "", *update.Bio)
	assert.Equal(t, "https://github.com/ana", *update.GithubLink)
	assert.Equal(t, []string{"GO", "SQL"}, update.Skills)
	assert.Equal(t, 2024, *update.BatchYear)
	assert.Nil(t, update.Name)
	assert.Nil(t, update.TwitterLink)
}

func TestProfileUpdate_EmptyLinkAllowed(t *testing.T) {
	empty := ""
	update, err := ProfileUpdate(dto.UpdateProfileRequest{LinkedinLink: &empty})

	require.NoError(t, err)
	assert.Equal(t, "", *update.LinkedinLink)
}

func TestProfileUpdate_Rejects(t *testing.T) {
	short := "ab"
	spaced := "ana dev"
	empty := ""
	badURL := "not a url"
	year := 1900

	tests := []struct {
		name  string
		req   dto.UpdateProfileRequest
		field string
	}{
		{"short username", dto.UpdateProfileRequest{Username: &short}, "username"},
		{"username with space", dto.UpdateProfileRequest{Username: &spaced}, "username"},
		{"cleared username", dto.UpdateProfileRequest{Username: &empty}, "username"},
		{"bad url", dto.UpdateProfileRequest{PortfolioURL: &badURL}, "portfolio_url"},
		{"batch year", dto.UpdateProfileRequest{BatchYear: &year}, "batch_year"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ProfileUpdate(tt.req)

			errs, ok := AsErrors(err)
			require.True(t, ok)
			assert.Equal(t, tt.field, errs[0].Field)
		})
	}
}

func TestJoinMessage(t *testing.T) {
	msg, err := JoinMessage(dto.JoinProjectRequest{Message: "  hi  "})
	require.NoError(t, err)
	assert.Equal(t, "hi", *msg)

	msg, err = JoinMessage(dto.JoinProjectRequest{})
	require.NoError(t, err)
	assert.Nil(t, msg)

	_, err = JoinMessage(dto.JoinProjectRequest{Message: strings.Repeat("a", 1001)})
	assert.Equal(t, "Message must be at most 1000 characters", firstMessage(t, err))
}

func TestCleanList(t *testing.T) {
	assert.Nil(t, CleanList(nil))
	assert.Equal(t, []string{}, CleanList([]string{" "}))
	assert.Equal(t, []string{"React", "go"}, CleanList([]string{"React", "react ", "go"}))
}

func TestAsErrors_PlainError(t *testing.T) {
	_, ok := AsErrors(errors.New("boom"))
	assert.False(t, ok)
}
