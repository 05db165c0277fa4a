package validation

import (
	"strings"

	"github.com/dimitrije/teamup-api/internal/models"
	"github.com/dimitrije/teamup-api/pkg/dto"
)

// ProfileUpdate normalizes a profile patch. Empty optional strings are kept as
// empty so the service can store them as NULL; the username cannot be cleared.
func ProfileUpdate(req dto.UpdateProfileRequest) (models.ProfileUpdate, error) {
	var c collector
	update := models.ProfileUpdate{
		Name:   trimPtr(req.Name),
		Bio:    trimPtr(req.Bio),
		Branch: trimPtr(req.Branch),
	}

	if req.Username != nil {
		username := strings.ToLower(strings.TrimSpace(*req.Username))
		update.Username = &username
		c.check("username", username, "required,username")
	}

	links := []struct {
		field string
		in    *string
		out   **string
	}{
		{"linkedin_link", req.LinkedinLink, &update.LinkedinLink},
		{"github_link", req.GithubLink, &update.GithubLink},
		{"twitter_link", req.TwitterLink, &update.TwitterLink},
		{"portfolio_url", req.PortfolioURL, &update.PortfolioURL},
		{"avatar_url", req.AvatarURL, &update.AvatarURL},
	}
	for _, l := range links {
		v := trimPtr(l.in)
		if v == nil {
			continue
		}
		*l.out = v
		if *v != "" {
			c.check(l.field, *v, "url,max=500")
		}
	}

	if req.Name != nil {
		c.check("name", *update.Name, "max=255")
	}
	if req.Branch != nil {
		c.check("branch", *update.Branch, "max=255")
	}

	if req.Skills != nil {
		update.Skills = CleanSkills(req.Skills)
		c.check("skills", update.Skills, "max=30,dive,max=50")
	}

	if req.BatchYear != nil {
		year := *req.BatchYear
		update.BatchYear = &year
		c.check("batch_year", year, "min=1950,max=2100")
	}

	if err := c.err(); err != nil {
		return models.ProfileUpdate{}, err
	}
	return update, nil
}
