package dto

import (
	"github.com/dimitrije/teamup-api/internal/models"
)

// CurrentProfileResponse is the caller's own profile, the only place the
// e-mail address is exposed.
type CurrentProfileResponse struct {
	models.Profile
	Email *string `json:"email"`
}

// UpdateProfileRequest is a partial update. Absent fields are left as they are;
// an empty string clears an optional field.
type UpdateProfileRequest struct {
	Username     *string  `json:"username"`
	Name         *string  `json:"name"`
	Bio          *string  `json:"bio"`
	Skills       []string `json:"skills"`
	LinkedinLink *string  `json:"linkedin_link"`
	GithubLink   *string  `json:"github_link"`
	TwitterLink  *string  `json:"twitter_link"`
	PortfolioURL *string  `json:"portfolio_url"`
	Branch       *string  `json:"branch"`
	BatchYear    *int     `json:"batch_year"`
	AvatarURL    *string  `json:"avatar_url"`
}
