package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is a user's public identity. Email and provider fields are never
// serialized with it.
type Profile struct {
	ID               uuid.UUID `json:"id"`
	Email            *string   `json:"-"`
	Username         string    `json:"username"`
	Name             *string   `json:"name"`
	Bio              *string   `json:"bio"`
	Skills           []string  `json:"skills"`
	LinkedinLink     *string   `json:"linkedin_link"`
	GithubLink       *string   `json:"github_link"`
	TwitterLink      *string   `json:"twitter_link"`
	PortfolioURL     *string   `json:"portfolio_url"`
	Branch           *string   `json:"branch"`
	BatchYear        *int      `json:"batch_year"`
	AvatarURL        *string   `json:"avatar_url"`
	ProfileCompleted bool      `json:"profile_completed"`
	Provider         string    `json:"-"`
	ProviderID       string    `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ProfileUpdate carries the fields of a partial profile update. Nil fields are
// left untouched.
type ProfileUpdate struct {
	Username     *string
	Name         *string
	Bio          *string
	Skills       []string
	LinkedinLink *string
	GithubLink   *string
	TwitterLink  *string
	PortfolioURL *string
	Branch       *string
	BatchYear    *int
	AvatarURL    *string
}
