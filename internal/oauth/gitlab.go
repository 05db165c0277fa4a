package oauth

import (
	"context"
	"fmt"

	"github.com/dimitrije/teamup-api/internal/config"
	"golang.org/x/oauth2"
)

var gitlabEndpoint = oauth2.Endpoint{
	AuthURL:  "https://gitlab.com/oauth/authorize",
	TokenURL: "https://gitlab.com/oauth/token",
}

type GitLabProvider struct {
	config *oauth2.Config
	apiURL string
}

func NewGitLabProvider(cfg config.OAuthConfig) *GitLabProvider {
	return &GitLabProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"read_user"},
			Endpoint:     gitlabEndpoint,
		},
		apiURL: "https://gitlab.com/api/v4",
	}
}

func (p *GitLabProvider) Name() string {
	return "gitlab"
}

func (p *GitLabProvider) GetConsentURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (p *GitLabProvider) ExchangeCode(ctx context.Context, code string) (*UserInfo, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	var glUser struct {
		ID        int    `json:"id"`
		Username  string `json:"username"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := getJSON(p.config.Client(ctx, token), p.apiURL+"/user", "gitlab", &glUser); err != nil {
		return nil, err
	}

	name := glUser.Name
	if name == "" {
		name = glUser.Username
	}

	return &UserInfo{
		ID:        fmt.Sprintf("%d", glUser.ID),
		Provider:  "gitlab",
		Email:     glUser.Email,
		Name:      name,
		Username:  glUser.Username,
		AvatarURL: glUser.AvatarURL,
	}, nil
}
