package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dimitrije/teamup-api/internal/config"
)

// UserInfo is what a provider tells us about the person logging in. Username
// is the provider login and may be empty.
type UserInfo struct {
	ID        string
	Provider  string
	Email     string
	Name      string
	Username  string
	AvatarURL string
}

type Provider interface {
	GetConsentURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*UserInfo, error)
	Name() string
}

// Registry holds the providers that have client credentials configured.
type Registry map[string]Provider

func NewRegistry(cfg *config.Config) Registry {
	r := Registry{}
	if cfg.GitHub.ClientID != "" {
		r.add(NewGitHubProvider(cfg.GitHub))
	}
	if cfg.GitLab.ClientID != "" {
		r.add(NewGitLabProvider(cfg.GitLab))
	}
	if cfg.Google.ClientID != "" {
		r.add(NewGoogleProvider(cfg.Google))
	}
	return r
}

func (r Registry) add(p Provider) {
	r[p.Name()] = p
}

func (r Registry) Get(name string) (Provider, bool) {
	p, ok := r[name]
	return p, ok
}

func GenerateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func getJSON(client *http.Client, url, provider string, dest any) error {
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("failed to get user info: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s api returned status %d", provider, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode user info: %w", err)
	}
	return nil
}
