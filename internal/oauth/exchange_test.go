package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func tokenServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"test-token","token_type":"Bearer"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(tokenURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "id",
		ClientSecret: "secret",
		Endpoint:     oauth2.Endpoint{AuthURL: tokenURL + "/authorize", TokenURL: tokenURL + "/token"},
	}
}

func TestGitHubProvider_ExchangeCode(t *testing.T) {
	tokens := tokenServer(t)
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 12345, "login": "ana-dev", "name": "Ana", "email": "ana@example.com", "avatar_url": "https://a/1.png"}`))
	}))
	defer api.Close()

	p := &GitHubProvider{config: testConfig(tokens.URL), apiURL: api.URL}

	info, err := p.ExchangeCode(context.Background(), "code")

	require.NoError(t, err)
	assert.Equal(t, "12345", info.ID)
	assert.Equal(t, "github", info.Provider)
	assert.Equal(t, "ana-dev", info.Username)
	assert.Equal(t, "Ana", info.Name)
	assert.Equal(t, "ana@example.com", info.Email)
}

func TestGitHubProvider_ExchangeCode_EmailAndNameFallback(t *testing.T) {
	tokens := tokenServer(t)
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/user":
			_, _ = w.Write([]byte(`{"id": 7, "login": "quiet", "name": "", "email": ""}`))
		case "/user/emails":
			_, _ = w.Write([]byte(`[
				{"email": "old@example.com", "primary": false, "verified": true},
				{"email": "main@example.com", "primary": true, "verified": true}
			]`))
		}
	}))
	defer api.Close()

	p := &GitHubProvider{config: testConfig(tokens.URL), apiURL: api.URL}

	info, err := p.ExchangeCode(context.Background(), "code")

	require.NoError(t, err)
	assert.Equal(t, "quiet", info.Name)
	assert.Equal(t, "main@example.com", info.Email)
}

func TestGitHubProvider_ExchangeCode_HiddenEmailIsNotFatal(t *testing.T) {
	tokens := tokenServer(t)
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/user/emails" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 8, "login": "hidden"}`))
	}))
	defer api.Close()

	p := &GitHubProvider{config: testConfig(tokens.URL), apiURL: api.URL}

	info, err := p.ExchangeCode(context.Background(), "code")

	require.NoError(t, err)
	assert.Empty(t, info.Email)
	assert.Equal(t, "hidden", info.Username)
}

func TestGitHubProvider_ExchangeCode_APIError(t *testing.T) {
	tokens := tokenServer(t)
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer api.Close()

	p := &GitHubProvider{config: testConfig(tokens.URL), apiURL: api.URL}

	_, err := p.ExchangeCode(context.Background(), "code")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "github api returned status 401")
}

func TestGitLabProvider_ExchangeCode(t *testing.T) {
	tokens := tokenServer(t)
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 99, "username": "lab", "name": "", "email": "lab@example.com"}`))
	}))
	defer api.Close()

	p := &GitLabProvider{config: testConfig(tokens.URL), apiURL: api.URL}

	info, err := p.ExchangeCode(context.Background(), "code")

	require.NoError(t, err)
	assert.Equal(t, "99", info.ID)
	assert.Equal(t, "lab", info.Name)
	assert.Equal(t, "lab", info.Username)
	assert.Equal(t, "gitlab", info.Provider)
}

func TestGoogleProvider_ExchangeCode_UnverifiedEmailDropped(t *testing.T) {
	tokens := tokenServer(t)
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "g-1", "email": "g@example.com", "verified_email": false, "name": "Gee"}`))
	}))
	defer api.Close()

	p := &GoogleProvider{config: testConfig(tokens.URL), userInfoURL: api.URL}

	info, err := p.ExchangeCode(context.Background(), "code")

	require.NoError(t, err)
	assert.Equal(t, "g-1", info.ID)
	assert.Empty(t, info.Email)
	assert.Empty(t, info.Username)
}

func TestExchangeCode_TokenFailure(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer failing.Close()

	p := &GitLabProvider{config: testConfig(failing.URL), apiURL: failing.URL}

	_, err := p.ExchangeCode(context.Background(), "bad")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to exchange code")
}
