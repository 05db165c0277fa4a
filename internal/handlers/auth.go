package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/dimitrije/teamup-api/internal/config"
	"github.com/dimitrije/teamup-api/internal/logger"
	"github.com/dimitrije/teamup-api/internal/middleware"
	"github.com/dimitrije/teamup-api/internal/oauth"
	"github.com/dimitrije/teamup-api/internal/services"
	"github.com/dimitrije/teamup-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

const (
	stateTTL    = 10 * time.Minute
	authCodeTTL = 30 * time.Second
)

type AuthHandler struct {
	cfg            *config.Config
	providers      oauth.Registry
	profileService ProfileServiceInterface
	tokenService   TokenServiceInterface
	jwtService     JWTServiceInterface
	states         sync.Map
	authCodes      sync.Map
}

type stateData struct {
	expiresAt time.Time
}

type authCodeData struct {
	userID    uuid.UUID
	expiresAt time.Time
}

func NewAuthHandler(
	cfg *config.Config,
	providers oauth.Registry,
	profileService ProfileServiceInterface,
	tokenService TokenServiceInterface,
	jwtService JWTServiceInterface,
) *AuthHandler {
	if providers == nil {
		providers = oauth.Registry{}
	}
	return &AuthHandler{
		cfg:            cfg,
		providers:      providers,
		profileService: profileService,
		tokenService:   tokenService,
		jwtService:     jwtService,
	}
}

// SweepExpired drops login states and one-time codes that have expired. It
// runs as a scheduled job.
func (h *AuthHandler) SweepExpired(now time.Time) int {
	removed := 0
	h.states.Range(func(key, value any) bool {
		if sd, ok := value.(stateData); ok && now.After(sd.expiresAt) {
			h.states.Delete(key)
			removed++
		}
		return true
	})
	h.authCodes.Range(func(key, value any) bool {
		if acd, ok := value.(authCodeData); ok && now.After(acd.expiresAt) {
			h.authCodes.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

func (h *AuthHandler) GetConsentURL(c *drift.Context) {
	provider := c.Param("provider")

	p, ok := h.providers.Get(provider)
	if !ok {
		c.BadRequest("unsupported provider: " + provider)
		return
	}

	state, err := oauth.GenerateState()
	if err != nil {
		c.InternalServerError("failed to generate state")
		return
	}

	h.states.Store(state, stateData{expiresAt: time.Now().Add(stateTTL)})

	_ = c.JSON(http.StatusOK, dto.ConsentURLResponse{
		URL: p.GetConsentURL(state),
	})
}

func (h *AuthHandler) Callback(c *drift.Context) {
	provider := c.Param("provider")

	p, ok := h.providers.Get(provider)
	if !ok {
		h.redirectWithError(c, "unsupported provider")
		return
	}

	state := c.QueryParam("state")
	if state == "" {
		h.redirectWithError(c, "missing state parameter")
		return
	}

	sd, ok := h.states.LoadAndDelete(state)
	if !ok {
		h.redirectWithError(c, "invalid or expired state")
		return
	}

	sdTyped, ok := sd.(stateData)
	if !ok || time.Now().After(sdTyped.expiresAt) {
		h.redirectWithError(c, "state expired")
		return
	}

	code := c.QueryParam("code")
	if code == "" {
		h.redirectWithError(c, "missing authorization code")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	userInfo, err := p.ExchangeCode(ctx, code)
	if err != nil {
		logger.Warn().Err(err).Str("provider", provider).Msg("oauth code exchange failed")
		h.redirectWithError(c, "failed to exchange code")
		return
	}

	profile, err := h.profileService.FindOrCreateFromOAuth(ctx, userInfo)
	if err != nil {
		logger.Error().Err(err).Str("provider", provider).Msg("failed to create profile")
		h.redirectWithError(c, "failed to create profile")
		return
	}

	authCode, err := oauth.GenerateState()
	if err != nil {
		h.redirectWithError(c, "failed to generate auth code")
		return
	}

	h.authCodes.Store(authCode, authCodeData{
		userID:    profile.ID,
		expiresAt: time.Now().Add(authCodeTTL),
	})

	h.redirect(c, fmt.Sprintf("%s?code=%s", h.cfg.FrontendCallbackURL, url.QueryEscape(authCode)))
}

func (h *AuthHandler) ExchangeCode(c *drift.Context) {
	var req dto.ExchangeCodeRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Code == "" {
		c.BadRequest("code is required")
		return
	}

	acd, ok := h.authCodes.LoadAndDelete(req.Code)
	if !ok {
		c.Unauthorized("invalid or expired code")
		return
	}

	codeData, ok := acd.(authCodeData)
	if !ok || time.Now().After(codeData.expiresAt) {
		c.Unauthorized("code expired")
		return
	}

	ctx := c.Request.Context()

	profile, err := h.profileService.GetByID(ctx, codeData.userID)
	if err != nil {
		c.Unauthorized("profile not found")
		return
	}

	h.issueTokens(c, profile.ID, profile.Username)
}

func (h *AuthHandler) RefreshToken(c *drift.Context) {
	var req dto.RefreshTokenRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.RefreshToken == "" {
		c.BadRequest("refresh_token is required")
		return
	}

	userID, err := h.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		c.Unauthorized("invalid refresh token")
		return
	}

	tokenHash := services.HashToken(req.RefreshToken)
	ctx := c.Request.Context()

	storedUserID, err := h.tokenService.ValidateRefreshToken(ctx, tokenHash)
	if err != nil || storedUserID != userID {
		c.Unauthorized("refresh token not found or expired")
		return
	}

	profile, err := h.profileService.GetByID(ctx, userID)
	if err != nil {
		c.Unauthorized("profile not found")
		return
	}

	if err := h.tokenService.RevokeRefreshToken(ctx, tokenHash); err != nil {
		respondError(c, err, "failed to revoke old token")
		return
	}

	h.issueTokens(c, profile.ID, profile.Username)
}

func (h *AuthHandler) issueTokens(c *drift.Context, userID uuid.UUID, username string) {
	tokenPair, err := h.jwtService.GenerateTokenPair(userID, username)
	if err != nil {
		respondError(c, err, "failed to generate tokens")
		return
	}

	tokenHash := services.HashToken(tokenPair.RefreshToken)
	expiresAt := time.Now().Add(h.jwtService.RefreshExpiry())
	if err := h.tokenService.StoreRefreshToken(c.Request.Context(), userID, tokenHash, expiresAt); err != nil {
		respondError(c, err, "failed to store refresh token")
		return
	}

	_ = c.JSON(http.StatusOK, dto.TokenResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	})
}

func (h *AuthHandler) Logout(c *drift.Context) {
	var req dto.RefreshTokenRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.RefreshToken != "" {
		tokenHash := services.HashToken(req.RefreshToken)
		_ = h.tokenService.RevokeRefreshToken(c.Request.Context(), tokenHash)
	}

	_ = c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *AuthHandler) LogoutAll(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	if err := h.tokenService.RevokeAllUserTokens(c.Request.Context(), userID); err != nil {
		respondError(c, err, "failed to revoke tokens")
		return
	}

	_ = c.JSON(http.StatusOK, map[string]string{"message": "all sessions logged out"})
}

func (h *AuthHandler) redirectWithError(c *drift.Context, errMsg string) {
	h.redirect(c, fmt.Sprintf("%s?error=%s", h.cfg.FrontendCallbackURL, url.QueryEscape(errMsg)))
}

func (h *AuthHandler) redirect(c *drift.Context, location string) {
	http.Redirect(c.Response, c.Request, location, http.StatusFound)
	c.Abort()
}
