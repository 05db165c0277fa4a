package main

import (
	"net/http"

	"github.com/dimitrije/teamup-api/internal/config"
	"github.com/dimitrije/teamup-api/internal/handlers"
	"github.com/dimitrije/teamup-api/internal/logger"
	authmw "github.com/dimitrije/teamup-api/internal/middleware"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
)

type routeHandlers struct {
	auth         *handlers.AuthHandler
	profile      *handlers.ProfileHandler
	project      *handlers.ProjectHandler
	joinRequest  *handlers.JoinRequestHandler
	notification *handlers.NotificationHandler
	health       *handlers.HealthHandler
}

func newRouter(cfg *config.Config, jwt authmw.TokenValidator, limiter *authmw.RateLimiter, h routeHandlers) http.Handler {
	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	allowOrigins := []string{"*"}
	if cfg.IsProduction() && cfg.FrontendURL != "" {
		allowOrigins = []string{cfg.FrontendURL}
	}

	app.Use(middleware.Recovery())
	app.Use(logger.Requests())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	api := app.Group("/api/v1")
	api.Use(authmw.OptionalAuth(jwt))

	api.Get("/health", h.health.Check)

	auth := api.Group("/auth")
	auth.Get("/:provider/consent", h.auth.GetConsentURL)
	auth.Get("/:provider/callback", h.auth.Callback)
	auth.Post("/exchange", h.auth.ExchangeCode)
	auth.Post("/refresh", h.auth.RefreshToken)
	auth.Post("/logout", h.auth.Logout)
	auth.Post("/logout-all", h.auth.LogoutAll)

	// Handlers behind OptionalAuth answer 401 themselves when a caller is required.
	api.Get("/profiles/me", h.profile.GetMe)
	api.Patch("/profiles/me", h.profile.UpdateMe)
	api.Get("/users/:id", h.profile.GetByID)

	api.Get("/my-projects", h.project.Mine)

	api.Get("/projects", h.project.List)
	api.Post("/projects", h.project.Create)
	api.Get("/projects/:id", h.project.Get)
	api.Patch("/projects/:id", h.project.Update)
	api.Delete("/projects/:id", h.project.Delete)
	api.Post("/projects/:id/join", authmw.RateLimit(limiter), h.joinRequest.Create)
	api.Post("/projects/:id/leave", h.project.Leave)
	api.Delete("/projects/:id/members/:userId", h.project.RemoveMember)

	joinRequests := api.Group("/join-requests")
	joinRequests.Use(authmw.Auth(jwt))
	joinRequests.Post("/:id/approve", h.joinRequest.Approve)
	joinRequests.Post("/:id/reject", h.joinRequest.Reject)

	notifications := api.Group("/notifications")
	notifications.Use(authmw.Auth(jwt))
	notifications.Get("/sent", h.joinRequest.Sent)
	notifications.Get("/received", h.joinRequest.Received)
	notifications.Get("/events", h.notification.Connect)

	subscriptions := api.Group("/sse")
	subscriptions.Use(authmw.Auth(jwt))
	subscriptions.Post("/:clientId/subscribe/:projectId", h.notification.Subscribe)
	subscriptions.Post("/:clientId/unsubscribe/:projectId", h.notification.Unsubscribe)

	return app
}
