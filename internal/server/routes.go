package server

import (
	"os"

	"github.com/go-chi/chi/v5"
)

func addRoutes(r chi.Router, deps Deps) {
	logger := deps.Logger

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", handleSwaggerUI())
	r.Get("/healthz", handleHealth(logger, deps.Checks, deps.Sessions))

	r.Route("/api", func(r chi.Router) {
		r.Use(profileMiddleware)

		r.Get("/settings", handleGetSettings(logger, deps.Settings))
		r.Put("/settings", handleUpdateSettings(logger, deps.Settings))
		r.Get("/theme", handleGetTheme(logger, deps.Settings))
		r.Put("/theme", handleUpdateTheme(logger, deps.Settings))

		r.Post("/games", handleCreateGame(logger, deps.Sessions, deps.Settings))
		r.Route("/games/{gameID}", func(r chi.Router) {
			r.Use(sessionMiddleware(deps.Sessions))
			r.Get("/", handleGetGame())
			r.Delete("/", handleDeleteGame(deps.Sessions))
			r.Post("/flip", handleFlip())
			r.Post("/new", handleRestartGame())
			r.Get("/events", handleEvents(deps.Broker))
			r.Get("/ws", handlePlaySocket(logger, deps.Broker))
		})
	})

	if deps.AdminPasswordHash != "" {
		r.Route("/api/admin", func(r chi.Router) {
			r.Use(adminAuthMiddleware(deps.AdminPasswordHash))
			r.Get("/sessions", handleAdminListSessions(deps.Sessions))
			r.Delete("/sessions/{gameID}", handleAdminDeleteSession(deps.Sessions))
		})
	} else {
		logger.Info("admin routes disabled, ADMIN_PASSWORD_HASH not set")
	}

	if deps.SPADir != "" {
		if info, err := os.Stat(deps.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", deps.SPADir)
			r.NotFound(handleSPA(deps.SPADir))
		}
	}
}
