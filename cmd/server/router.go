package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/costscope/costscope-api/internal/api"
	apiMiddleware "github.com/costscope/costscope-api/internal/api/middleware"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.userService, app.logger)
	analysisHandler := api.NewAnalysisHandler(app.analysisService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/llm/projects/{projectID}/analyze", analysisHandler.Analyze)
			r.Post("/llm/projects/{projectID}/cancel-tasks", analysisHandler.CancelProjectTasks)
			r.Post("/llm/tasks/{taskID}/cancel", analysisHandler.CancelTask)
		})
	})

	// Unauthenticated cancellation fast path. Dashboards fire this on page
	// unload, where attaching credentials is unreliable; cancellation is
	// best-effort and not destructive, so it stays open.
	r.Post("/cancel-tasks/{projectID}", analysisHandler.CancelProjectTasks)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
