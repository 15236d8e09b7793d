package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/inbox-ai/internal/api"
	apiMiddleware "github.com/phrazzld/inbox-ai/internal/api/middleware"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	authHandler := api.NewAuthHandler(app.authenticator, app.tokens)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.tokens)
	operationHandler := api.NewOperationHandler(app.operations)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/token", authHandler.IssueToken)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/operations", operationHandler.Submit)
			r.Get("/operations/results", operationHandler.RecentResults)
			r.Get("/operations/{id}", operationHandler.Status)
			r.Delete("/operations/{id}", operationHandler.Cancel)
			r.Get("/operations/{id}/result", operationHandler.Result)

			r.Get("/stats", operationHandler.Stats)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
