// Package routes configures the HTTP router.
package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/upb/llm-value-router/app"
	"github.com/upb/llm-value-router/handlers"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	healthHandler := handlers.NewHealthHandler(deps.DB.DB, deps.Logger)
	routeHandler := handlers.NewRouteHandler(deps.Router, deps.Logger)
	efficiencyHandler := handlers.NewEfficiencyHandler(deps.Router, deps.Logger)
	benchmarkHandler := handlers.NewBenchmarkHandler(deps.Orchestrator, deps.Repos.Runs, deps.PromptSet, deps.Logger)
	resultsHandler := handlers.NewResultsHandler(deps.Repos.Results, deps.Logger)

	// Health check endpoints
	r.Get("/healthz", healthHandler.HandleHealth)
	r.Get("/readyz", healthHandler.HandleReadiness)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/route", routeHandler.HandleRoute)
		r.Get("/models/efficiency", efficiencyHandler.HandleEfficiency)

		r.Route("/benchmark", func(r chi.Router) {
			r.Post("/run", benchmarkHandler.HandleRun)
			r.Get("/runs", benchmarkHandler.HandleListRuns)
		})

		r.Get("/results", resultsHandler.HandleList)
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"endpoint not found"}`))
	})

	return r
}
