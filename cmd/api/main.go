package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/alumnx-ai-labs/bookyard/internal/config"
	"github.com/alumnx-ai-labs/bookyard/internal/handler"
	"github.com/alumnx-ai-labs/bookyard/internal/logging"
	"github.com/alumnx-ai-labs/bookyard/internal/service"
)

// @title Bookyard Recommender API
// @version 1.0
// @description Recomendador de libros por filtrado colaborativo user-based (dataset Book-Crossing)
// @host localhost:8080
// @BasePath /
func main() {
	cfg := config.Load()
	log := logging.Setup(cfg.LogLevel)

	// services: el DatasetService es el dueño del snapshot en memoria
	dataSvc := service.NewDatasetService(cfg, log)
	statsSvc := service.NewStatsService(dataSvc)

	// handlers
	dataH := handler.NewDatasetHandler(dataSvc)
	recH := handler.NewRecommendHandler(dataSvc)
	statsH := handler.NewStatsHandler(statsSvc)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", handler.Health)

	// =============
	// Dataset (ciclo de vida del snapshot)
	// =============
	r.Route("/datasets", func(r chi.Router) {
		r.Post("/load", dataH.Load)
		r.Get("/status", dataH.Status)
		r.Get("/users", dataH.ListUsers)
	})

	// =============
	// Consultas por usuario (lecturas puras sobre el snapshot)
	// =============
	r.Route("/users/{id}", func(r chi.Router) {
		r.Get("/recommendations", recH.GetRecommendations)
		r.Get("/ws/recommendations", recH.GetRecommendationsWS)
		r.Get("/recommendations/validate", recH.Validate)
		r.Get("/recommendations/explain", recH.Explain)
		r.Get("/diagnose", recH.Diagnose)
		r.Get("/stats", statsH.UserStats)
	})

	// =============
	// Estadísticas globales
	// =============
	r.Get("/stats/overview", statsH.Overview)
	r.Get("/books/top-rated", statsH.TopBooks)
	r.Get("/users/most-active", statsH.MostActiveUsers)

	log.Info().Str("port", cfg.HTTPPort).Msg("HTTP escuchando")
	if err := http.ListenAndServe(":"+cfg.HTTPPort, r); err != nil {
		log.Fatal().Err(err).Msg("el servidor HTTP terminó con error")
	}
}
