package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/alumnx-ai-labs/bookyard/internal/service"
)

type StatsHandler struct {
	svc *service.StatsService
}

func NewStatsHandler(s *service.StatsService) *StatsHandler {
	return &StatsHandler{svc: s}
}

// @Summary Resumen global del dataset cargado
// @Tags stats
// @Produce json
// @Success 200 {object} models.OverviewStats
// @Router /stats/overview [get]
func (h *StatsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Overview()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// @Summary Estadísticas de un usuario
// @Tags stats
// @Produce json
// @Param id path int true "userId"
// @Success 200 {object} models.UserStats
// @Router /users/{id}/stats [get]
func (h *StatsHandler) UserStats(w http.ResponseWriter, r *http.Request) {
	userID, _ := strconv.Atoi(chi.URLParam(r, "id"))

	stats, err := h.svc.UserStats(userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// @Summary Libros mejor puntuados
// @Tags stats
// @Produce json
// @Param min_ratings query int false "ratings mínimos por libro (default 10)"
// @Param limit query int false "libros a devolver (default 10)"
// @Success 200 {array} models.BookStats
// @Router /books/top-rated [get]
func (h *StatsHandler) TopBooks(w http.ResponseWriter, r *http.Request) {
	minRatings := queryInt(r, "min_ratings", "minRatings", 10)
	limit := queryInt(r, "limit", "", 10)

	books, err := h.svc.TopBooks(minRatings, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, books)
}

// @Summary Usuarios con más ratings
// @Tags stats
// @Produce json
// @Param limit query int false "usuarios a devolver (default 10)"
// @Success 200 {array} models.UserActivity
// @Router /users/most-active [get]
func (h *StatsHandler) MostActiveUsers(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", "", 10)

	users, err := h.svc.MostActiveUsers(limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}
