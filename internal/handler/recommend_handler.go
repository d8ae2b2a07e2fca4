package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/alumnx-ai-labs/bookyard/internal/service"
)

type RecommendHandler struct {
	svc *service.DatasetService
}

func NewRecommendHandler(s *service.DatasetService) *RecommendHandler {
	return &RecommendHandler{svc: s}
}

func queryInt(r *http.Request, key, alt string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" && alt != "" {
		v = r.URL.Query().Get(alt)
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// @Summary Recomendaciones para un usuario
// @Tags recommend
// @Produce json
// @Param id path int true "userId"
// @Param k query int false "vecinos a considerar (default 10, máx 50)"
// @Param top_n query int false "libros a devolver (default 10)"
// @Success 200 {array} models.Recommendation
// @Router /users/{id}/recommendations [get]
func (h *RecommendHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, _ := strconv.Atoi(chi.URLParam(r, "id"))
	k := queryInt(r, "k", "", 10)
	topN := queryInt(r, "top_n", "topN", 10)

	items, err := h.svc.Recommend(userID, k, topN)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// upgrader global (mismo criterio laxo de origen que en el resto del curso)
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary Recomendaciones por WebSocket, con progreso
// @Tags recommend
// @Produce json
// @Param id path int true "userId"
// @Param k query int false "vecinos a considerar"
// @Param top_n query int false "libros a devolver"
// @Router /users/{id}/ws/recommendations [get]
func (h *RecommendHandler) GetRecommendationsWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "no se pudo abrir el WebSocket", http.StatusBadRequest)
		return
	}
	defer conn.Close()

	userID, _ := strconv.Atoi(chi.URLParam(r, "id"))
	k := queryInt(r, "k", "", 10)
	topN := queryInt(r, "top_n", "topN", 10)

	_ = conn.WriteJSON(map[string]any{
		"type": "start",
		"msg":  "conexión abierta, calculando recomendaciones…",
	})

	_ = conn.WriteJSON(map[string]any{
		"type": "progress",
		"msg":  "seleccionando vecinos y prediciendo ratings",
	})

	items, err := h.svc.Recommend(userID, k, topN)
	if err != nil {
		_ = conn.WriteJSON(map[string]any{
			"type":  "error",
			"error": err.Error(),
		})
		return
	}

	_ = conn.WriteJSON(map[string]any{
		"type":        "recommendations",
		"userId":      userID,
		"items":       items,
		"generatedAt": time.Now(),
	})
}

// @Summary Validar la calidad de las recomendaciones de un usuario
// @Tags recommend
// @Produce json
// @Param id path int true "userId"
// @Param top_n query int false "recomendaciones a validar (default 10)"
// @Success 200 {object} models.ValidationReport
// @Router /users/{id}/recommendations/validate [get]
func (h *RecommendHandler) Validate(w http.ResponseWriter, r *http.Request) {
	userID, _ := strconv.Atoi(chi.URLParam(r, "id"))
	topN := queryInt(r, "top_n", "topN", 10)

	report, err := h.svc.Validate(userID, topN)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// @Summary Explicar las recomendaciones de un usuario
// @Tags recommend
// @Produce json
// @Param id path int true "userId"
// @Param top_n query int false "recomendaciones a explicar (default 5)"
// @Param show_similar_users query int false "vecinos a mostrar por libro (default 5)"
// @Success 200 {object} models.ExplanationReport
// @Router /users/{id}/recommendations/explain [get]
func (h *RecommendHandler) Explain(w http.ResponseWriter, r *http.Request) {
	userID, _ := strconv.Atoi(chi.URLParam(r, "id"))
	topN := queryInt(r, "top_n", "topN", 5)
	show := queryInt(r, "show_similar_users", "showSimilarUsers", 5)

	report, err := h.svc.Explain(userID, topN, show)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// @Summary Diagnosticar por qué un usuario recibe recomendaciones pobres
// @Tags recommend
// @Produce json
// @Param id path int true "userId"
// @Success 200 {object} models.DiagnosisReport
// @Router /users/{id}/diagnose [get]
func (h *RecommendHandler) Diagnose(w http.ResponseWriter, r *http.Request) {
	userID, _ := strconv.Atoi(chi.URLParam(r, "id"))

	report, err := h.svc.Diagnose(userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
