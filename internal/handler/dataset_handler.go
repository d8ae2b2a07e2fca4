package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/alumnx-ai-labs/bookyard/internal/service"
)

type DatasetHandler struct {
	svc *service.DatasetService
}

func NewDatasetHandler(s *service.DatasetService) *DatasetHandler {
	return &DatasetHandler{svc: s}
}

// @Summary Cargar el dataset en memoria
// @Tags datasets
// @Accept json
// @Produce json
// @Param body body service.LoadParams false "umbrales y límite de filas (0 = defaults)"
// @Success 200 {object} models.LoadResult
// @Router /datasets/load [post]
func (h *DatasetHandler) Load(w http.ResponseWriter, r *http.Request) {
	var params service.LoadParams
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			http.Error(w, "body inválido: se espera JSON", http.StatusBadRequest)
			return
		}
	}

	result, err := h.svc.Load(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// @Summary Estado del dataset
// @Tags datasets
// @Produce json
// @Success 200 {object} models.StatusInfo
// @Router /datasets/status [get]
func (h *DatasetHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Status())
}

// @Summary Usuarios disponibles para recomendar
// @Tags datasets
// @Produce json
// @Param limit query int false "cantidad de userIds (default 20)"
// @Router /datasets/users [get]
func (h *DatasetHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 20
	}

	users, err := h.svc.ListUsers(limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"userIds": users,
		"limit":   limit,
	})
}
