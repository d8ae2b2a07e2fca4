package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alumnx-ai-labs/bookyard/internal/dataset"
	"github.com/alumnx-ai-labs/bookyard/internal/recommender"
	"github.com/alumnx-ai-labs/bookyard/internal/service"
)

// writeJSON serializa la respuesta; el handler ya seteó el Content-Type.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError mapea la taxonomía de errores del core a códigos HTTP.
func writeError(w http.ResponseWriter, err error) {
	var formatErr *dataset.DataFormatError
	var unknownUser *recommender.UnknownUserError

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &formatErr):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrConcurrentLoad):
		status = http.StatusConflict
	case errors.Is(err, service.ErrNotLoaded):
		status = http.StatusBadRequest
	case errors.As(err, &unknownUser):
		status = http.StatusNotFound
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}
