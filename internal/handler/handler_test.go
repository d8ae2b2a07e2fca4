package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alumnx-ai-labs/bookyard/internal/config"
	"github.com/alumnx-ai-labs/bookyard/internal/dataset"
	"github.com/alumnx-ai-labs/bookyard/internal/models"
	"github.com/alumnx-ai-labs/bookyard/internal/recommender"
	"github.com/alumnx-ai-labs/bookyard/internal/service"
)

// newRouter levanta el router completo contra CSVs de prueba en un tempdir.
func newRouter(t *testing.T) (*chi.Mux, *service.DatasetService) {
	t.Helper()
	dir := t.TempDir()

	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	write("Books.csv", "ISBN;Title;Author;Publisher;Year\n"+
		"b1;Titulo 1;Autor A;Ed;2001\n"+
		"b2;Titulo 2;Autor B;Ed;2002\n"+
		"b3;Titulo 3;Autor C;Ed;2003\n"+
		"b4;Titulo 4;Autor D;Ed;2004\n"+
		"b5;Titulo 5;Autor E;Ed;2005\n")
	write("Book-Ratings.csv", "User-ID;ISBN;Book-Rating\n"+
		"1;b1;8\n1;b2;7\n1;b3;9\n"+
		"2;b1;7\n2;b2;8\n2;b4;6\n"+
		"3;b1;2\n3;b3;8\n3;b5;9\n"+
		"4;b2;7\n4;b4;5\n4;b5;8\n")
	write("Users.csv", "User-ID;Location;Age\n1;lima;30\n2;quito;25\n3;bogota;NULL\n4;sucre;41\n")

	cfg := &config.Config{
		DataDir:        dir,
		BooksFile:      "Books.csv",
		RatingsFile:    "Book-Ratings.csv",
		UsersFile:      "Users.csv",
		MinUserRatings: 1,
		MinBookRatings: 1,
		SimWorkers:     2,
	}
	svc := service.NewDatasetService(cfg, zerolog.Nop())
	statsSvc := service.NewStatsService(svc)

	dataH := NewDatasetHandler(svc)
	recH := NewRecommendHandler(svc)
	statsH := NewStatsHandler(statsSvc)

	r := chi.NewRouter()
	r.Get("/health", Health)
	r.Route("/datasets", func(r chi.Router) {
		r.Post("/load", dataH.Load)
		r.Get("/status", dataH.Status)
		r.Get("/users", dataH.ListUsers)
	})
	r.Route("/users/{id}", func(r chi.Router) {
		r.Get("/recommendations", recH.GetRecommendations)
		r.Get("/recommendations/validate", recH.Validate)
		r.Get("/recommendations/explain", recH.Explain)
		r.Get("/diagnose", recH.Diagnose)
		r.Get("/stats", statsH.UserStats)
	})
	r.Get("/stats/overview", statsH.Overview)
	r.Get("/books/top-rated", statsH.TopBooks)
	r.Get("/users/most-active", statsH.MostActiveUsers)

	return r, svc
}

func do(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func loadDataset(t *testing.T, router http.Handler) {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/datasets/load", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestHealth(t *testing.T) {
	router, _ := newRouter(t)

	rec := do(t, router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestLoadEndpoint(t *testing.T) {
	router, _ := newRouter(t)

	rec := do(t, router, http.MethodPost, "/datasets/load", `{"minUserRatings":1,"minBookRatings":1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var res models.LoadResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "loaded", res.Status)
	assert.Equal(t, 4, res.UserCount)
	assert.Equal(t, 5, res.BookCount)
	assert.Equal(t, 12, res.RatingCount)
}

func TestLoadEndpointBadBody(t *testing.T) {
	router, _ := newRouter(t)

	rec := do(t, router, http.MethodPost, "/datasets/load", "esto no es json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusEndpoint(t *testing.T) {
	router, _ := newRouter(t)

	rec := do(t, router, http.MethodGet, "/datasets/status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var info models.StatusInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "empty", info.State)

	loadDataset(t, router)

	rec = do(t, router, http.MethodGet, "/datasets/status", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "ready", info.State)
	assert.Equal(t, 4, info.UserCount)
}

func TestListUsersBeforeLoad(t *testing.T) {
	router, _ := newRouter(t)

	rec := do(t, router, http.MethodGet, "/datasets/users", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetRecommendationsEndpoint(t *testing.T) {
	router, _ := newRouter(t)
	loadDataset(t, router)

	rec := do(t, router, http.MethodGet, "/users/1/recommendations?k=10&top_n=5", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var items []models.Recommendation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	for _, it := range items {
		assert.NotContains(t, []string{"b1", "b2", "b3"}, it.ISBN)
	}
}

func TestGetRecommendationsUnknownUser(t *testing.T) {
	router, _ := newRouter(t)
	loadDataset(t, router)

	rec := do(t, router, http.MethodGet, "/users/999/recommendations", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDiagnoseEndpoint(t *testing.T) {
	router, _ := newRouter(t)
	loadDataset(t, router)

	rec := do(t, router, http.MethodGet, "/users/1/diagnose", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var report models.DiagnosisReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 1, report.UserID)
	assert.Equal(t, 4, report.TotalUsers)
}

func TestOverviewEndpoint(t *testing.T) {
	router, _ := newRouter(t)
	loadDataset(t, router)

	rec := do(t, router, http.MethodGet, "/stats/overview", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var ov models.OverviewStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ov))
	assert.Equal(t, 12, ov.TotalRatings)
}

func TestWriteErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"formato", &dataset.DataFormatError{Source: "Books.csv", Column: "ISBN"}, http.StatusUnprocessableEntity},
		{"carga concurrente", service.ErrConcurrentLoad, http.StatusConflict},
		{"sin cargar", service.ErrNotLoaded, http.StatusBadRequest},
		{"usuario desconocido", &recommender.UnknownUserError{UserID: 7}, http.StatusNotFound},
		{"genérico", assert.AnError, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tc.err)
			assert.Equal(t, tc.code, rec.Code)
			assert.Contains(t, rec.Body.String(), "error")
		})
	}
}

func TestQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?k=7&topN=3&bad=x", nil)

	assert.Equal(t, 7, queryInt(req, "k", "", 10))
	assert.Equal(t, 3, queryInt(req, "top_n", "topN", 10)) // acepta el alias camelCase
	assert.Equal(t, 10, queryInt(req, "bad", "", 10))
	assert.Equal(t, 10, queryInt(req, "ausente", "", 10))
}
