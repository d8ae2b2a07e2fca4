package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/alumnx-ai-labs/bookyard/internal/config"
	"github.com/alumnx-ai-labs/bookyard/internal/dataset"
	"github.com/alumnx-ai-labs/bookyard/internal/models"
	"github.com/alumnx-ai-labs/bookyard/internal/recommender"
)

// Errores del ciclo de vida del servicio (ver también dataset.DataFormatError
// y recommender.UnknownUserError).
var (
	// ErrConcurrentLoad: ya hay un load en vuelo; el pedido se rechaza, no se encola.
	ErrConcurrentLoad = errors.New("ya hay una carga de dataset en curso")
	// ErrNotLoaded: se consultó antes de un load exitoso.
	ErrNotLoaded = errors.New("el dataset no está cargado; llamar primero a /datasets/load")
)

// State es el estado del ciclo de vida del servicio.
type State int32

const (
	StateEmpty State = iota
	StateLoading
	StateReady
	StateLoadFailed
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateLoadFailed:
		return "load_failed"
	default:
		return "unknown"
	}
}

// LoadParams son los parámetros de una carga. Cero significa "usar el
// default de la configuración"; RowLimit 0 significa sin límite.
type LoadParams struct {
	MinUserRatings int `json:"minUserRatings"`
	MinBookRatings int `json:"minBookRatings"`
	RowLimit       int `json:"rowLimit"`
}

// DatasetService es el dueño del snapshot en memoria y de su ciclo de vida
// (empty -> loading -> ready). El trabajo caro pasa una sola vez por load;
// después todas las consultas son lecturas puras sobre el snapshot inmutable
// y corren en paralelo sin locks. Solo el load muta estado y va serializado.
type DatasetService struct {
	cfg *config.Config
	log zerolog.Logger

	// mu protege las transiciones de estado; el snapshot se publica con un
	// swap atómico para que un lector vea el viejo o el nuevo, nunca una mezcla
	mu      sync.Mutex
	state   State
	lastErr error

	snap atomic.Pointer[recommender.Snapshot]
}

func NewDatasetService(cfg *config.Config, log zerolog.Logger) *DatasetService {
	return &DatasetService{
		cfg:   cfg,
		log:   log.With().Str("component", "dataset").Logger(),
		state: StateEmpty,
	}
}

// Load construye un snapshot nuevo completo (parseo, limpieza, matrices,
// similitud) y recién entonces lo publica. Si falla, el snapshot anterior
// sigue sirviendo lecturas y el estado vuelve al que había.
func (s *DatasetService) Load(ctx context.Context, p LoadParams) (*models.LoadResult, error) {
	s.mu.Lock()
	if s.state == StateLoading {
		s.mu.Unlock()
		return nil, ErrConcurrentLoad
	}
	prev := s.state
	s.state = StateLoading
	s.mu.Unlock()

	start := time.Now()
	snap, err := s.buildSnapshot(ctx, p)
	if err != nil {
		s.mu.Lock()
		// LoadFailed es por intento: se registra el error y se vuelve al
		// estado bueno anterior (empty o ready), snapshot intacto
		s.lastErr = err
		if prev == StateReady {
			s.state = StateReady
		} else {
			s.state = StateEmpty
		}
		s.mu.Unlock()

		s.log.Error().Err(err).Msg("carga de dataset falló")
		return nil, err
	}

	s.snap.Store(snap)
	s.mu.Lock()
	s.state = StateReady
	s.lastErr = nil
	s.mu.Unlock()

	elapsed := time.Since(start)
	s.log.Info().
		Int("users", len(snap.UserIDs)).
		Int("books", len(snap.ISBNs)).
		Int("ratings", snap.RatingCount).
		Dur("elapsed", elapsed).
		Msg("dataset cargado")

	return &models.LoadResult{
		Status:       "loaded",
		UserCount:    len(snap.UserIDs),
		BookCount:    len(snap.ISBNs),
		RatingCount:  snap.RatingCount,
		LoadDuration: elapsed.String(),
		Elapsed:      elapsed,
	}, nil
}

func (s *DatasetService) buildSnapshot(ctx context.Context, p LoadParams) (*recommender.Snapshot, error) {
	if p.MinUserRatings <= 0 {
		p.MinUserRatings = s.cfg.MinUserRatings
	}
	if p.MinBookRatings <= 0 {
		p.MinBookRatings = s.cfg.MinBookRatings
	}

	src := dataset.Source{
		BooksPath:   filepath.Join(s.cfg.DataDir, s.cfg.BooksFile),
		RatingsPath: filepath.Join(s.cfg.DataDir, s.cfg.RatingsFile),
		UsersPath:   filepath.Join(s.cfg.DataDir, s.cfg.UsersFile),
	}

	books, ratings, users, err := src.Load(p.RowLimit)
	if err != nil {
		return nil, err
	}
	s.log.Debug().
		Int("rawBooks", len(books)).
		Int("rawRatings", len(ratings)).
		Int("rawUsers", len(users)).
		Msg("fuentes parseadas")

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("carga interrumpida: %w", err)
	}

	cleaned := dataset.Clean(books, ratings, users, dataset.Thresholds{
		MinUserRatings: p.MinUserRatings,
		MinBookRatings: p.MinBookRatings,
	})

	snap := recommender.BuildSnapshot(cleaned)
	snap.ComputeSimilarity(s.cfg.SimWorkers)
	return snap, nil
}

// Status siempre responde, esté cargado o no.
func (s *DatasetService) Status() models.StatusInfo {
	s.mu.Lock()
	state := s.state
	lastErr := s.lastErr
	s.mu.Unlock()

	info := models.StatusInfo{State: state.String()}
	if snap := s.snap.Load(); snap != nil {
		info.UserCount = len(snap.UserIDs)
		info.BookCount = len(snap.ISBNs)
	}
	if lastErr != nil {
		info.LastError = lastErr.Error()
	}
	return info
}

// snapshot devuelve el snapshot vigente o ErrNotLoaded. Las consultas
// trabajan sobre la referencia devuelta: un load concurrente no las afecta,
// y mientras un reload está en vuelo se sigue sirviendo el snapshot anterior.
func (s *DatasetService) snapshot() (*recommender.Snapshot, error) {
	snap := s.snap.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap, nil
}

// ListUsers devuelve los primeros limit userIds del snapshot (orden asc).
func (s *DatasetService) ListUsers(limit int) ([]int, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > len(snap.UserIDs) {
		limit = len(snap.UserIDs)
	}
	out := make([]int, limit)
	copy(out, snap.UserIDs[:limit])
	return out, nil
}

func (s *DatasetService) Recommend(userID, k, topN int) ([]models.Recommendation, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Recommend(userID, k, topN, s.cfg.MinPredictedRating)
}

func (s *DatasetService) Validate(userID, topN int) (*models.ValidationReport, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Validate(userID, topN, s.cfg.MinPredictedRating)
}

func (s *DatasetService) Explain(userID, topN, showSimilarUsers int) (*models.ExplanationReport, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Explain(userID, topN, showSimilarUsers, s.cfg.MinPredictedRating)
}

func (s *DatasetService) Diagnose(userID int) (*models.DiagnosisReport, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Diagnose(userID)
}
