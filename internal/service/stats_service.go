package service

import (
	"sort"

	"github.com/alumnx-ai-labs/bookyard/internal/models"
	"github.com/alumnx-ai-labs/bookyard/internal/recommender"
)

// StatsService expone estadísticas de solo lectura sobre el snapshot
// cargado (resumen global, stats por usuario, top de libros, usuarios más
// activos). Todo se calcula al vuelo: son recorridos lineales sobre matrices
// que ya están en memoria.
type StatsService struct {
	data *DatasetService
}

func NewStatsService(data *DatasetService) *StatsService {
	return &StatsService{data: data}
}

// Overview resume el snapshot completo: conteos, promedio, mediana y
// distribución de ratings.
func (s *StatsService) Overview() (*models.OverviewStats, error) {
	snap, err := s.data.snapshot()
	if err != nil {
		return nil, err
	}

	dist := make(map[int]int)
	var sum float64
	var all []int
	for u := range snap.M {
		for b, rated := range snap.R[u] {
			if !rated {
				continue
			}
			r := int(snap.M[u][b])
			dist[r]++
			sum += float64(r)
			all = append(all, r)
		}
	}

	stats := &models.OverviewStats{
		TotalRatings:       snap.RatingCount,
		UniqueUsers:        len(snap.UserIDs),
		UniqueBooks:        len(snap.ISBNs),
		RatingDistribution: dist,
	}
	if len(all) > 0 {
		stats.AverageRating = sum / float64(len(all))
		sort.Ints(all)
		mid := len(all) / 2
		if len(all)%2 == 1 {
			stats.MedianRating = float64(all[mid])
		} else {
			stats.MedianRating = float64(all[mid-1]+all[mid]) / 2
		}
	}
	return stats, nil
}

// UserStats devuelve las estadísticas de un usuario del snapshot.
func (s *StatsService) UserStats(userID int) (*models.UserStats, error) {
	snap, err := s.data.snapshot()
	if err != nil {
		return nil, err
	}
	u, ok := snap.UserIndex(userID)
	if !ok {
		return nil, &recommender.UnknownUserError{UserID: userID}
	}

	stats := &models.UserStats{UserID: userID}
	var sum float64
	for b, rated := range snap.R[u] {
		if !rated {
			continue
		}
		stats.BooksRated = append(stats.BooksRated, snap.ISBNs[b])
		sum += snap.M[u][b]
		stats.TotalRatings++
	}
	if stats.TotalRatings > 0 {
		stats.AverageRating = sum / float64(stats.TotalRatings)
	}
	return stats, nil
}

// TopBooks devuelve los libros mejor puntuados con al menos minRatings
// ratings. Empates: más ratings primero, después ISBN asc.
func (s *StatsService) TopBooks(minRatings, limit int) ([]models.BookStats, error) {
	snap, err := s.data.snapshot()
	if err != nil {
		return nil, err
	}
	if minRatings <= 0 {
		minRatings = 10
	}
	if limit <= 0 {
		limit = 10
	}

	out := make([]models.BookStats, 0)
	for b, isbn := range snap.ISBNs {
		var sum float64
		var count int
		for u := range snap.M {
			if snap.R[u][b] {
				sum += snap.M[u][b]
				count++
			}
		}
		if count < minRatings {
			continue
		}
		book := snap.Books[isbn]
		out = append(out, models.BookStats{
			ISBN:          isbn,
			Title:         book.Title,
			Author:        book.Author,
			AverageRating: sum / float64(count),
			TotalRatings:  count,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].AverageRating != out[j].AverageRating {
			return out[i].AverageRating > out[j].AverageRating
		}
		if out[i].TotalRatings != out[j].TotalRatings {
			return out[i].TotalRatings > out[j].TotalRatings
		}
		return out[i].ISBN < out[j].ISBN
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// MostActiveUsers devuelve los usuarios con más ratings. Empate: userId asc.
func (s *StatsService) MostActiveUsers(limit int) ([]models.UserActivity, error) {
	snap, err := s.data.snapshot()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}

	out := make([]models.UserActivity, 0, len(snap.UserIDs))
	for u, id := range snap.UserIDs {
		var sum float64
		for b, rated := range snap.R[u] {
			if rated {
				sum += snap.M[u][b]
			}
		}
		count := snap.RatedCount[u]
		ua := models.UserActivity{UserID: id, TotalRatings: count}
		if count > 0 {
			ua.AverageRating = sum / float64(count)
		}
		out = append(out, ua)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalRatings != out[j].TotalRatings {
			return out[i].TotalRatings > out[j].TotalRatings
		}
		return out[i].UserID < out[j].UserID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
