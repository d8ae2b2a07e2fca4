package recommender

import (
	"math"
	"sort"

	"github.com/alumnx-ai-labs/bookyard/internal/models"
)

const (
	DefaultK    = 10
	DefaultTopN = 10
	MaxK        = 50 // por seguridad, no deja pedir 1000 vecinos
)

// neighbor es un candidato a vecino durante la selección.
type neighbor struct {
	idx    int
	userID int
	sim    float64
}

// Recommend genera hasta topN recomendaciones para un usuario usando los k
// vecinos más similares. Devuelve UnknownUserError si el usuario no está en
// el conjunto filtrado; si no hay vecinos o candidatos devuelve lista vacía.
func (s *Snapshot) Recommend(userID, k, topN int, minPredicted float64) ([]models.Recommendation, error) {
	if k <= 0 {
		k = DefaultK
	} else if k > MaxK {
		k = MaxK
	}
	if topN <= 0 {
		topN = DefaultTopN
	}

	u, ok := s.userIdx[userID]
	if !ok {
		return nil, &UnknownUserError{UserID: userID}
	}

	neighbors := s.topNeighbors(u, k)
	if len(neighbors) == 0 {
		return []models.Recommendation{}, nil
	}

	// candidatos: unión de libros puntuados por los vecinos, menos los que
	// el usuario objetivo ya puntuó
	candidates := make(map[int]struct{})
	for _, n := range neighbors {
		for b, rated := range s.R[n.idx] {
			if rated && !s.R[u][b] {
				candidates[b] = struct{}{}
			}
		}
	}

	recs := make([]models.Recommendation, 0, len(candidates))
	for b := range candidates {
		var num, den float64
		var contribs []models.Contribution
		for _, n := range neighbors {
			if !s.R[n.idx][b] {
				continue
			}
			num += n.sim * s.N[n.idx][b]
			den += math.Abs(n.sim)
			contribs = append(contribs, models.Contribution{
				UserID:     n.userID,
				Similarity: n.sim,
				Rating:     int(s.M[n.idx][b]),
			})
		}
		// no debería pasar con la construcción de candidatos, pero se guarda
		if den == 0 {
			continue
		}

		predicted := s.UserMean[u] + num/den
		if predicted < minPredicted {
			continue
		}

		// contribuciones ordenadas por similitud desc (empate: userId asc)
		sort.Slice(contribs, func(i, j int) bool {
			if contribs[i].Similarity != contribs[j].Similarity {
				return contribs[i].Similarity > contribs[j].Similarity
			}
			return contribs[i].UserID < contribs[j].UserID
		})

		isbn := s.ISBNs[b]
		book := s.Books[isbn]
		recs = append(recs, models.Recommendation{
			ISBN:                isbn,
			Title:               book.Title,
			Author:              book.Author,
			Publisher:           book.Publisher,
			Year:                book.Year,
			PredictedRating:     predicted,
			SupportingNeighbors: len(contribs),
			Contributing:        contribs,
		})
	}

	// ranking: rating predicho desc, vecinos de soporte desc, ISBN asc
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].PredictedRating != recs[j].PredictedRating {
			return recs[i].PredictedRating > recs[j].PredictedRating
		}
		if recs[i].SupportingNeighbors != recs[j].SupportingNeighbors {
			return recs[i].SupportingNeighbors > recs[j].SupportingNeighbors
		}
		return recs[i].ISBN < recs[j].ISBN
	})

	if len(recs) > topN {
		recs = recs[:topN]
	}
	return recs, nil
}

// topNeighbors selecciona los k usuarios más similares al índice u,
// excluyéndolo a él mismo. La selección es puramente por ranking: similitudes
// <= 0 también entran si hacen falta para llegar a k. Empate: gana el userId
// menor (determinista).
func (s *Snapshot) topNeighbors(u, k int) []neighbor {
	all := make([]neighbor, 0, len(s.UserIDs)-1)
	for j := range s.UserIDs {
		if j == u {
			continue
		}
		all = append(all, neighbor{idx: j, userID: s.UserIDs[j], sim: s.S[u][j]})
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].sim != all[j].sim {
			return all[i].sim > all[j].sim
		}
		return all[i].userID < all[j].userID
	})

	if len(all) > k {
		all = all[:k]
	}
	return all
}
