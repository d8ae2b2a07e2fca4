package recommender

import (
	"fmt"
	"math"
	"sort"

	"github.com/alumnx-ai-labs/bookyard/internal/models"
)

// pesos del score de validación; la suma es 100
const (
	supportWeight = 40.0
	spreadWeight  = 25.0
	densityWeight = 35.0

	// soporte promedio y dispersión a partir de los cuales el componente
	// respectivo llega a su peso completo
	fullSupport = 5.0
	fullSpread  = 1.25
)

// Validate corre el recomendador y puntúa la calidad del resultado (0-100).
// El score es monótono en el soporte de vecinos y en la densidad de ratings
// del usuario; una dispersión baja de predicciones penaliza (el motor no
// está discriminando entre candidatos).
func (s *Snapshot) Validate(userID, topN int, minPredicted float64) (*models.ValidationReport, error) {
	recs, err := s.Recommend(userID, DefaultK, topN, minPredicted)
	if err != nil {
		return nil, err
	}
	u := s.userIdx[userID] // Recommend ya validó que existe

	var avgSupport, spread float64
	if len(recs) > 0 {
		var sum float64
		for _, r := range recs {
			sum += float64(r.SupportingNeighbors)
		}
		avgSupport = sum / float64(len(recs))
		spread = predictedStdDev(recs)
	}

	userCount := s.RatedCount[u]
	densityRatio := 1.0
	if s.MedianCount > 0 {
		densityRatio = math.Min(float64(userCount)/s.MedianCount, 1)
	}

	score := math.Min(avgSupport/fullSupport, 1)*supportWeight +
		math.Min(spread/fullSpread, 1)*spreadWeight +
		densityRatio*densityWeight

	report := &models.ValidationReport{
		UserID:          userID,
		Score:           int(math.Round(score)),
		Band:            scoreBand(score),
		AvgSupport:      avgSupport,
		RatingSpread:    spread,
		UserRatingCount: userCount,
		MedianUserCount: s.MedianCount,
		Checks:          s.validationChecks(u, recs),
		Recommendations: recs,
	}
	return report, nil
}

// bandas fijas del contrato: ≥85 Excellent, ≥65 Good, ≥40 Fair, resto Poor
func scoreBand(score float64) string {
	switch {
	case score >= 85:
		return "Excellent"
	case score >= 65:
		return "Good"
	case score >= 40:
		return "Fair"
	default:
		return "Poor"
	}
}

func predictedStdDev(recs []models.Recommendation) float64 {
	var mean float64
	for _, r := range recs {
		mean += r.PredictedRating
	}
	mean /= float64(len(recs))

	var sq float64
	for _, r := range recs {
		d := r.PredictedRating - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(recs)))
}

func (s *Snapshot) validationChecks(u int, recs []models.Recommendation) models.ValidationChecks {
	checks := models.ValidationChecks{Count: len(recs)}
	if len(recs) == 0 {
		return checks
	}

	seen := make(map[string]struct{}, len(recs))
	authors := make(map[string]struct{})
	checks.NoDuplicates = true
	checks.AllUnrated = true
	checks.MinPredictedRating = recs[0].PredictedRating
	checks.MaxPredictedRating = recs[0].PredictedRating

	var sum float64
	for _, r := range recs {
		if _, dup := seen[r.ISBN]; dup {
			checks.NoDuplicates = false
		}
		seen[r.ISBN] = struct{}{}
		authors[r.Author] = struct{}{}

		if b, ok := s.bookIdx[r.ISBN]; ok && s.R[u][b] {
			checks.AllUnrated = false
		}

		sum += r.PredictedRating
		checks.MinPredictedRating = math.Min(checks.MinPredictedRating, r.PredictedRating)
		checks.MaxPredictedRating = math.Max(checks.MaxPredictedRating, r.PredictedRating)
	}
	checks.AvgPredictedRating = sum / float64(len(recs))
	checks.UniqueAuthors = len(authors)
	checks.AuthorDiversityPct = float64(len(authors)) / float64(len(recs)) * 100
	return checks
}

// Explain devuelve, por libro recomendado, los vecinos que contribuyeron
// (recortados a showSimilarUsers), ordenados por similitud descendente.
func (s *Snapshot) Explain(userID, topN, showSimilarUsers int, minPredicted float64) (*models.ExplanationReport, error) {
	if showSimilarUsers <= 0 {
		showSimilarUsers = 5
	}

	recs, err := s.Recommend(userID, DefaultK, topN, minPredicted)
	if err != nil {
		return nil, err
	}

	explanations := make([]models.BookExplanation, 0, len(recs))
	for _, r := range recs {
		similar := r.Contributing
		if len(similar) > showSimilarUsers {
			similar = similar[:showSimilarUsers]
		}
		explanations = append(explanations, models.BookExplanation{
			ISBN:            r.ISBN,
			Title:           r.Title,
			Author:          r.Author,
			PredictedRating: r.PredictedRating,
			SimilarUsers:    similar,
		})
	}

	return &models.ExplanationReport{
		UserID:       userID,
		Total:        len(explanations),
		Explanations: explanations,
	}, nil
}

// Diagnose explica por qué las recomendaciones de un usuario pueden salir
// pobres: cuántos ratings tiene, qué tan similares son sus vecinos y qué tan
// disperso está el dataset. Para un usuario conocido nunca falla.
func (s *Snapshot) Diagnose(userID int) (*models.DiagnosisReport, error) {
	u, ok := s.userIdx[userID]
	if !ok {
		return nil, &UnknownUserError{UserID: userID}
	}

	count := s.RatedCount[u]
	neighbors := s.positiveNeighbors(u, 20)

	report := &models.DiagnosisReport{
		UserID:          userID,
		RatingCount:     count,
		ActivityLevel:   activityLevel(count),
		TopNeighbors:    neighbors,
		DatasetSparsity: s.Sparsity(),
		TotalUsers:      len(s.UserIDs),
		TotalBooks:      len(s.ISBNs),
		TotalRatings:    s.RatingCount,
	}

	var maxSim float64
	if len(neighbors) > 0 {
		maxSim = neighbors[0].Similarity
	}
	ratedPct := 0.0
	if len(s.ISBNs) > 0 {
		ratedPct = float64(count) / float64(len(s.ISBNs)) * 100
	}

	var issues []models.DiagnosisIssue
	if len(neighbors) < 3 {
		issues = append(issues, models.DiagnosisIssue{
			Issue: fmt.Sprintf("vecinos insuficientes: solo %d usuarios con similitud positiva (se necesitan ≥3)", len(neighbors)),
			Hint:  "cargar más datos (subir o quitar row_limit en /datasets/load)",
		})
	}
	if len(neighbors) >= 1 && maxSim < 0.3 {
		issues = append(issues, models.DiagnosisIssue{
			Issue: fmt.Sprintf("similitud máxima muy baja (%.2f): los gustos del usuario no se parecen a nadie", maxSim),
			Hint:  "probar con un k mayor o cargar más datos",
		})
	}
	if count < 5 {
		issues = append(issues, models.DiagnosisIssue{
			Issue: fmt.Sprintf("el usuario tiene solo %d ratings (se recomiendan ≥5)", count),
			Hint:  "recolectar más ratings de este usuario",
		})
	}
	if ratedPct < 1 {
		issues = append(issues, models.DiagnosisIssue{
			Issue: fmt.Sprintf("densidad de datos baja: el usuario puntuó el %.2f%% de los libros", ratedPct),
			Hint:  "las predicciones tendrán poca confianza hasta tener más ratings",
		})
	}
	if s.Sparsity() > 0.99 {
		issues = append(issues, models.DiagnosisIssue{
			Issue: fmt.Sprintf("dataset extremadamente disperso (%.1f%% de celdas vacías)", s.Sparsity()*100),
			Hint:  "cargar el dataset completo sin row_limit",
		})
	}
	report.Issues = issues

	return report, nil
}

// positiveNeighbors devuelve hasta limit vecinos con similitud > 0,
// ordenados por similitud desc, con el solapamiento de libros co-puntuados.
func (s *Snapshot) positiveNeighbors(u, limit int) []models.NeighborInfo {
	var out []models.NeighborInfo
	for j := range s.UserIDs {
		if j == u || s.S[u][j] <= 0 {
			continue
		}
		overlap := 0
		for b, rated := range s.R[u] {
			if rated && s.R[j][b] {
				overlap++
			}
		}
		out = append(out, models.NeighborInfo{
			UserID:       s.UserIDs[j],
			Similarity:   s.S[u][j],
			Overlap:      overlap,
			TotalRatings: s.RatedCount[j],
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Similarity != out[j].Similarity {
			return out[i].Similarity > out[j].Similarity
		}
		return out[i].UserID < out[j].UserID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func activityLevel(count int) string {
	switch {
	case count >= 20:
		return "muy activo"
	case count >= 10:
		return "activo"
	case count >= 5:
		return "moderado"
	default:
		return "baja actividad"
	}
}
