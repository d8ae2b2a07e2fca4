package models

// ====== Reporte de validación (/recommendations/validate) ======

// ValidationChecks replica los chequeos clásicos sobre la lista recomendada.
type ValidationChecks struct {
	NoDuplicates       bool    `json:"noDuplicates"`
	AllUnrated         bool    `json:"allUnrated"`
	Count              int     `json:"recommendationsCount"`
	AvgPredictedRating float64 `json:"avgPredictedRating"`
	MinPredictedRating float64 `json:"minPredictedRating"`
	MaxPredictedRating float64 `json:"maxPredictedRating"`
	UniqueAuthors      int     `json:"uniqueAuthors"`
	AuthorDiversityPct float64 `json:"authorDiversityPct"`
}

type ValidationReport struct {
	UserID          int              `json:"userId"`
	Score           int              `json:"score"` // 0-100
	Band            string           `json:"band"`  // Excellent / Good / Fair / Poor
	AvgSupport      float64          `json:"avgSupportingNeighbors"`
	RatingSpread    float64          `json:"ratingSpread"`
	UserRatingCount int              `json:"userRatingCount"`
	MedianUserCount float64          `json:"medianUserRatingCount"`
	Checks          ValidationChecks `json:"checks"`
	Recommendations []Recommendation `json:"recommendations"`
}

// ====== Explicación (/recommendations/explain) ======

type BookExplanation struct {
	ISBN            string         `json:"isbn"`
	Title           string         `json:"title"`
	Author          string         `json:"author"`
	PredictedRating float64        `json:"predictedRating"`
	SimilarUsers    []Contribution `json:"similarUsers"` // orden: similitud desc
}

type ExplanationReport struct {
	UserID       int               `json:"userId"`
	Total        int               `json:"totalRecommendations"`
	Explanations []BookExplanation `json:"explanations"`
}

// ====== Diagnóstico (/diagnose) ======

// NeighborInfo resume un vecino top para el diagnóstico.
type NeighborInfo struct {
	UserID       int     `json:"userId"`
	Similarity   float64 `json:"similarity"`
	Overlap      int     `json:"overlappingRatedBooks"`
	TotalRatings int     `json:"theirTotalRatings"`
}

// DiagnosisIssue es un problema detectado con su sugerencia de remediación.
type DiagnosisIssue struct {
	Issue string `json:"issue"`
	Hint  string `json:"hint"`
}

type DiagnosisReport struct {
	UserID          int              `json:"userId"`
	RatingCount     int              `json:"ratingCount"`
	ActivityLevel   string           `json:"activityLevel"`
	TopNeighbors    []NeighborInfo   `json:"topNeighbors"`
	DatasetSparsity float64          `json:"datasetSparsity"` // fracción de celdas sin rating
	TotalUsers      int              `json:"totalUsers"`
	TotalBooks      int              `json:"totalBooks"`
	TotalRatings    int              `json:"totalRatings"`
	Issues          []DiagnosisIssue `json:"issues"`
}
