package models

import "time"

// Contribution es el aporte de un vecino a una predicción concreta.
type Contribution struct {
	UserID     int     `json:"userId"`
	Similarity float64 `json:"similarity"`
	Rating     int     `json:"rating"`
}

// Recommendation es un libro recomendado con su rating predicho y los
// vecinos que lo sustentan, enriquecido con los metadatos del libro.
type Recommendation struct {
	ISBN                string         `json:"isbn"`
	Title               string         `json:"title"`
	Author              string         `json:"author"`
	Publisher           string         `json:"publisher"`
	Year                *int           `json:"year,omitempty"`
	PredictedRating     float64        `json:"predictedRating"`
	SupportingNeighbors int            `json:"supportingNeighbors"`
	Contributing        []Contribution `json:"contributing"`
}

// ====== Resultados de load / status ======

type LoadResult struct {
	Status       string `json:"status"`
	UserCount    int    `json:"userCount"`
	BookCount    int    `json:"bookCount"`
	RatingCount  int    `json:"ratingCount"`
	LoadDuration string `json:"loadDuration"`

	// duración cruda, útil para tests y logs
	Elapsed time.Duration `json:"-"`
}

type StatusInfo struct {
	State     string `json:"state"`
	UserCount int    `json:"userCount"`
	BookCount int    `json:"bookCount"`
	LastError string `json:"lastError,omitempty"`
}
