package models

// Estadísticas de solo lectura sobre el snapshot cargado
// (equivalentes a los endpoints de stats del API de ratings original).

type OverviewStats struct {
	TotalRatings       int         `json:"totalRatings"`
	UniqueUsers        int         `json:"uniqueUsers"`
	UniqueBooks        int         `json:"uniqueBooks"`
	AverageRating      float64     `json:"averageRating"`
	MedianRating       float64     `json:"medianRating"`
	RatingDistribution map[int]int `json:"ratingDistribution"`
}

type UserStats struct {
	UserID        int      `json:"userId"`
	TotalRatings  int      `json:"totalRatings"`
	AverageRating float64  `json:"averageRating"`
	BooksRated    []string `json:"booksRated"`
}

type BookStats struct {
	ISBN          string  `json:"isbn"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	AverageRating float64 `json:"averageRating"`
	TotalRatings  int     `json:"totalRatings"`
}

type UserActivity struct {
	UserID        int     `json:"userId"`
	TotalRatings  int     `json:"totalRatings"`
	AverageRating float64 `json:"averageRating"`
}
