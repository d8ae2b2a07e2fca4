package models

// Registros crudos tal como salen de los CSV del dataset Book-Crossing.
// Los campos numéricos que no parsean quedan en nil, no abortan la carga.

type RawBook struct {
	ISBN      string `json:"isbn"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Publisher string `json:"publisher"`
	Year      *int   `json:"year,omitempty"`
}

type RawRating struct {
	UserID int    `json:"userId"`
	ISBN   string `json:"isbn"`
	Rating int    `json:"rating"` // 0-10, 0 = feedback implícito (se descarta al limpiar)
}

type RawUser struct {
	UserID   int     `json:"userId"`
	Location *string `json:"location,omitempty"`
	Age      *int    `json:"age,omitempty"`
}

// CleanedInteraction es un rating que sobrevivió la limpieza: rating > 0,
// usuario y libro por encima de los umbrales, y con join contra Books y Users.
type CleanedInteraction struct {
	UserID int    `json:"userId"`
	ISBN   string `json:"isbn"`
	Rating int    `json:"rating"`
}
