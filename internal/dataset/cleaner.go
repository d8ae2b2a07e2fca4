package dataset

import (
	"sort"

	"github.com/alumnx-ai-labs/bookyard/internal/models"
)

// Thresholds son los umbrales de limpieza del dataset.
type Thresholds struct {
	MinUserRatings int
	MinBookRatings int
}

// CleanResult es la salida de la limpieza: interacciones densas listas para
// construir la matriz, más los conjuntos de ids filtrados (ordenados asc).
type CleanResult struct {
	Interactions []models.CleanedInteraction
	UserIDs      []int    // ascendente
	ISBNs        []string // lexicográfico ascendente

	// tablas de los libros y usuarios sobrevivientes, para enriquecer respuestas
	Books map[string]models.RawBook
	Users map[int]models.RawUser
}

// Clean aplica el filtrado de una sola pasada:
//  1. descarta ratings con valor 0 (feedback implícito)
//  2. cuenta ratings por usuario y por libro sobre lo que queda
//  3. descarta ratings cuyo usuario o libro no llega al umbral
//  4. inner-join contra Books (ISBN) y Users (User-ID), descartando huérfanos
//
// El filtrado NO se reaplica iterativamente: un libro que cae bajo el umbral
// después del filtrado de usuarios no se reevalúa.
func Clean(
	books []models.RawBook,
	ratings []models.RawRating,
	users []models.RawUser,
	th Thresholds,
) *CleanResult {

	// índice de libros: ante ISBN duplicado gana la primera ocurrencia
	bookByISBN := make(map[string]models.RawBook, len(books))
	for _, b := range books {
		if _, ok := bookByISBN[b.ISBN]; !ok {
			bookByISBN[b.ISBN] = b
		}
	}

	userByID := make(map[int]models.RawUser, len(users))
	for _, u := range users {
		if _, ok := userByID[u.UserID]; !ok {
			userByID[u.UserID] = u
		}
	}

	// 1) fuera los ceros
	explicit := make([]models.RawRating, 0, len(ratings))
	for _, r := range ratings {
		if r.Rating > 0 {
			explicit = append(explicit, r)
		}
	}

	// 2) conteos sobre el conjunto restante
	perUser := make(map[int]int)
	perBook := make(map[string]int)
	for _, r := range explicit {
		perUser[r.UserID]++
		perBook[r.ISBN]++
	}

	// 3) + 4) umbrales y join en una sola pasada
	interactions := make([]models.CleanedInteraction, 0, len(explicit))
	userSet := make(map[int]struct{})
	bookSet := make(map[string]struct{})

	for _, r := range explicit {
		if perUser[r.UserID] < th.MinUserRatings || perBook[r.ISBN] < th.MinBookRatings {
			continue
		}
		if _, ok := bookByISBN[r.ISBN]; !ok {
			continue
		}
		if _, ok := userByID[r.UserID]; !ok {
			continue
		}
		interactions = append(interactions, models.CleanedInteraction{
			UserID: r.UserID,
			ISBN:   r.ISBN,
			Rating: r.Rating,
		})
		userSet[r.UserID] = struct{}{}
		bookSet[r.ISBN] = struct{}{}
	}

	// orden determinista: userId asc, luego isbn asc
	sort.Slice(interactions, func(i, j int) bool {
		if interactions[i].UserID != interactions[j].UserID {
			return interactions[i].UserID < interactions[j].UserID
		}
		return interactions[i].ISBN < interactions[j].ISBN
	})

	res := &CleanResult{
		Interactions: interactions,
		UserIDs:      make([]int, 0, len(userSet)),
		ISBNs:        make([]string, 0, len(bookSet)),
		Books:        make(map[string]models.RawBook, len(bookSet)),
		Users:        make(map[int]models.RawUser, len(userSet)),
	}
	for id := range userSet {
		res.UserIDs = append(res.UserIDs, id)
		res.Users[id] = userByID[id]
	}
	for isbn := range bookSet {
		res.ISBNs = append(res.ISBNs, isbn)
		res.Books[isbn] = bookByISBN[isbn]
	}
	sort.Ints(res.UserIDs)
	sort.Strings(res.ISBNs)

	return res
}
