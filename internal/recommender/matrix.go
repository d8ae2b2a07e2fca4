package recommender

import (
	"fmt"
	"sort"
	"time"

	"github.com/alumnx-ai-labs/bookyard/internal/dataset"
	"github.com/alumnx-ai-labs/bookyard/internal/models"
)

// UnknownUserError indica que el userId no existe en el conjunto filtrado.
type UnknownUserError struct {
	UserID int
}

func (e *UnknownUserError) Error() string {
	return fmt.Sprintf("el usuario %d no existe en el dataset cargado", e.UserID)
}

// Snapshot es el estado inmutable de un load exitoso: tablas filtradas,
// matrices y similitudes. Una vez publicado no se muta nunca; el siguiente
// load construye un snapshot nuevo y lo reemplaza completo.
type Snapshot struct {
	// ids filtrados en orden ascendente; la posición es el índice denso
	UserIDs []int
	ISBNs   []string

	// id -> índice denso (inmutable durante la vida del snapshot)
	userIdx map[int]int
	bookIdx map[string]int

	// metadatos de los libros sobrevivientes
	Books map[string]models.RawBook
	Users map[int]models.RawUser

	// M: matriz usuario×libro de ratings observados (0 donde no hay rating)
	M [][]float64
	// R: máscara explícita de celdas con rating observado
	R [][]bool
	// media por usuario, solo sobre celdas con R=true
	UserMean []float64
	// N: matriz centrada por media, 0 donde R=false
	N [][]float64
	// S: matriz de similitud coseno usuario-usuario, simétrica
	S [][]float64

	// ratings por usuario (len de la fila dispersa) y su mediana global
	RatedCount  []int
	MedianCount float64

	RatingCount int
	LoadedAt    time.Time
}

// UserIndex devuelve el índice denso de un userId.
func (s *Snapshot) UserIndex(userID int) (int, bool) {
	i, ok := s.userIdx[userID]
	return i, ok
}

// BookIndex devuelve el índice denso de un ISBN.
func (s *Snapshot) BookIndex(isbn string) (int, bool) {
	j, ok := s.bookIdx[isbn]
	return j, ok
}

// Sparsity es la fracción de celdas de M sin rating observado.
func (s *Snapshot) Sparsity() float64 {
	total := len(s.UserIDs) * len(s.ISBNs)
	if total == 0 {
		return 0
	}
	return 1 - float64(s.RatingCount)/float64(total)
}

// BuildSnapshot construye M, R, UserMean y N a partir del resultado de la
// limpieza. La fila i corresponde al i-ésimo userId más chico; la columna j
// al j-ésimo ISBN (lexicográfico). La similitud se calcula aparte.
func BuildSnapshot(cr *dataset.CleanResult) *Snapshot {
	nUsers := len(cr.UserIDs)
	nBooks := len(cr.ISBNs)

	snap := &Snapshot{
		UserIDs:     cr.UserIDs,
		ISBNs:       cr.ISBNs,
		userIdx:     make(map[int]int, nUsers),
		bookIdx:     make(map[string]int, nBooks),
		Books:       cr.Books,
		Users:       cr.Users,
		M:           makeMatrix(nUsers, nBooks),
		R:           makeMask(nUsers, nBooks),
		UserMean:    make([]float64, nUsers),
		N:           makeMatrix(nUsers, nBooks),
		RatedCount:  make([]int, nUsers),
		RatingCount: len(cr.Interactions),
		LoadedAt:    time.Now(),
	}

	for i, id := range cr.UserIDs {
		snap.userIdx[id] = i
	}
	for j, isbn := range cr.ISBNs {
		snap.bookIdx[isbn] = j
	}

	for _, it := range cr.Interactions {
		u := snap.userIdx[it.UserID]
		b := snap.bookIdx[it.ISBN]
		snap.M[u][b] = float64(it.Rating)
		snap.R[u][b] = true
	}

	// media por usuario solo sobre celdas con rating; la limpieza garantiza
	// al menos un rating por usuario sobreviviente
	for u := 0; u < nUsers; u++ {
		var sum float64
		var count int
		for b := 0; b < nBooks; b++ {
			if snap.R[u][b] {
				sum += snap.M[u][b]
				count++
			}
		}
		snap.RatedCount[u] = count
		if count > 0 {
			snap.UserMean[u] = sum / float64(count)
		}
		for b := 0; b < nBooks; b++ {
			if snap.R[u][b] {
				snap.N[u][b] = snap.M[u][b] - snap.UserMean[u]
			}
		}
	}

	snap.MedianCount = medianInts(snap.RatedCount)
	return snap
}

func makeMatrix(rows, cols int) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
	}
	return m
}

func makeMask(rows, cols int) [][]bool {
	m := make([][]bool, rows)
	for i := range m {
		m[i] = make([]bool, cols)
	}
	return m
}

func medianInts(xs []int) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]int(nil), xs...)
	sort.Ints(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return float64(sorted[mid-1]+sorted[mid]) / 2
}
