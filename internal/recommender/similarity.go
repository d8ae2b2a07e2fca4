package recommender

import (
	"math"
	"sync"
)

// itemValue es una entrada dispersa (columna, valor centrado) de la fila de
// un usuario en N.
type itemValue struct {
	book int
	val  float64
}

// ComputeSimilarity llena S con la similitud coseno entre filas de N.
// Usa la formulación dispersa: un índice invertido libro -> usuarios que lo
// puntuaron evita el costo denso O(U²·B). Pares con norma cero dan 0.
// El cálculo se reparte entre `workers` goroutines por fila; cada celda
// (i,j) con i<j la escribe exactamente un worker, así que no hay carrera.
func (s *Snapshot) ComputeSimilarity(workers int) {
	nUsers := len(s.UserIDs)
	s.S = makeMatrix(nUsers, nUsers)
	if nUsers == 0 {
		return
	}
	if workers < 1 {
		workers = 1
	}

	// filas dispersas de N e índice invertido libro -> raters
	items := make([][]itemValue, nUsers)
	raters := make([][]int, len(s.ISBNs))
	norms := make([]float64, nUsers)

	for u := 0; u < nUsers; u++ {
		var sq float64
		for b, rated := range s.R[u] {
			if !rated {
				continue
			}
			v := s.N[u][b]
			items[u] = append(items[u], itemValue{book: b, val: v})
			raters[b] = append(raters[b], u)
			sq += v * v
		}
		norms[u] = math.Sqrt(sq)
	}

	// diagonal por convención
	for u := 0; u < nUsers; u++ {
		s.S[u][u] = 1
	}

	rows := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range rows {
				s.similarityRow(i, items, raters, norms)
			}
		}()
	}
	for i := 0; i < nUsers; i++ {
		rows <- i
	}
	close(rows)
	wg.Wait()
}

// similarityRow calcula S[i][j] para todo j>i vía productos punto sobre los
// libros compartidos.
func (s *Snapshot) similarityRow(i int, items [][]itemValue, raters [][]int, norms []float64) {
	dots := make(map[int]float64)
	for _, iv := range items[i] {
		for _, j := range raters[iv.book] {
			if j > i {
				dots[j] += iv.val * s.N[j][iv.book]
			}
		}
	}

	for j, dot := range dots {
		if norms[i] == 0 || norms[j] == 0 {
			continue // similitud 0, nunca NaN
		}
		sim := dot / (norms[i] * norms[j])
		// el error de redondeo puede sacar el coseno de [-1, 1]
		if sim > 1 {
			sim = 1
		} else if sim < -1 {
			sim = -1
		}
		s.S[i][j] = sim
		s.S[j][i] = sim
	}
}
