package recommender

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alumnx-ai-labs/bookyard/internal/models"
)

// escenario chico con los tres casos de similitud: positiva, negativa y
// norma cero (el usuario 2 tiene un solo rating, su fila centrada es 0)
func scenarioRatings() []models.RawRating {
	return []models.RawRating{
		{UserID: 1, ISBN: "B1", Rating: 8},
		{UserID: 1, ISBN: "B2", Rating: 7},
		{UserID: 2, ISBN: "B1", Rating: 9},
		{UserID: 3, ISBN: "B1", Rating: 2},
		{UserID: 3, ISBN: "B2", Rating: 3},
		{UserID: 3, ISBN: "B3", Rating: 9},
	}
}

func TestComputeSimilarityScenario(t *testing.T) {
	snap := buildSnap(t, scenarioRatings(), 1, 1, 2)

	u1, _ := snap.UserIndex(1)
	u2, _ := snap.UserIndex(2)
	u3, _ := snap.UserIndex(3)

	// usuario 2 con norma cero: similitud 0 contra todos, nunca NaN
	assert.Equal(t, 0.0, snap.S[u1][u2])
	assert.Equal(t, 0.0, snap.S[u2][u3])

	// los gustos de 1 y 3 son opuestos sobre B1/B2
	assert.InDelta(t, -0.13206, snap.S[u1][u3], 1e-4)
	assert.Less(t, snap.S[u1][u3], 0.0)
}

func TestComputeSimilaritySymmetryAndRange(t *testing.T) {
	ratings := []models.RawRating{
		{UserID: 1, ISBN: "b1", Rating: 8}, {UserID: 1, ISBN: "b2", Rating: 7}, {UserID: 1, ISBN: "b3", Rating: 9},
		{UserID: 2, ISBN: "b1", Rating: 7}, {UserID: 2, ISBN: "b2", Rating: 8}, {UserID: 2, ISBN: "b4", Rating: 6},
		{UserID: 3, ISBN: "b1", Rating: 2}, {UserID: 3, ISBN: "b3", Rating: 8}, {UserID: 3, ISBN: "b5", Rating: 9},
		{UserID: 4, ISBN: "b2", Rating: 7}, {UserID: 4, ISBN: "b4", Rating: 5}, {UserID: 4, ISBN: "b5", Rating: 8},
	}
	snap := buildSnap(t, ratings, 1, 1, 3)

	n := len(snap.UserIDs)
	require.Equal(t, 4, n)
	for i := 0; i < n; i++ {
		assert.Equal(t, 1.0, snap.S[i][i])
		for j := 0; j < n; j++ {
			assert.Equal(t, snap.S[i][j], snap.S[j][i], "S debe ser simétrica")
			assert.GreaterOrEqual(t, snap.S[i][j], -1.0)
			assert.LessOrEqual(t, snap.S[i][j], 1.0)
			assert.False(t, snap.S[i][j] != snap.S[i][j], "NaN en S[%d][%d]", i, j)
		}
	}
}

func TestComputeSimilarityDeterministicAcrossWorkers(t *testing.T) {
	ratings := scenarioRatings()

	a := buildSnap(t, ratings, 1, 1, 1)
	b := buildSnap(t, ratings, 1, 1, 8)

	require.Equal(t, a.UserIDs, b.UserIDs)
	for i := range a.S {
		for j := range a.S[i] {
			assert.InDelta(t, a.S[i][j], b.S[i][j], 1e-12)
		}
	}
}

func TestComputeSimilarityNoSharedBooks(t *testing.T) {
	// sin libros compartidos no hay producto punto: similitud 0
	ratings := []models.RawRating{
		{UserID: 1, ISBN: "a1", Rating: 8},
		{UserID: 1, ISBN: "a2", Rating: 3},
		{UserID: 2, ISBN: "z1", Rating: 9},
		{UserID: 2, ISBN: "z2", Rating: 2},
	}
	snap := buildSnap(t, ratings, 1, 1, 1)

	u1, _ := snap.UserIndex(1)
	u2, _ := snap.UserIndex(2)
	assert.Equal(t, 0.0, snap.S[u1][u2])
}

func TestComputeSimilarityIdenticalTastes(t *testing.T) {
	ratings := []models.RawRating{
		{UserID: 1, ISBN: "b1", Rating: 9}, {UserID: 1, ISBN: "b2", Rating: 3},
		{UserID: 2, ISBN: "b1", Rating: 8}, {UserID: 2, ISBN: "b2", Rating: 2},
	}
	snap := buildSnap(t, ratings, 1, 1, 1)

	u1, _ := snap.UserIndex(1)
	u2, _ := snap.UserIndex(2)
	// mismos desvíos respecto de la media: coseno 1 (con clamp contra redondeo)
	assert.InDelta(t, 1.0, snap.S[u1][u2], 1e-9)
	assert.LessOrEqual(t, snap.S[u1][u2], 1.0)
}
