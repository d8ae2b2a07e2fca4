package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alumnx-ai-labs/bookyard/internal/recommender"
)

func newLoadedStats(t *testing.T) *StatsService {
	t.Helper()
	svc := newTestService(t)
	_, err := svc.Load(context.Background(), LoadParams{})
	require.NoError(t, err)
	return NewStatsService(svc)
}

func TestOverviewBeforeLoad(t *testing.T) {
	stats := NewStatsService(newTestService(t))

	_, err := stats.Overview()
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestOverview(t *testing.T) {
	stats := newLoadedStats(t)

	ov, err := stats.Overview()
	require.NoError(t, err)

	assert.Equal(t, 12, ov.TotalRatings)
	assert.Equal(t, 4, ov.UniqueUsers)
	assert.Equal(t, 5, ov.UniqueBooks)
	assert.InDelta(t, 7.0, ov.AverageRating, 1e-9)
	assert.InDelta(t, 7.5, ov.MedianRating, 1e-9)

	// distribución: 2:1, 5:1, 6:1, 7:3, 8:4, 9:2
	assert.Equal(t, 3, ov.RatingDistribution[7])
	assert.Equal(t, 4, ov.RatingDistribution[8])
	assert.Equal(t, 2, ov.RatingDistribution[9])
	assert.Equal(t, 1, ov.RatingDistribution[2])
}

func TestUserStats(t *testing.T) {
	stats := newLoadedStats(t)

	us, err := stats.UserStats(1)
	require.NoError(t, err)

	assert.Equal(t, 1, us.UserID)
	assert.Equal(t, 3, us.TotalRatings)
	assert.InDelta(t, 8.0, us.AverageRating, 1e-9)
	assert.ElementsMatch(t, []string{"b1", "b2", "b3"}, us.BooksRated)
}

func TestUserStatsUnknownUser(t *testing.T) {
	stats := newLoadedStats(t)

	_, err := stats.UserStats(999)
	var uerr *recommender.UnknownUserError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, 999, uerr.UserID)
}

func TestTopBooks(t *testing.T) {
	stats := newLoadedStats(t)

	// promedios: b3=8.5(2), b5=8.5(2), b2=7.33(3), b1=5.67(3), b4=5.5(2)
	books, err := stats.TopBooks(1, 10)
	require.NoError(t, err)
	require.Len(t, books, 5)

	// empate 8.5 entre b3 y b5: mismo total, gana el ISBN menor
	assert.Equal(t, "b3", books[0].ISBN)
	assert.Equal(t, "b5", books[1].ISBN)
	assert.Equal(t, "b2", books[2].ISBN)
	assert.Equal(t, "Titulo 3", books[0].Title)
	assert.InDelta(t, 8.5, books[0].AverageRating, 1e-9)
	assert.Equal(t, 2, books[0].TotalRatings)
}

func TestTopBooksMinRatingsFilter(t *testing.T) {
	stats := newLoadedStats(t)

	// solo b1 y b2 llegan a 3 ratings
	books, err := stats.TopBooks(3, 10)
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "b2", books[0].ISBN)
	assert.Equal(t, "b1", books[1].ISBN)
}

func TestTopBooksLimit(t *testing.T) {
	stats := newLoadedStats(t)

	books, err := stats.TopBooks(1, 2)
	require.NoError(t, err)
	assert.Len(t, books, 2)
}

func TestMostActiveUsers(t *testing.T) {
	stats := newLoadedStats(t)

	users, err := stats.MostActiveUsers(10)
	require.NoError(t, err)
	require.Len(t, users, 4)

	// todos con 3 ratings: el empate ordena por userId asc
	assert.Equal(t, 1, users[0].UserID)
	assert.Equal(t, 4, users[3].UserID)
	assert.Equal(t, 3, users[0].TotalRatings)
	assert.InDelta(t, 8.0, users[0].AverageRating, 1e-9)
}

func TestMostActiveUsersLimit(t *testing.T) {
	stats := newLoadedStats(t)

	users, err := stats.MostActiveUsers(1)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, 1, users[0].UserID)
}
