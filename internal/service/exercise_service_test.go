package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/fitprogram/internal/catalog"
	"alcyxob/fitprogram/internal/gifurl"
	"alcyxob/fitprogram/internal/service"
)

func TestExerciseService(t *testing.T) {
	ctx := context.Background()
	c := testCatalog(t)
	svc := service.NewExerciseService(c, gifurl.NewBuilder("https://assets.example.com/exercise-gifs", c))

	ex, err := svc.Get(ctx, "pu1")
	require.NoError(t, err)
	assert.Equal(t, "풀업", ex.Name)

	_, err = svc.Get(ctx, "zzz")
	assert.ErrorIs(t, err, service.ErrExerciseNotFound)
	_, err = svc.Get(ctx, " ")
	assert.ErrorIs(t, err, service.ErrExerciseNotFound)

	page := svc.List(ctx, catalog.ExerciseFilter{Equipment: "바벨"})
	assert.Equal(t, 2, page.Pagination.Total)

	facets := svc.Facets(ctx)
	assert.ElementsMatch(t, []string{"strength", "bodyweight"}, facets.Categories)
	assert.Contains(t, facets.Equipment, "벤치")

	urls, err := svc.GifCandidates(ctx, "sq1")
	require.NoError(t, err)
	require.NotEmpty(t, urls)
	for _, u := range urls {
		assert.True(t, strings.HasPrefix(u, "https://assets.example.com/"), u)
	}
	_, err = svc.GifCandidates(ctx, "zzz")
	assert.ErrorIs(t, err, service.ErrExerciseNotFound)
}
