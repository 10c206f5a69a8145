package gifurl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/fitprogram/internal/catalog"
	"alcyxob/fitprogram/internal/domain"
)

const base = "https://assets.example.com/exercise-gifs"

func testBuilder(t *testing.T) *Builder {
	t.Helper()
	c, err := catalog.New([]domain.Exercise{
		{ID: "204", Name: "바벨 벤치 프레스", MuscleGroup: "가슴", GifURL: "exercise-gifs/pectorals/barbell-bench-press.gif"},
		{ID: "Cable Row", Name: "시티드 케이블 로우", MuscleGroup: "등"},
		{ID: "abs-1", Name: "크런치", MuscleGroup: "상부 복근", GifURL: "https://cdn.example.com/crunch.gif"},
	})
	require.NoError(t, err)
	return NewBuilder(base+"/", c)
}

func TestFolder(t *testing.T) {
	assert.Equal(t, "pectorals", Folder("가슴"))
	assert.Equal(t, "quadriceps", Folder("대퇴사두근"))
	assert.Equal(t, "abs", Folder("상부 복근"))
	assert.Equal(t, "unknown", Folder(""))
	assert.Equal(t, "cardio", Folder("Cardio"))
}

func TestCleanID(t *testing.T) {
	assert.Equal(t, "204", CleanID("204"))
	assert.Equal(t, "cable-row", CleanID("Cable  Row"))
	assert.Equal(t, "push-up", CleanID("Push--Up!"))
	assert.Equal(t, "a_b", CleanID("a_b"))
	assert.Equal(t, "unknown-exercise", CleanID(""))
}

func TestCandidates_KnownExercise(t *testing.T) {
	b := testBuilder(t)

	assert.Equal(t, []string{
		base + "/pectorals/barbell-bench-press.gif",
		base + "/pectorals/204.gif",
		base + "/204.gif",
	}, b.Candidates("204"))

	urls := b.Candidates("Cable Row")
	assert.Equal(t, []string{
		base + "/back/cable-row.gif",
		base + "/back/cable_row.gif",
		base + "/back/cablerow.gif",
		base + "/cable-row.gif",
		base + "/cable_row.gif",
	}, urls)

	urls = b.Candidates("abs-1")
	require.NotEmpty(t, urls)
	assert.Equal(t, "https://cdn.example.com/crunch.gif", urls[0])
}

func TestCandidates_UnknownExercise(t *testing.T) {
	b := testBuilder(t)

	urls := b.Candidates("Mystery Lift")
	require.Len(t, urls, len(commonFolders)+1)
	assert.Equal(t, base+"/pectorals/mystery-lift.gif", urls[0])
	assert.Equal(t, base+"/mystery-lift.gif", urls[len(urls)-1])
}

func TestCandidates_EmptyAndCached(t *testing.T) {
	b := testBuilder(t)
	assert.Empty(t, b.Candidates(""))

	first := b.Candidates("204")
	assert.Equal(t, int64(1), b.cache.EntryCount())
	assert.Equal(t, first, b.Candidates("204"))

	b.Invalidate()
	assert.Equal(t, int64(0), b.cache.EntryCount())
}

func TestCandidates_NoDuplicates(t *testing.T) {
	c, err := catalog.LoadEmbedded()
	require.NoError(t, err)
	b := NewBuilder("", c)
	assert.Equal(t, DefaultBaseURL, b.BaseURL())

	for _, id := range c.IDs() {
		urls := b.Candidates(id)
		require.NotEmpty(t, urls, id)
		seen := map[string]bool{}
		for _, u := range urls {
			assert.False(t, seen[u], u)
			seen[u] = true
		}
	}
}
