package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"alcyxob/fitprogram/internal/catalog"
	"alcyxob/fitprogram/internal/converter"
	"alcyxob/fitprogram/internal/domain"
	"alcyxob/fitprogram/internal/metrics"
	"alcyxob/fitprogram/internal/repository"
	"alcyxob/fitprogram/internal/resolver"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New([]domain.Exercise{
		{
			ID: "sq1", Name: "바벨 스쿼트", EnglishName: "Barbell Squat", MuscleGroup: "대퇴사두",
			Targets: domain.MuscleTargets{Primary: []string{"대퇴사두", "둔근"}},
			Category: "strength", Difficulty: "intermediate", Equipment: []string{"바벨"},
			GifURL: "exercise-gifs/legs/barbell-squat.gif",
		},
		{
			ID: "bp1", Name: "바벨 벤치 프레스", EnglishName: "Barbell Bench Press", MuscleGroup: "가슴",
			Targets: domain.MuscleTargets{Primary: []string{"대흉근"}},
			Category: "strength", Difficulty: "intermediate", Equipment: []string{"바벨", "벤치"},
		},
		{
			ID: "pu1", Name: "풀업", EnglishName: "Pull-Up", MuscleGroup: "등",
			Targets: domain.MuscleTargets{Primary: []string{"광배근"}},
			Category: "bodyweight", Difficulty: "beginner",
		},
	})
	require.NoError(t, err)
	return c
}

func testPrograms(t *testing.T) *catalog.Programs {
	t.Helper()
	p, err := catalog.NewPrograms([]domain.ProgramData{{
		Name:            "Test Strength",
		Discipline:      "Powerlifting",
		ExperienceLevel: "Beginner",
		Description:     "two week block",
		DurationWeeks:   2,
		WeeklyPlan: []domain.WorkoutDayData{
			{Day: 1, Focus: "A", Exercises: []domain.ProgramExerciseData{
				{ExerciseName: "Barbell Squat", Sets: 5, Reps: "5", RestPeriodMinutes: "3"},
				{ExerciseName: "Barbell Bench Press", Sets: 5, Reps: "5", RestPeriodMinutes: "2-3"},
			}},
			{Day: 2, Focus: "Rest"},
			{Day: 3, Focus: "B", Exercises: []domain.ProgramExerciseData{
				{ExerciseName: "Pull-Up", Sets: 3, Reps: "8-12", RestPeriodMinutes: "1.5"},
				{ExerciseName: "Barbell Squat", Sets: 3, Reps: "5", RestPeriodMinutes: "3"},
			}},
		},
	}})
	require.NoError(t, err)
	return p
}

func testConverter(t *testing.T, c *catalog.Catalog) *converter.Converter {
	t.Helper()
	return converter.New(c, resolver.New(c, resolver.AliasTable{}), testPrograms(t), metrics.NewTestManager())
}

// mockStore is a KVStore whose behavior is scripted per test.
type mockStore struct {
	mock.Mock
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	raw, _ := args.Get(0).([]byte)
	return raw, args.Error(1)
}

func (m *mockStore) Set(ctx context.Context, key string, value []byte) error {
	return m.Called(ctx, key, value).Error(0)
}

func (m *mockStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

var _ repository.KVStore = (*mockStore)(nil)
