// Package converter turns authored program data into the app's normalized
// WorkoutProgram form, resolving every exercise against the catalog.
package converter

import (
	"errors"
	"fmt"
	"strings"

	"alcyxob/fitprogram/internal/catalog"
	"alcyxob/fitprogram/internal/domain"
	"alcyxob/fitprogram/internal/metrics"
	"alcyxob/fitprogram/internal/resolver"

	log "github.com/sirupsen/logrus"
)

var (
	ErrProgramNotFound = errors.New("program not found")
	ErrEmptyProgram    = errors.New("program has no name")
	ErrNoWorkoutDays   = errors.New("program has no workout days")
)

var difficultyMap = map[string]domain.Difficulty{
	"Beginner":     domain.DifficultyBeginner,
	"Intermediate": domain.DifficultyIntermediate,
	"Advanced":     domain.DifficultyAdvanced,
}

// MapDifficulty maps an experience level label; anything unknown is intermediate.
func MapDifficulty(level string) domain.Difficulty {
	if d, ok := difficultyMap[level]; ok {
		return d
	}
	return domain.DifficultyIntermediate
}

type Converter struct {
	catalog  *catalog.Catalog
	resolver *resolver.Resolver
	programs *catalog.Programs
	metrics  *metrics.Manager
}

// New creates a converter. programs may be nil if ConvertByName is not used,
// metrics may be nil.
func New(c *catalog.Catalog, r *resolver.Resolver, programs *catalog.Programs, m *metrics.Manager) *Converter {
	return &Converter{
		catalog:  c,
		resolver: r,
		programs: programs,
		metrics:  m,
	}
}

// ConvertProgram converts a single program. The result has no ID or
// creation time; those are assigned when the program is stored.
func (c *Converter) ConvertProgram(p domain.ProgramData) (domain.WorkoutProgram, error) {
	if strings.TrimSpace(p.Name) == "" {
		return domain.WorkoutProgram{}, ErrEmptyProgram
	}
	if len(p.WeeklyPlan) == 0 {
		return domain.WorkoutProgram{}, fmt.Errorf("%w: %s", ErrNoWorkoutDays, p.Name)
	}

	logger := log.WithField("program", p.Name)
	days := make([]domain.WorkoutDay, 0, len(p.WeeklyPlan))
	for i, day := range p.WeeklyPlan {
		dayNumber := day.Day
		if dayNumber <= 0 {
			dayNumber = i + 1
		}

		exercises := make([]domain.ProgramExercise, 0, len(day.Exercises))
		for _, entry := range day.Exercises {
			id, ok := c.resolver.Resolve(entry.ExerciseName)
			if !ok {
				logger.WithField("exercise", entry.ExerciseName).Warn("skipping exercise not found in catalog")
				if c.metrics != nil {
					c.metrics.CounterUnresolvedExercises.WithLabelValues(p.Name).Inc()
				}
				continue
			}
			name := entry.ExerciseName
			if record, ok := c.catalog.GetByID(id); ok {
				name = record.Name
			}

			rest, err := ParseRestPeriod(entry.RestPeriodMinutes)
			if err != nil {
				logger.WithField("exercise", entry.ExerciseName).Debugf("rest period: %s", err)
			}

			exercises = append(exercises, domain.ProgramExercise{
				ExerciseID:   id,
				ExerciseName: name,
				Sets:         entry.Sets,
				Reps:         entry.Reps,
				RestTime:     rest,
				Notes:        entry.Notes,
			})
		}

		days = append(days, domain.WorkoutDay{
			DayNumber: dayNumber,
			Name:      day.Focus,
			Exercises: exercises,
			RestDay:   len(exercises) == 0,
		})
	}

	duration := p.DurationWeeks
	if duration <= 0 {
		duration = ExtractWeeks(p.WeeklyScheduleSummary)
	}

	return domain.WorkoutProgram{
		Name:        p.Name,
		Description: p.Description,
		Duration:    duration,
		Difficulty:  MapDifficulty(p.ExperienceLevel),
		Category:    p.Discipline,
		WorkoutDays: days,
	}, nil
}

// ConvertAll converts every program, logging and skipping the ones that fail.
func (c *Converter) ConvertAll(programs []domain.ProgramData) []domain.WorkoutProgram {
	converted := make([]domain.WorkoutProgram, 0, len(programs))
	for _, p := range programs {
		wp, err := c.ConvertProgram(p)
		if err != nil {
			log.Errorf("converter: error converting program %q: %s", p.Name, err)
			continue
		}
		converted = append(converted, wp)
	}
	return converted
}

// ConvertBundled converts every program the converter was created with.
func (c *Converter) ConvertBundled() []domain.WorkoutProgram {
	if c.programs == nil {
		return nil
	}
	return c.ConvertAll(c.programs.All())
}

// ConvertByName converts the bundled program with exactly this name.
func (c *Converter) ConvertByName(name string) (domain.WorkoutProgram, error) {
	if c.programs == nil {
		return domain.WorkoutProgram{}, ErrProgramNotFound
	}
	p, ok := c.programs.ByName(name)
	if !ok {
		return domain.WorkoutProgram{}, fmt.Errorf("%w: %s", ErrProgramNotFound, name)
	}
	return c.ConvertProgram(p)
}
