// internal/domain/workout_program.go
package domain

import "time"

// Difficulty is the normalized difficulty of a converted program.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// ProgramExercise is a resolved exercise inside a converted workout day.
// ExerciseID always exists in the exercise catalog.
type ProgramExercise struct {
	ExerciseID   string `json:"exerciseId"`
	ExerciseName string `json:"exerciseName"` // catalog display name, not the authored text
	Sets         int    `json:"sets"`
	Reps         string `json:"reps"`
	RestTime     int    `json:"restTime"` // seconds
	Notes        string `json:"notes,omitempty"`
}

// WorkoutDay is a converted program day. RestDay is true iff Exercises is empty.
type WorkoutDay struct {
	DayNumber int               `json:"dayNumber"`
	Name      string            `json:"name"`
	Exercises []ProgramExercise `json:"exercises"`
	RestDay   bool              `json:"restDay"`
}

// WorkoutProgram is the app-internal program record persisted by the program service.
type WorkoutProgram struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Duration    int          `json:"duration"` // weeks
	Difficulty  Difficulty   `json:"difficulty"`
	Category    string       `json:"category"`
	WorkoutDays []WorkoutDay `json:"workoutDays"`
	IsCustom    bool         `json:"isCustom"`
	IsActive    bool         `json:"isActive"`
	CreatedAt   time.Time    `json:"createdAt"`

	// Progression counters, only meaningful while the program is active.
	CurrentWeek int `json:"currentWeek,omitempty"`
	CurrentDay  int `json:"currentDay,omitempty"`
}

// Day returns the workout day with the given day number.
func (p *WorkoutProgram) Day(dayNumber int) (*WorkoutDay, bool) {
	for i := range p.WorkoutDays {
		if p.WorkoutDays[i].DayNumber == dayNumber {
			return &p.WorkoutDays[i], true
		}
	}
	return nil, false
}

// ExerciseCount is the number of resolved exercises over all days.
func (p *WorkoutProgram) ExerciseCount() int {
	n := 0
	for _, d := range p.WorkoutDays {
		n += len(d.Exercises)
	}
	return n
}
