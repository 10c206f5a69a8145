// internal/domain/routine.go
package domain

import "time"

// RoutineExercise is an exercise entry inside a saved routine.
type RoutineExercise struct {
	ID            string     `json:"id"` // exercise catalog ID
	Name          string     `json:"name"`
	TargetMuscles []string   `json:"targetMuscles"`
	Sets          int        `json:"sets"`
	Reps          string     `json:"reps"`
	Weight        string     `json:"weight,omitempty"`
	RestTime      string     `json:"restTime"` // e.g. "180초"
	Difficulty    Difficulty `json:"difficulty"`
	GifURL        string     `json:"gifUrl,omitempty"`
}

// Routine is a user-facing workout routine. Routines generated from a program
// carry ProgramID and DayNumber so they can be cleaned up together.
type Routine struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	TargetMuscles []string          `json:"targetMuscles"`
	Duration      string            `json:"duration"`
	Difficulty    Difficulty        `json:"difficulty"`
	Exercises     []RoutineExercise `json:"exercises"`
	IsCustom      bool              `json:"isCustom"`
	CreatedAt     time.Time         `json:"createdAt"`
	LastUsed      *time.Time        `json:"lastUsed,omitempty"`
	ProgramID     string            `json:"programId,omitempty"`
	DayNumber     int               `json:"dayNumber,omitempty"`
}
