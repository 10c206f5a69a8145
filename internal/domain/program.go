// internal/domain/program.go
package domain

// ProgramExerciseData is one authored exercise line inside a program day.
// ExerciseName is free text (English or Korean) and must be resolved against
// the exercise catalog before it can be used.
type ProgramExerciseData struct {
	ExerciseName      string `json:"exercise_name"`
	Sets              int    `json:"sets"`
	Reps              string `json:"reps"`                // "5", "8-12", "30-60초", "최대반복"
	RestPeriodMinutes string `json:"rest_period_minutes"` // "2", "2-3", "1.5"
	Notes             string `json:"notes,omitempty"`
}

// WorkoutDayData is an authored training day. Day may be zero, in which case
// the position in the plan decides the day number.
type WorkoutDayData struct {
	Day       int                   `json:"day"`
	Focus     string                `json:"focus"`
	Exercises []ProgramExerciseData `json:"exercises"`
}

// ProgramData is a professionally authored workout program as shipped with the app.
type ProgramData struct {
	Name                  string `json:"program_name"`
	Discipline            string `json:"discipline"`       // "Powerlifting", "Bodybuilding", "Calisthenics"
	ExperienceLevel       string `json:"experience_level"` // "Beginner", "Intermediate", "Advanced"
	Description           string `json:"program_description"`
	WeeklyScheduleSummary string `json:"weekly_schedule_summary"`
	PeriodizationModel    string `json:"periodization_model,omitempty"`
	SourceNotes           string `json:"program_source_notes,omitempty"`
	// DurationWeeks is optional. When set it wins over anything inferred
	// from WeeklyScheduleSummary.
	DurationWeeks int              `json:"duration_weeks,omitempty"`
	WeeklyPlan    []WorkoutDayData `json:"weekly_workout_plan"`
	ProgramNotes  string           `json:"program_notes,omitempty"`
}
