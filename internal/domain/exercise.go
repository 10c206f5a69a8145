// internal/domain/exercise.go
package domain

// MuscleTargets groups the muscles an exercise works, by involvement.
type MuscleTargets struct {
	Primary     []string `json:"primary" bson:"primary"`
	Secondary   []string `json:"secondary" bson:"secondary"`
	Stabilizers []string `json:"stabilizers,omitempty" bson:"stabilizers,omitempty"`
}

// Exercise represents a single exercise definition in the reference catalog.
// Records are loaded once at startup and never mutated afterwards.
type Exercise struct {
	ID           string        `json:"id" bson:"id"`
	Name         string        `json:"name" bson:"name"`                 // Korean display name, e.g. "바벨 스쿼트"
	EnglishName  string        `json:"englishName" bson:"englishName"`   // e.g. "Barbell Squat"
	Romanization string        `json:"romanization,omitempty" bson:"romanization,omitempty"`
	MuscleGroup  string        `json:"muscleGroup" bson:"muscleGroup"`   // e.g. "가슴", "등", "대퇴사두"
	Targets      MuscleTargets `json:"targetMuscles" bson:"targetMuscles"`
	Equipment    []string      `json:"equipment,omitempty" bson:"equipment,omitempty"`
	Category     string        `json:"category" bson:"category"`         // e.g. "strength", "bodyweight", "cardio"
	Difficulty   string        `json:"difficulty" bson:"difficulty"`     // "beginner", "intermediate", "advanced"
	Instructions []string      `json:"instructions,omitempty" bson:"instructions,omitempty"`

	// GifURL is either an absolute URL on the asset host or a bucket-relative
	// path such as "exercise-gifs/back/barbell-row.gif".
	GifURL string `json:"gifUrl,omitempty" bson:"gifUrl,omitempty"`
	// LocalThumbnail is a bundled asset path relative to the asset root.
	LocalThumbnail string `json:"localThumbnail,omitempty" bson:"localThumbnail,omitempty"`
}

// PrimaryMuscles returns the primary targets, falling back to the muscle group.
func (e *Exercise) PrimaryMuscles() []string {
	if len(e.Targets.Primary) > 0 {
		return e.Targets.Primary
	}
	if e.MuscleGroup != "" {
		return []string{e.MuscleGroup}
	}
	return nil
}

// HasEquipment reports whether the exercise lists the given equipment.
func (e *Exercise) HasEquipment(equipment string) bool {
	for _, eq := range e.Equipment {
		if eq == equipment {
			return true
		}
	}
	return false
}
