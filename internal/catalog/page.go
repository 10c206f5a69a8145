package catalog

import (
	"alcyxob/fitprogram/internal/domain"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// ExerciseFilter narrows a paginated catalog listing. Empty fields are ignored.
type ExerciseFilter struct {
	Page        int
	Limit       int
	MuscleGroup string
	Category    string
	Equipment   string
	Difficulty  string
	Query       string
}

// Pagination describes the returned slice of a listing.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ExercisePage is one page of a filtered listing.
type ExercisePage struct {
	Exercises  []domain.Exercise `json:"exercises"`
	Pagination Pagination        `json:"pagination"`
}

// FilterPage applies the filter and returns the requested page.
// Pages past the end come back empty with the correct totals.
func (c *Catalog) FilterPage(f ExerciseFilter) ExercisePage {
	if f.Page < 1 {
		f.Page = defaultPage
	}
	if f.Limit < 1 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}

	matched := c.filter(func(ex *domain.Exercise) bool {
		if f.Query != "" && !matchesQuery(ex, f.Query) {
			return false
		}
		if f.MuscleGroup != "" && ex.MuscleGroup != f.MuscleGroup {
			return false
		}
		if f.Category != "" && ex.Category != f.Category {
			return false
		}
		if f.Equipment != "" && !ex.HasEquipment(f.Equipment) {
			return false
		}
		if f.Difficulty != "" && ex.Difficulty != f.Difficulty {
			return false
		}
		return true
	})

	total := len(matched)
	start := (f.Page - 1) * f.Limit
	if start > total {
		start = total
	}
	end := start + f.Limit
	if end > total {
		end = total
	}

	return ExercisePage{
		Exercises: matched[start:end],
		Pagination: Pagination{
			Page:       f.Page,
			Limit:      f.Limit,
			Total:      total,
			TotalPages: (total + f.Limit - 1) / f.Limit,
		},
	}
}
