// Package catalog holds the static exercise and program reference data.
//
// A Catalog is built once at startup (usually from the embedded JSON files)
// and handed to the resolver, converter and services that need it. It is
// read-only after construction and therefore safe for concurrent use.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"alcyxob/fitprogram/internal/domain"
)

var (
	ErrEmptyCatalog = errors.New("catalog contains no exercises")
	ErrDuplicateID  = errors.New("duplicate exercise id")
	ErrInvalidEntry = errors.New("invalid exercise entry")
)

// Catalog is the in-memory exercise catalog. Lookups preserve the array order
// of the source data, so "first match wins" is deterministic.
type Catalog struct {
	exercises []domain.Exercise
	byID      map[string]int
}

// New validates the records and builds a catalog. The slice is copied.
func New(records []domain.Exercise) (*Catalog, error) {
	if len(records) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		exercises: make([]domain.Exercise, len(records)),
		byID:      make(map[string]int, len(records)),
	}
	copy(c.exercises, records)

	for i, ex := range c.exercises {
		if strings.TrimSpace(ex.ID) == "" {
			return nil, fmt.Errorf("%w: record %d has no id", ErrInvalidEntry, i)
		}
		if strings.TrimSpace(ex.Name) == "" && strings.TrimSpace(ex.EnglishName) == "" {
			return nil, fmt.Errorf("%w: record %s has no name", ErrInvalidEntry, ex.ID)
		}
		if _, exists := c.byID[ex.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, ex.ID)
		}
		c.byID[ex.ID] = i
	}

	return c, nil
}

// Load decodes a JSON array of exercises and builds a catalog from it.
func Load(r io.Reader) (*Catalog, error) {
	var records []domain.Exercise
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode exercises: %w", err)
	}
	return New(records)
}

// Len returns the number of exercises.
func (c *Catalog) Len() int {
	return len(c.exercises)
}

// All returns a copy of every exercise in source order.
func (c *Catalog) All() []domain.Exercise {
	out := make([]domain.Exercise, len(c.exercises))
	copy(out, c.exercises)
	return out
}

// IDs returns every exercise ID in source order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.exercises))
	for i, ex := range c.exercises {
		ids[i] = ex.ID
	}
	return ids
}

// GetByID looks up an exercise by its identifier.
func (c *Catalog) GetByID(id string) (*domain.Exercise, bool) {
	i, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	ex := c.exercises[i]
	return &ex, true
}

// Has reports whether the identifier exists.
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// GetByName is an exact, case-sensitive match on either display name.
// An empty name never matches, even against a record missing one of its names.
func (c *Catalog) GetByName(name string) (*domain.Exercise, bool) {
	if name == "" {
		return nil, false
	}
	return c.find(func(ex *domain.Exercise) bool {
		return ex.Name == name || ex.EnglishName == name
	})
}

// FindFold is a case-insensitive exact match on either display name.
func (c *Catalog) FindFold(name string) (*domain.Exercise, bool) {
	return c.find(func(ex *domain.Exercise) bool {
		return (ex.Name != "" && strings.EqualFold(ex.Name, name)) ||
			(ex.EnglishName != "" && strings.EqualFold(ex.EnglishName, name))
	})
}

// FindContaining returns the first exercise whose display name contains the
// fragment, ignoring case. Only the catalog name is searched for the fragment,
// never the other way round.
func (c *Catalog) FindContaining(fragment string) (*domain.Exercise, bool) {
	needle := strings.ToLower(fragment)
	if needle == "" {
		return nil, false
	}
	return c.find(func(ex *domain.Exercise) bool {
		return strings.Contains(strings.ToLower(ex.Name), needle) ||
			strings.Contains(strings.ToLower(ex.EnglishName), needle)
	})
}

func (c *Catalog) find(match func(ex *domain.Exercise) bool) (*domain.Exercise, bool) {
	for i := range c.exercises {
		if match(&c.exercises[i]) {
			ex := c.exercises[i]
			return &ex, true
		}
	}
	return nil, false
}

// Search matches the query against names, muscle group and category.
func (c *Catalog) Search(query string) []domain.Exercise {
	return c.filter(func(ex *domain.Exercise) bool {
		return matchesQuery(ex, query)
	})
}

func matchesQuery(ex *domain.Exercise, query string) bool {
	lower := strings.ToLower(query)
	return strings.Contains(ex.Name, query) ||
		strings.Contains(strings.ToLower(ex.EnglishName), lower) ||
		strings.Contains(ex.MuscleGroup, query) ||
		strings.Contains(ex.Category, query)
}

// ByMuscleGroup returns exercises whose muscle group equals the argument.
func (c *Catalog) ByMuscleGroup(group string) []domain.Exercise {
	return c.filter(func(ex *domain.Exercise) bool { return ex.MuscleGroup == group })
}

// ByCategory returns exercises in the given category.
func (c *Catalog) ByCategory(category string) []domain.Exercise {
	return c.filter(func(ex *domain.Exercise) bool { return ex.Category == category })
}

func (c *Catalog) filter(keep func(ex *domain.Exercise) bool) []domain.Exercise {
	out := make([]domain.Exercise, 0)
	for i := range c.exercises {
		if keep(&c.exercises[i]) {
			out = append(out, c.exercises[i])
		}
	}
	return out
}

// MuscleGroups returns the sorted set of muscle groups.
func (c *Catalog) MuscleGroups() []string {
	return c.distinct(func(ex *domain.Exercise) []string { return []string{ex.MuscleGroup} })
}

// Categories returns the sorted set of categories.
func (c *Catalog) Categories() []string {
	return c.distinct(func(ex *domain.Exercise) []string { return []string{ex.Category} })
}

// EquipmentTypes returns the sorted set of equipment names.
func (c *Catalog) EquipmentTypes() []string {
	return c.distinct(func(ex *domain.Exercise) []string { return ex.Equipment })
}

func (c *Catalog) distinct(values func(ex *domain.Exercise) []string) []string {
	seen := make(map[string]struct{})
	for i := range c.exercises {
		for _, v := range values(&c.exercises[i]) {
			if v != "" {
				seen[v] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
