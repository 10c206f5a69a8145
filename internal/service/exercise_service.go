package service

import (
	"context"
	"errors"
	"strings"

	"alcyxob/fitprogram/internal/catalog"
	"alcyxob/fitprogram/internal/domain"
	"alcyxob/fitprogram/internal/gifurl"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound = errors.New("exercise not found")
)

// Facets are the distinct filter values the catalog offers.
type Facets struct {
	MuscleGroups []string `json:"muscleGroups"`
	Categories   []string `json:"categories"`
	Equipment    []string `json:"equipment"`
}

// --- Service Interface ---
type ExerciseService interface {
	Get(ctx context.Context, id string) (*domain.Exercise, error)
	List(ctx context.Context, filter catalog.ExerciseFilter) catalog.ExercisePage
	Facets(ctx context.Context) Facets
	GifCandidates(ctx context.Context, id string) ([]string, error)
}

// --- Service Implementation ---

type exerciseService struct {
	catalog *catalog.Catalog
	gifs    *gifurl.Builder
}

// NewExerciseService creates a new exercise service. gifs may be nil, in
// which case GifCandidates always returns an empty list.
func NewExerciseService(c *catalog.Catalog, gifs *gifurl.Builder) ExerciseService {
	return &exerciseService{catalog: c, gifs: gifs}
}

func (s *exerciseService) Get(ctx context.Context, id string) (*domain.Exercise, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrExerciseNotFound
	}
	ex, ok := s.catalog.GetByID(id)
	if !ok {
		return nil, ErrExerciseNotFound
	}
	return ex, nil
}

func (s *exerciseService) List(ctx context.Context, filter catalog.ExerciseFilter) catalog.ExercisePage {
	return s.catalog.FilterPage(filter)
}

func (s *exerciseService) Facets(ctx context.Context) Facets {
	return Facets{
		MuscleGroups: s.catalog.MuscleGroups(),
		Categories:   s.catalog.Categories(),
		Equipment:    s.catalog.EquipmentTypes(),
	}
}

// GifCandidates lists the remote animation URLs tried for an exercise, in order.
func (s *exerciseService) GifCandidates(ctx context.Context, id string) ([]string, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if s.gifs == nil {
		return []string{}, nil
	}
	return s.gifs.Candidates(id), nil
}
