package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"alcyxob/fitprogram/internal/domain"
	"alcyxob/fitprogram/internal/repository"
)

// --- Error Definitions ---
var (
	ErrRoutineNotFound = errors.New("routine not found")
	ErrInvalidRoutine  = errors.New("routine validation failed")
)

type RoutineService interface {
	All(ctx context.Context) ([]domain.Routine, error)
	Get(ctx context.Context, id string) (*domain.Routine, error)
	Save(ctx context.Context, routine domain.Routine) (*domain.Routine, error)
	Delete(ctx context.Context, id string) error
	DeleteByProgram(ctx context.Context, programID string) (int, error)
	MarkUsed(ctx context.Context, id string) error
	Duplicate(ctx context.Context, id, newName string) (*domain.Routine, error)
	Clear(ctx context.Context) error
}

// routineService implements the RoutineService interface on top of a
// single KV entry holding the whole routine list.
type routineService struct {
	store repository.KVStore
	mu    sync.Mutex
	now   func() time.Time
}

func NewRoutineService(store repository.KVStore) RoutineService {
	return &routineService{store: store, now: time.Now}
}

// load returns the stored routines. A missing key is an empty list; an
// unreadable one is logged and also treated as empty.
func (s *routineService) load(ctx context.Context) []domain.Routine {
	var routines []domain.Routine
	err := repository.GetJSON(ctx, s.store, repository.KeyUserRoutines, &routines)
	if err != nil {
		if !repository.IsNotFound(err) {
			log.Errorf("routines: failed to load routines: %s", err)
		}
		return []domain.Routine{}
	}
	return routines
}

func (s *routineService) save(ctx context.Context, routines []domain.Routine) error {
	if err := repository.SetJSON(ctx, s.store, repository.KeyUserRoutines, routines); err != nil {
		log.Errorf("routines: failed to save routines: %s", err)
		return err
	}
	return nil
}

func (s *routineService) All(ctx context.Context) ([]domain.Routine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx), nil
}

func (s *routineService) Get(ctx context.Context, id string) (*domain.Routine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.load(ctx) {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, ErrRoutineNotFound
}

// Save upserts by ID. Updating stamps LastUsed; inserting defaults
// CreatedAt and marks the routine as custom.
func (s *routineService) Save(ctx context.Context, routine domain.Routine) (*domain.Routine, error) {
	if routine.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidRoutine)
	}
	if routine.ID == "" {
		routine.ID = "routine-" + uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	routines := s.load(ctx)
	replaced := false
	for i := range routines {
		if routines[i].ID == routine.ID {
			routine.LastUsed = &now
			if routine.CreatedAt.IsZero() {
				routine.CreatedAt = routines[i].CreatedAt
			}
			routines[i] = routine
			replaced = true
			break
		}
	}
	if !replaced {
		if routine.CreatedAt.IsZero() {
			routine.CreatedAt = now
		}
		routine.IsCustom = true
		routines = append(routines, routine)
	}

	if err := s.save(ctx, routines); err != nil {
		return nil, err
	}
	return &routine, nil
}

func (s *routineService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	routines := s.load(ctx)
	kept := routines[:0]
	for _, r := range routines {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(routines) {
		return ErrRoutineNotFound
	}
	return s.save(ctx, kept)
}

// DeleteByProgram removes every routine generated from programID.
func (s *routineService) DeleteByProgram(ctx context.Context, programID string) (int, error) {
	if programID == "" {
		return 0, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	routines := s.load(ctx)
	kept := routines[:0]
	for _, r := range routines {
		if r.ProgramID != programID {
			kept = append(kept, r)
		}
	}
	removed := len(routines) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	return removed, s.save(ctx, kept)
}

func (s *routineService) MarkUsed(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	routines := s.load(ctx)
	for i := range routines {
		if routines[i].ID == id {
			now := s.now().UTC()
			routines[i].LastUsed = &now
			return s.save(ctx, routines)
		}
	}
	return ErrRoutineNotFound
}

// Duplicate copies a routine under a new ID and name. The copy is custom
// and detached from any program.
func (s *routineService) Duplicate(ctx context.Context, id, newName string) (*domain.Routine, error) {
	original, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	dup := *original
	dup.ID = "routine-" + uuid.NewString()
	dup.Name = newName
	dup.CreatedAt = s.now().UTC()
	dup.LastUsed = nil
	dup.ProgramID = ""
	dup.DayNumber = 0
	dup.Exercises = append([]domain.RoutineExercise(nil), original.Exercises...)
	dup.TargetMuscles = append([]string(nil), original.TargetMuscles...)
	return s.Save(ctx, dup)
}

func (s *routineService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Delete(ctx, repository.KeyUserRoutines)
}
