package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"alcyxob/fitprogram/internal/catalog"
	"alcyxob/fitprogram/internal/converter"
	"alcyxob/fitprogram/internal/domain"
	"alcyxob/fitprogram/internal/metrics"
	"alcyxob/fitprogram/internal/repository"
)

// --- Error Definitions ---
var (
	ErrProgramNotFound  = errors.New("workout program not found")
	ErrProgramNotCustom = errors.New("only custom programs can be deleted")
	ErrNoActiveProgram  = errors.New("no active workout program")
	ErrInvalidProgram   = errors.New("workout program validation failed")
	ErrUnknownExercise  = errors.New("exercise not found in catalog")
)

const (
	routineDuration = "45-60분"
	restTimeSuffix  = "초"
)

// ProgramUpdate carries the editable fields of a program. Nil fields are left as is.
type ProgramUpdate struct {
	Name        *string              `json:"name"`
	Description *string              `json:"description"`
	Duration    *int                 `json:"duration"`
	Difficulty  *domain.Difficulty   `json:"difficulty"`
	Category    *string              `json:"category"`
	WorkoutDays *[]domain.WorkoutDay `json:"workoutDays"`
}

// --- Service Interface ---
type ProgramService interface {
	Load(ctx context.Context) error
	All(ctx context.Context) ([]domain.WorkoutProgram, error)
	Get(ctx context.Context, id string) (*domain.WorkoutProgram, error)
	Active(ctx context.Context) (*domain.WorkoutProgram, error)
	Activate(ctx context.Context, id string) (*domain.WorkoutProgram, error)
	Deactivate(ctx context.Context) error
	Create(ctx context.Context, program domain.WorkoutProgram) (*domain.WorkoutProgram, error)
	Update(ctx context.Context, id string, update ProgramUpdate) (*domain.WorkoutProgram, error)
	Delete(ctx context.Context, id string) error
	TodaysWorkout(ctx context.Context) (*domain.WorkoutDay, error)
	AdvanceToNextDay(ctx context.Context) (*domain.WorkoutProgram, error)
	Reset(ctx context.Context) error
}

// --- Service Implementation ---

// programService keeps the program list in memory and writes it through
// to the KV store after every mutation.
type programService struct {
	store     repository.KVStore
	converter *converter.Converter
	catalog   *catalog.Catalog
	routines  RoutineService
	metrics   *metrics.Manager
	now       func() time.Time

	mu       sync.Mutex
	loaded   bool
	programs []domain.WorkoutProgram
	activeID string
}

// NewProgramService creates a new program service. m may be nil.
func NewProgramService(
	store repository.KVStore,
	conv *converter.Converter,
	c *catalog.Catalog,
	routines RoutineService,
	m *metrics.Manager,
) ProgramService {
	return &programService{
		store:     store,
		converter: conv,
		catalog:   c,
		routines:  routines,
		metrics:   m,
		now:       time.Now,
	}
}

// Load reads the stored programs, seeding them from the bundled data when
// none are stored yet. Unreadable storage falls back to the seed without
// overwriting what is there.
func (s *programService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *programService) loadLocked(ctx context.Context) error {
	var stored []domain.WorkoutProgram
	err := repository.GetJSON(ctx, s.store, repository.KeyWorkoutPrograms, &stored)
	switch {
	case err == nil:
		s.programs = stored
	case repository.IsNotFound(err):
		seeded := s.seed()
		if err := s.persistPrograms(ctx, seeded); err != nil {
			return err
		}
		s.programs = seeded
		log.Infof("programs: seeded %d bundled programs", len(s.programs))
	default:
		log.Errorf("programs: failed to load stored programs, using bundled defaults: %s", err)
		s.programs = s.seed()
	}

	var activeID string
	err = repository.GetJSON(ctx, s.store, repository.KeyActiveProgram, &activeID)
	if err != nil && !repository.IsNotFound(err) {
		log.Errorf("programs: failed to load active program: %s", err)
	}
	s.activeID = ""
	if activeID != "" && s.indexOf(activeID) >= 0 {
		s.activeID = activeID
	}
	for i := range s.programs {
		s.programs[i].IsActive = s.programs[i].ID == s.activeID
	}
	s.loaded = true
	return nil
}

func (s *programService) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	return s.loadLocked(ctx)
}

// seed converts the bundled programs and assigns storage identity.
func (s *programService) seed() []domain.WorkoutProgram {
	converted := s.converter.ConvertBundled()
	now := s.now().UTC()
	for i := range converted {
		converted[i].ID = "program-" + uuid.NewString()
		converted[i].CreatedAt = now
		converted[i].IsCustom = false
		converted[i].IsActive = false
	}
	if converted == nil {
		converted = []domain.WorkoutProgram{}
	}
	return converted
}

func (s *programService) persistPrograms(ctx context.Context, programs []domain.WorkoutProgram) error {
	if err := repository.SetJSON(ctx, s.store, repository.KeyWorkoutPrograms, programs); err != nil {
		log.Errorf("programs: failed to save programs: %s", err)
		return err
	}
	return nil
}

func (s *programService) persistActive(ctx context.Context, activeID string) error {
	var err error
	if activeID == "" {
		err = s.store.Delete(ctx, repository.KeyActiveProgram)
		if repository.IsNotFound(err) {
			err = nil
		}
	} else {
		err = repository.SetJSON(ctx, s.store, repository.KeyActiveProgram, activeID)
	}
	if err != nil {
		log.Errorf("programs: failed to save active program: %s", err)
	}
	return err
}

// commit writes programs, and activeID when writeActive is set, then makes
// them the service state. Nothing in memory changes unless every write
// succeeds; a failed active write also restores the stored program list.
func (s *programService) commit(ctx context.Context, programs []domain.WorkoutProgram, activeID string, writeActive bool) error {
	if err := s.persistPrograms(ctx, programs); err != nil {
		return err
	}
	if writeActive {
		if err := s.persistActive(ctx, activeID); err != nil {
			if restoreErr := s.persistPrograms(ctx, s.programs); restoreErr != nil {
				log.Errorf("programs: failed to restore stored programs: %s", restoreErr)
			}
			return err
		}
	}
	s.programs = programs
	s.activeID = activeID
	return nil
}

func (s *programService) indexOf(id string) int {
	for i := range s.programs {
		if s.programs[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *programService) All(ctx context.Context) ([]domain.WorkoutProgram, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	out := make([]domain.WorkoutProgram, len(s.programs))
	for i := range s.programs {
		out[i] = cloneProgram(s.programs[i])
	}
	return out, nil
}

func (s *programService) Get(ctx context.Context, id string) (*domain.WorkoutProgram, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	i := s.indexOf(id)
	if i < 0 {
		return nil, ErrProgramNotFound
	}
	p := cloneProgram(s.programs[i])
	return &p, nil
}

func (s *programService) Active(ctx context.Context) (*domain.WorkoutProgram, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return s.activeLocked()
}

func (s *programService) activeLocked() (*domain.WorkoutProgram, error) {
	if s.activeID == "" {
		return nil, ErrNoActiveProgram
	}
	i := s.indexOf(s.activeID)
	if i < 0 {
		return nil, ErrNoActiveProgram
	}
	p := cloneProgram(s.programs[i])
	return &p, nil
}

// Activate makes id the single active program, restarts its progression
// and creates routines for its training days. Routine creation failures
// are logged and do not undo the activation.
func (s *programService) Activate(ctx context.Context, id string) (*domain.WorkoutProgram, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	target := s.indexOf(id)
	if target < 0 {
		return nil, ErrProgramNotFound
	}

	next := slices.Clone(s.programs)
	for i := range next {
		next[i].IsActive = i == target
	}
	next[target].CurrentWeek = 1
	next[target].CurrentDay = 1
	if err := s.commit(ctx, next, id, true); err != nil {
		return nil, err
	}

	program := cloneProgram(s.programs[target])
	if created, err := s.createRoutines(ctx, program); err != nil {
		log.WithField("program", program.Name).Errorf("programs: failed to create routines: %s", err)
	} else {
		log.WithField("program", program.Name).Infof("programs: activated, %d routines created", created)
	}
	if s.metrics != nil {
		s.metrics.CounterProgramsActivated.Inc()
	}
	return &program, nil
}

// createRoutines saves one routine per training day, skipping days whose
// routine name already exists.
func (s *programService) createRoutines(ctx context.Context, program domain.WorkoutProgram) (int, error) {
	existing, err := s.routines.All(ctx)
	if err != nil {
		return 0, err
	}
	names := make(map[string]struct{}, len(existing))
	for _, r := range existing {
		names[r.Name] = struct{}{}
	}

	created := 0
	for _, day := range program.WorkoutDays {
		if day.RestDay || len(day.Exercises) == 0 {
			continue
		}
		routine := s.routineForDay(program, day)
		if _, exists := names[routine.Name]; exists {
			continue
		}
		if _, err := s.routines.Save(ctx, routine); err != nil {
			return created, fmt.Errorf("day %d: %w", day.DayNumber, err)
		}
		names[routine.Name] = struct{}{}
		created++
	}
	return created, nil
}

func (s *programService) routineForDay(program domain.WorkoutProgram, day domain.WorkoutDay) domain.Routine {
	var targets []string
	seen := make(map[string]struct{})
	exercises := make([]domain.RoutineExercise, 0, len(day.Exercises))
	for _, pe := range day.Exercises {
		re := domain.RoutineExercise{
			ID:         pe.ExerciseID,
			Name:       pe.ExerciseName,
			Sets:       pe.Sets,
			Reps:       pe.Reps,
			RestTime:   fmt.Sprintf("%d%s", pe.RestTime, restTimeSuffix),
			Difficulty: program.Difficulty,
		}
		if ex, ok := s.catalog.GetByID(pe.ExerciseID); ok {
			re.TargetMuscles = append([]string(nil), ex.Targets.Primary...)
			re.GifURL = ex.GifURL
			for _, m := range ex.Targets.Primary {
				if _, dup := seen[m]; !dup {
					seen[m] = struct{}{}
					targets = append(targets, m)
				}
			}
		}
		exercises = append(exercises, re)
	}

	return domain.Routine{
		ID:            fmt.Sprintf("%s-day-%d", program.ID, day.DayNumber),
		Name:          fmt.Sprintf("%s - %s", program.Name, day.Name),
		Description:   day.Name,
		TargetMuscles: targets,
		Duration:      routineDuration,
		Difficulty:    program.Difficulty,
		Exercises:     exercises,
		IsCustom:      true,
		CreatedAt:     s.now().UTC(),
		ProgramID:     program.ID,
		DayNumber:     day.DayNumber,
	}
}

func (s *programService) Deactivate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}
	next := slices.Clone(s.programs)
	deactivateAll(next)
	return s.commit(ctx, next, "", true)
}

func deactivateAll(programs []domain.WorkoutProgram) {
	for i := range programs {
		programs[i].IsActive = false
	}
}

// Create stores a new custom program after checking that every exercise
// exists in the catalog.
func (s *programService) Create(ctx context.Context, program domain.WorkoutProgram) (*domain.WorkoutProgram, error) {
	program = cloneProgram(program)
	if err := s.validate(&program); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	program.ID = uuid.NewString()
	program.IsCustom = true
	program.IsActive = false
	program.CurrentWeek = 0
	program.CurrentDay = 0
	program.CreatedAt = s.now().UTC()

	next := append(slices.Clone(s.programs), program)
	if err := s.commit(ctx, next, s.activeID, false); err != nil {
		return nil, err
	}
	out := cloneProgram(program)
	return &out, nil
}

// validate normalizes days in place: missing day numbers are positional,
// exercise names come from the catalog and RestDay follows the exercise list.
func (s *programService) validate(p *domain.WorkoutProgram) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProgram)
	}
	if len(p.WorkoutDays) == 0 {
		return fmt.Errorf("%w: at least one workout day is required", ErrInvalidProgram)
	}
	if p.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidProgram)
	}
	switch p.Difficulty {
	case domain.DifficultyBeginner, domain.DifficultyIntermediate, domain.DifficultyAdvanced:
	case "":
		p.Difficulty = domain.DifficultyIntermediate
	default:
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidProgram, p.Difficulty)
	}

	for i := range p.WorkoutDays {
		day := &p.WorkoutDays[i]
		if day.DayNumber <= 0 {
			day.DayNumber = i + 1
		}
		for j := range day.Exercises {
			pe := &day.Exercises[j]
			ex, ok := s.catalog.GetByID(pe.ExerciseID)
			if !ok {
				return fmt.Errorf("%w: %q", ErrUnknownExercise, pe.ExerciseID)
			}
			pe.ExerciseName = ex.Name
			if pe.Sets <= 0 {
				return fmt.Errorf("%w: sets must be positive for %q", ErrInvalidProgram, pe.ExerciseID)
			}
		}
		if day.Exercises == nil {
			day.Exercises = []domain.ProgramExercise{}
		}
		day.RestDay = len(day.Exercises) == 0
	}
	return nil
}

func (s *programService) Update(ctx context.Context, id string, update ProgramUpdate) (*domain.WorkoutProgram, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	i := s.indexOf(id)
	if i < 0 {
		return nil, ErrProgramNotFound
	}

	updated := cloneProgram(s.programs[i])
	if update.Name != nil {
		updated.Name = *update.Name
	}
	if update.Description != nil {
		updated.Description = *update.Description
	}
	if update.Duration != nil {
		updated.Duration = *update.Duration
	}
	if update.Difficulty != nil {
		updated.Difficulty = *update.Difficulty
	}
	if update.Category != nil {
		updated.Category = *update.Category
	}
	if update.WorkoutDays != nil {
		updated.WorkoutDays = cloneProgram(domain.WorkoutProgram{WorkoutDays: *update.WorkoutDays}).WorkoutDays
	}
	if err := s.validate(&updated); err != nil {
		return nil, err
	}

	next := slices.Clone(s.programs)
	next[i] = updated
	if err := s.commit(ctx, next, s.activeID, false); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a custom program together with the routines it generated.
func (s *programService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}
	i := s.indexOf(id)
	if i < 0 {
		return ErrProgramNotFound
	}
	if !s.programs[i].IsCustom {
		return ErrProgramNotCustom
	}

	next := slices.Delete(slices.Clone(s.programs), i, i+1)
	activeID, wasActive := s.activeID, s.activeID == id
	if wasActive {
		activeID = ""
	}
	if err := s.commit(ctx, next, activeID, wasActive); err != nil {
		return err
	}
	if n, err := s.routines.DeleteByProgram(ctx, id); err != nil {
		log.Errorf("programs: failed to delete routines of program %s: %s", id, err)
	} else if n > 0 {
		log.Debugf("programs: deleted %d routines of program %s", n, id)
	}
	return nil
}

// TodaysWorkout is the current day of the active program.
func (s *programService) TodaysWorkout(ctx context.Context) (*domain.WorkoutDay, error) {
	active, err := s.Active(ctx)
	if err != nil {
		return nil, err
	}
	current := active.CurrentDay
	if current <= 0 {
		current = 1
	}
	if current > len(active.WorkoutDays) {
		return nil, fmt.Errorf("%w: day %d", ErrProgramNotFound, current)
	}
	day := active.WorkoutDays[current-1]
	return &day, nil
}

// AdvanceToNextDay moves the active program forward one day, rolling over
// to the next week after the last day. Finishing the last week completes
// the program and deactivates it.
func (s *programService) AdvanceToNextDay(ctx context.Context) (*domain.WorkoutProgram, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	active, err := s.activeLocked()
	if err != nil {
		return nil, err
	}
	i := s.indexOf(active.ID)
	next := slices.Clone(s.programs)
	p := &next[i]

	if p.CurrentWeek <= 0 {
		p.CurrentWeek = 1
	}
	if p.CurrentDay <= 0 {
		p.CurrentDay = 1
	}

	completed := false
	if p.CurrentDay >= len(p.WorkoutDays) {
		if p.CurrentWeek >= p.Duration {
			completed = true
		} else {
			p.CurrentWeek++
			p.CurrentDay = 1
		}
	} else {
		p.CurrentDay++
	}

	activeID := s.activeID
	if completed {
		deactivateAll(next)
		activeID = ""
	}
	if err := s.commit(ctx, next, activeID, completed); err != nil {
		return nil, err
	}
	if completed {
		log.WithField("program", p.Name).Info("programs: program completed")
	}
	out := cloneProgram(s.programs[i])
	return &out, nil
}

// Reset replaces the bundled programs with a fresh conversion, keeping
// custom programs. An active bundled program is deactivated.
func (s *programService) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}

	programs := s.seed()
	activeKept := false
	for _, p := range s.programs {
		if p.IsCustom {
			programs = append(programs, p)
			activeKept = activeKept || p.ID == s.activeID
		}
	}
	activeID := s.activeID
	if !activeKept {
		activeID = ""
		deactivateAll(programs)
	}
	return s.commit(ctx, programs, activeID, true)
}

// cloneProgram copies the day and exercise slices so callers never share
// memory with the service state.
func cloneProgram(p domain.WorkoutProgram) domain.WorkoutProgram {
	days := make([]domain.WorkoutDay, len(p.WorkoutDays))
	for i, d := range p.WorkoutDays {
		exercises := make([]domain.ProgramExercise, len(d.Exercises))
		copy(exercises, d.Exercises)
		d.Exercises = exercises
		days[i] = d
	}
	p.WorkoutDays = days
	return p
}
