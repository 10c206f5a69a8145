package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"alcyxob/fitprogram/internal/domain"
	"alcyxob/fitprogram/internal/service"
)

// ProgramHandler exposes workout programs and the active program's progression.
type ProgramHandler struct {
	programService service.ProgramService
}

func NewProgramHandler(programService service.ProgramService) *ProgramHandler {
	return &ProgramHandler{programService: programService}
}

// CreateProgramRequest is the body for a new custom program.
type CreateProgramRequest struct {
	Name        string              `json:"name" binding:"required"`
	Description string              `json:"description"`
	Duration    int                 `json:"duration" binding:"required,min=1"`
	Difficulty  domain.Difficulty   `json:"difficulty" binding:"omitempty,oneof=beginner intermediate advanced"`
	Category    string              `json:"category"`
	WorkoutDays []domain.WorkoutDay `json:"workoutDays" binding:"required,min=1"`
}

// writeProgramError maps service errors onto HTTP statuses.
func writeProgramError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProgramNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNoActiveProgram):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrProgramNotCustom):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidProgram), errors.Is(err, service.ErrUnknownExercise):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		log.Errorf("api: program request failed: %s", err)
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

func (h *ProgramHandler) ListPrograms(c *gin.Context) {
	programs, err := h.programService.All(c.Request.Context())
	if err != nil {
		writeProgramError(c, err)
		return
	}
	c.JSON(http.StatusOK, programs)
}

func (h *ProgramHandler) GetProgram(c *gin.Context) {
	program, err := h.programService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeProgramError(c, err)
		return
	}
	c.JSON(http.StatusOK, program)
}

func (h *ProgramHandler) GetActive(c *gin.Context) {
	program, err := h.programService.Active(c.Request.Context())
	if err != nil {
		writeProgramError(c, err)
		return
	}
	c.JSON(http.StatusOK, program)
}

func (h *ProgramHandler) GetToday(c *gin.Context) {
	day, err := h.programService.TodaysWorkout(c.Request.Context())
	if err != nil {
		writeProgramError(c, err)
		return
	}
	c.JSON(http.StatusOK, day)
}

// CreateProgram godoc
// @Summary Create a custom program
// @Tags Programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param program body CreateProgramRequest true "Program"
// @Success 201 {object} domain.WorkoutProgram
// @Router /programs [post]
func (h *ProgramHandler) CreateProgram(c *gin.Context) {
	var req CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	created, err := h.programService.Create(c.Request.Context(), domain.WorkoutProgram{
		Name:        req.Name,
		Description: req.Description,
		Duration:    req.Duration,
		Difficulty:  req.Difficulty,
		Category:    req.Category,
		WorkoutDays: req.WorkoutDays,
	})
	if err != nil {
		writeProgramError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ProgramHandler) UpdateProgram(c *gin.Context) {
	var req service.ProgramUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	updated, err := h.programService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeProgramError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ProgramHandler) DeleteProgram(c *gin.Context) {
	if err := h.programService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeProgramError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProgramHandler) ActivateProgram(c *gin.Context) {
	program, err := h.programService.Activate(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeProgramError(c, err)
		return
	}
	c.JSON(http.StatusOK, program)
}

func (h *ProgramHandler) DeactivateProgram(c *gin.Context) {
	if err := h.programService.Deactivate(c.Request.Context()); err != nil {
		writeProgramError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AdvanceDay moves the active program to its next day. A finished program
// comes back with isActive false.
func (h *ProgramHandler) AdvanceDay(c *gin.Context) {
	program, err := h.programService.AdvanceToNextDay(c.Request.Context())
	if err != nil {
		writeProgramError(c, err)
		return
	}
	c.JSON(http.StatusOK, program)
}

func (h *ProgramHandler) ResetPrograms(c *gin.Context) {
	if err := h.programService.Reset(c.Request.Context()); err != nil {
		writeProgramError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
