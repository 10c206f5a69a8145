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

type RoutineHandler struct {
	routineService service.RoutineService
}

func NewRoutineHandler(routineService service.RoutineService) *RoutineHandler {
	return &RoutineHandler{routineService: routineService}
}

type DuplicateRoutineRequest struct {
	Name string `json:"name" binding:"required"`
}

func writeRoutineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRoutineNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidRoutine):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		log.Errorf("api: routine request failed: %s", err)
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

func (h *RoutineHandler) ListRoutines(c *gin.Context) {
	routines, err := h.routineService.All(c.Request.Context())
	if err != nil {
		writeRoutineError(c, err)
		return
	}
	c.JSON(http.StatusOK, routines)
}

func (h *RoutineHandler) GetRoutine(c *gin.Context) {
	routine, err := h.routineService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeRoutineError(c, err)
		return
	}
	c.JSON(http.StatusOK, routine)
}

// SaveRoutine handles both POST /routines and PUT /routines/:id. On PUT
// the path ID wins over the body.
func (h *RoutineHandler) SaveRoutine(c *gin.Context) {
	var routine domain.Routine
	if err := c.ShouldBindJSON(&routine); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	status := http.StatusCreated
	if id := c.Param("id"); id != "" {
		if _, err := h.routineService.Get(c.Request.Context(), id); err != nil {
			writeRoutineError(c, err)
			return
		}
		routine.ID = id
		status = http.StatusOK
	}
	saved, err := h.routineService.Save(c.Request.Context(), routine)
	if err != nil {
		writeRoutineError(c, err)
		return
	}
	c.JSON(status, saved)
}

func (h *RoutineHandler) DeleteRoutine(c *gin.Context) {
	if err := h.routineService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeRoutineError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RoutineHandler) DuplicateRoutine(c *gin.Context) {
	var req DuplicateRoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	dup, err := h.routineService.Duplicate(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		writeRoutineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dup)
}

func (h *RoutineHandler) MarkUsed(c *gin.Context) {
	if err := h.routineService.MarkUsed(c.Request.Context(), c.Param("id")); err != nil {
		writeRoutineError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RoutineHandler) ClearRoutines(c *gin.Context) {
	if err := h.routineService.Clear(c.Request.Context()); err != nil {
		writeRoutineError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
