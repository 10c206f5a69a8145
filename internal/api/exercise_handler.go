package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"alcyxob/fitprogram/internal/catalog"
	"alcyxob/fitprogram/internal/service"
)

// ExerciseHandler serves the read-only exercise catalog.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// ListExercises godoc
// @Summary List catalog exercises
// @Tags Exercises
// @Produce json
// @Param page query int false "Page, 1-based"
// @Param limit query int false "Page size"
// @Param muscleGroup query string false "Muscle group"
// @Param category query string false "Category"
// @Param equipment query string false "Equipment"
// @Param difficulty query string false "Difficulty"
// @Param search query string false "Free text"
// @Success 200 {object} catalog.ExercisePage
// @Router /exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	filter := catalog.ExerciseFilter{
		Page:        queryInt(c, "page"),
		Limit:       queryInt(c, "limit"),
		MuscleGroup: c.Query("muscleGroup"),
		Category:    c.Query("category"),
		Equipment:   c.Query("equipment"),
		Difficulty:  c.Query("difficulty"),
		Query:       c.Query("search"),
	}
	c.JSON(http.StatusOK, h.exerciseService.List(c.Request.Context(), filter))
}

// queryInt reads an integer query parameter; malformed values count as unset.
func queryInt(c *gin.Context, key string) int {
	raw := c.Query(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Debugf("api: ignoring malformed %s=%q", key, raw)
		return 0
	}
	return n
}

func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	ex, err := h.exerciseService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to load exercise")
		return
	}
	c.JSON(http.StatusOK, ex)
}

func (h *ExerciseHandler) GetFacets(c *gin.Context) {
	c.JSON(http.StatusOK, h.exerciseService.Facets(c.Request.Context()))
}

// GetGifCandidates lists the remote animation URLs tried for an exercise.
func (h *ExerciseHandler) GetGifCandidates(c *gin.Context) {
	urls, err := h.exerciseService.GifCandidates(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to build candidate URLs")
		return
	}
	c.JSON(http.StatusOK, gin.H{"urls": urls})
}
