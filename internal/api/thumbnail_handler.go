package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"alcyxob/fitprogram/internal/thumbnail"
)

// ThumbnailHandler serves cached thumbnails and cache maintenance.
type ThumbnailHandler struct {
	cache  *thumbnail.Cache
	warmer *thumbnail.Initializer
	// background work started by a request outlives it but not the server
	baseCtx context.Context
}

func NewThumbnailHandler(baseCtx context.Context, cache *thumbnail.Cache, warmer *thumbnail.Initializer) *ThumbnailHandler {
	return &ThumbnailHandler{cache: cache, warmer: warmer, baseCtx: baseCtx}
}

const remoteURLExpiry = 15 * time.Minute

type BatchThumbnailRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

func writeThumbnailError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, thumbnail.ErrInvalidID):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, thumbnail.ErrNoCandidateURLs), errors.Is(err, thumbnail.ErrGenerationFailed):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, thumbnail.ErrInitInProgress):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		abortWithError(c, http.StatusServiceUnavailable, err.Error())
	default:
		log.Errorf("api: thumbnail request failed: %s", err)
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// GetThumbnail returns the JPEG for an exercise, generating it on demand.
func (h *ThumbnailHandler) GetThumbnail(c *gin.Context) {
	path, err := h.cache.Path(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeThumbnailError(c, err)
		return
	}
	c.Header("Content-Type", "image/jpeg")
	c.File(path)
}

// GetRemoteURL returns a short-lived object storage link for the thumbnail.
func (h *ThumbnailHandler) GetRemoteURL(c *gin.Context) {
	url, err := h.cache.RemoteURL(c.Request.Context(), c.Param("id"), remoteURLExpiry)
	if err != nil {
		if errors.Is(err, thumbnail.ErrNoUploader) {
			abortWithError(c, http.StatusNotImplemented, err.Error())
			return
		}
		writeThumbnailError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url, "expiresIn": int(remoteURLExpiry.Seconds())})
}

func (h *ThumbnailHandler) GetStats(c *gin.Context) {
	stats, err := h.cache.Stats(c.Request.Context())
	if err != nil {
		writeThumbnailError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"stats":      stats,
		"inProgress": h.warmer.InProgress(),
		"progress":   h.warmer.Progress(),
	})
}

// BatchGenerate generates thumbnails for the given ids before responding.
func (h *ThumbnailHandler) BatchGenerate(c *gin.Context) {
	var req BatchThumbnailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	res, err := h.warmer.Prioritize(c.Request.Context(), req.IDs)
	if err != nil {
		writeThumbnailError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Initialize starts a full cache warm-up in the background.
func (h *ThumbnailHandler) Initialize(c *gin.Context) {
	if h.warmer.InProgress() {
		writeThumbnailError(c, thumbnail.ErrInitInProgress)
		return
	}
	go func() {
		if err := h.warmer.Initialize(h.baseCtx); err != nil && !errors.Is(err, thumbnail.ErrInitInProgress) {
			log.Errorf("api: thumbnail initialization failed: %s", err)
		}
	}()
	c.JSON(http.StatusAccepted, gin.H{"started": true})
}

func (h *ThumbnailHandler) ClearOld(c *gin.Context) {
	cleared, err := h.cache.ClearOld(c.Request.Context())
	if err != nil && cleared == 0 {
		writeThumbnailError(c, err)
		return
	}
	resp := gin.H{"cleared": cleared}
	if err != nil {
		resp["error"] = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ThumbnailHandler) ClearAll(c *gin.Context) {
	if err := h.cache.ClearAll(c.Request.Context()); err != nil {
		writeThumbnailError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
