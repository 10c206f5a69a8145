package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"alcyxob/fitprogram/internal/domain"
	"alcyxob/fitprogram/internal/metrics"
	"alcyxob/fitprogram/internal/service"
	"alcyxob/fitprogram/internal/thumbnail"
)

// Dependencies is everything the HTTP layer needs.
type Dependencies struct {
	AuthService     service.AuthService
	ExerciseService service.ExerciseService
	ProgramService  service.ProgramService
	RoutineService  service.RoutineService
	Thumbnails      *thumbnail.Cache
	Warmer          *thumbnail.Initializer
	Metrics         *metrics.Manager
	Gatherer        prometheus.Gatherer
	// BackgroundCtx bounds work that a request starts but does not wait for.
	BackgroundCtx context.Context
}

func SetupRoutes(router *gin.Engine, deps Dependencies) {
	if deps.BackgroundCtx == nil {
		deps.BackgroundCtx = context.Background()
	}

	authHandler := NewAuthHandler(deps.AuthService)
	exerciseHandler := NewExerciseHandler(deps.ExerciseService)
	programHandler := NewProgramHandler(deps.ProgramService)
	routineHandler := NewRoutineHandler(deps.RoutineService)
	thumbnailHandler := NewThumbnailHandler(deps.BackgroundCtx, deps.Thumbnails, deps.Warmer)

	router.Use(PanicRecovery(deps.Metrics), RequestLogger())
	if deps.Metrics != nil {
		router.Use(RequestMetrics(deps.Metrics))
	}

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	admin := []gin.HandlerFunc{AuthMiddleware(deps.AuthService), RoleMiddleware(domain.RoleAdmin)}

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/auth/login", authHandler.Login)

		exercises := apiV1.Group("/exercises")
		{
			exercises.GET("", exerciseHandler.ListExercises)
			exercises.GET("/facets", exerciseHandler.GetFacets)
			exercises.GET("/:id", exerciseHandler.GetExercise)
			exercises.GET("/:id/gif-urls", exerciseHandler.GetGifCandidates)
		}

		programs := apiV1.Group("/programs")
		{
			programs.GET("", programHandler.ListPrograms)
			programs.GET("/active", programHandler.GetActive)
			programs.GET("/active/today", programHandler.GetToday)
			programs.GET("/:id", programHandler.GetProgram)

			write := programs.Group("", admin...)
			write.POST("", programHandler.CreateProgram)
			write.PUT("/:id", programHandler.UpdateProgram)
			write.DELETE("/:id", programHandler.DeleteProgram)
			write.POST("/:id/activate", programHandler.ActivateProgram)
			write.POST("/active/deactivate", programHandler.DeactivateProgram)
			write.POST("/active/advance", programHandler.AdvanceDay)
			write.POST("/reset", programHandler.ResetPrograms)
		}

		routines := apiV1.Group("/routines")
		{
			routines.GET("", routineHandler.ListRoutines)
			routines.GET("/:id", routineHandler.GetRoutine)

			write := routines.Group("", admin...)
			write.POST("", routineHandler.SaveRoutine)
			write.PUT("/:id", routineHandler.SaveRoutine)
			write.DELETE("/:id", routineHandler.DeleteRoutine)
			write.DELETE("", routineHandler.ClearRoutines)
			write.POST("/:id/duplicate", routineHandler.DuplicateRoutine)
			write.POST("/:id/used", routineHandler.MarkUsed)
		}

		thumbnails := apiV1.Group("/thumbnails")
		{
			thumbnails.GET("/stats", thumbnailHandler.GetStats)
			thumbnails.GET("/:id", thumbnailHandler.GetThumbnail)
			thumbnails.GET("/:id/remote-url", thumbnailHandler.GetRemoteURL)

			write := thumbnails.Group("", admin...)
			write.POST("/batch", thumbnailHandler.BatchGenerate)
			write.POST("/initialize", thumbnailHandler.Initialize)
			write.POST("/clear-old", thumbnailHandler.ClearOld)
			write.DELETE("", thumbnailHandler.ClearAll)
		}
	}
}
