// Package api serves the lesson, submission and dashboard endpoints over HTTP.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/abhisek/mathapp/internal/api/handlers"
	"github.com/abhisek/mathapp/internal/api/middleware"
	"github.com/abhisek/mathapp/internal/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	CORSOrigins []string

	AuthHandler      *handlers.AuthHandler
	AuthMiddleware   *middleware.AuthMiddleware
	LessonHandler    *handlers.LessonHandler
	DashboardHandler *handlers.DashboardHandler
	HealthHandler    *handlers.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(cfg.Log))
	if len(cfg.CORSOrigins) > 0 {
		r.Use(middleware.CORS(cfg.CORSOrigins))
	}

	api := r.Group("/api")
	{
		if cfg.HealthHandler != nil {
			api.GET("/health", cfg.HealthHandler.HealthCheck)
		}
		if cfg.AuthHandler != nil {
			api.POST("/auth/login", cfg.AuthHandler.Login)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.LessonHandler != nil {
			protected.GET("/lessons", cfg.LessonHandler.List)
			protected.GET("/lessons/:lessonId", cfg.LessonHandler.Get)
			// The submit path segment holds the client-chosen submission ID.
			protected.POST("/lessons/:lessonId/submit", cfg.LessonHandler.Submit)
			protected.PUT("/lessons/:lessonId/progress", cfg.LessonHandler.UpdateProgress)
		}

		if cfg.DashboardHandler != nil {
			protected.GET("/dashboard", cfg.DashboardHandler.Dashboard)
			protected.GET("/user/stats", cfg.DashboardHandler.Stats)
		}
	}

	return r
}
