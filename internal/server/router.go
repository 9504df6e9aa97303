package server

import (
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"

  "github.com/lessonforge/lessonforge-backend/internal/handlers"
  "github.com/lessonforge/lessonforge-backend/internal/middleware"
)

type RouterConfig struct {
  AuthMiddleware     *middleware.AuthMiddleware
  HealthcheckHandler *handlers.HealthcheckHandler
  AIHandler          *handlers.AIHandler
  CreationHandler    *handlers.CreationHandler
  TemplateHandler    *handlers.TemplateHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  // Cors
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:80",
      "http://localhost:3000",
      "http://localhost:5173",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

  // ===============
  // || Public    ||
  // ===============
  router.GET("/healthcheck", cfg.HealthcheckHandler.Check)

  // ===============
  // || Protected ||
  // ===============
  api := router.Group("/api")
  api.Use(cfg.AuthMiddleware.RequireAuth())

  // AI
  ai := api.Group("/ai")
  ai.POST("/generate", cfg.AuthMiddleware.RequirePermission("ai", "generate"), cfg.AIHandler.Generate)
  ai.POST("/regenerate", cfg.AuthMiddleware.RequirePermission("ai", "regenerate"), cfg.AIHandler.Regenerate)
  ai.GET("/creations/:id/sections", cfg.AuthMiddleware.RequirePermission("creations", "read"), cfg.AIHandler.Sections)
  ai.GET("/usage", cfg.AIHandler.Usage)
  ai.GET("/models", cfg.AIHandler.Models)

  // Creations
  creations := api.Group("/creations")
  creations.POST("", cfg.AuthMiddleware.RequirePermission("creations", "create"), cfg.CreationHandler.Create)
  creations.GET("", cfg.AuthMiddleware.RequirePermission("creations", "read"), cfg.CreationHandler.List)
  creations.GET("/:id", cfg.AuthMiddleware.RequirePermission("creations", "read"), cfg.CreationHandler.Get)
  creations.PATCH("/:id", cfg.AuthMiddleware.RequirePermission("creations", "update"), cfg.CreationHandler.Update)
  creations.PUT("/:id/sections/:key", cfg.AuthMiddleware.RequirePermission("creations", "update"), cfg.CreationHandler.UpdateSection)
  creations.DELETE("/:id", cfg.AuthMiddleware.RequirePermission("creations", "delete"), cfg.CreationHandler.Delete)
  creations.POST("/:id/duplicate", cfg.AuthMiddleware.RequirePermission("creations", "duplicate"), cfg.CreationHandler.Duplicate)
  creations.PUT("/:id/publish", cfg.AuthMiddleware.RequirePermission("creations", "publish"), cfg.CreationHandler.SetPublished)
  creations.GET("/:id/versions", cfg.AuthMiddleware.RequirePermission("creations", "read"), cfg.CreationHandler.Versions)

  // Templates
  templates := api.Group("/templates")
  templates.GET("", cfg.AuthMiddleware.RequirePermission("templates", "read"), cfg.TemplateHandler.List)
  templates.GET("/:id", cfg.AuthMiddleware.RequirePermission("templates", "read"), cfg.TemplateHandler.Get)

  return router
}
