package main

import (
  "context"
  "fmt"
  "os"

  "github.com/lessonforge/lessonforge-backend/internal/clients/redis"
  "github.com/lessonforge/lessonforge-backend/internal/db"
  "github.com/lessonforge/lessonforge-backend/internal/handlers"
  "github.com/lessonforge/lessonforge-backend/internal/logger"
  "github.com/lessonforge/lessonforge-backend/internal/middleware"
  "github.com/lessonforge/lessonforge-backend/internal/repos"
  "github.com/lessonforge/lessonforge-backend/internal/server"
  "github.com/lessonforge/lessonforge-backend/internal/services"
  "github.com/lessonforge/lessonforge-backend/internal/utils"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Database init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Error("Auto migration failed", "error", err)
    os.Exit(1)
  }
  thePG := postgresService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  userRepo := repos.NewUserRepo(thePG, log)
  creationRepo := repos.NewCreationRepo(thePG, log)
  userActivityRepo := repos.NewUserActivityRepo(thePG, log)
  aiCallLogRepo := repos.NewAICallLogRepo(thePG, log)

  _ = userRepo

  // Redis usage counter (optional; usage falls back to the activity table)
  var limiter redis.DailyLimiter
  limiter, err = redis.NewDailyLimiter(log)
  if err != nil {
    log.Warn("Redis limiter unavailable, using activity table for limits", "error", err)
    limiter = nil
  }

  // Services
  log.Info("Setting up Services from main...")
  geminiClient, err := services.NewGeminiClient(context.Background(), log)
  if err != nil {
    log.Error("Could not init GeminiClient", "error", err)
    os.Exit(1)
  }
  permissionService, err := services.NewPermissionService(log)
  if err != nil {
    log.Error("Could not init PermissionService", "error", err)
    os.Exit(1)
  }
  usageService := services.NewUsageService(limiter, userActivityRepo, log)
  generationService := services.NewGenerationService(thePG, log, geminiClient, permissionService, usageService, creationRepo, aiCallLogRepo)
  creationService := services.NewCreationService(thePG, log, creationRepo)
  templateService := services.NewTemplateService(log)

  // Handlers
  log.Info("Setting up Handlers from main...")
  healthcheckHandler := handlers.NewHealthcheckHandler()
  aiHandler := handlers.NewAIHandler(generationService)
  creationHandler := handlers.NewCreationHandler(creationService)
  templateHandler := handlers.NewTemplateHandler(templateService)

  // Middleware
  authMiddleware := middleware.NewAuthMiddleware(log, permissionService)

  // Router
  router := server.NewRouter(server.RouterConfig{
    AuthMiddleware:     authMiddleware,
    HealthcheckHandler: healthcheckHandler,
    AIHandler:          aiHandler,
    CreationHandler:    creationHandler,
    TemplateHandler:    templateHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  log.Info("Starting server...", "port", port)
  if err := router.Run(":" + port); err != nil {
    log.Error("Server exited", "error", err)
    os.Exit(1)
  }
}
